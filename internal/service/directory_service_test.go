package service

import (
	"context"
	"errors"
	"testing"

	"github.com/psds-microservice/citypeople-service/internal/errs"
	"github.com/psds-microservice/citypeople-service/internal/model"
	"go.uber.org/zap"
)

type fakeDirectoryAPI struct {
	friends   []model.Friend
	phones    []string
	added     []int
	responded map[int]bool
	savedName string
	group     string
	status    bool
}

func (f *fakeDirectoryAPI) Contacts(_ context.Context, phones []string) ([]model.Friend, error) {
	f.phones = phones
	return f.friends, nil
}

func (f *fakeDirectoryAPI) AddFriend(_ context.Context, id int) (model.Success, error) {
	f.added = append(f.added, id)
	return model.Success{Status: f.status}, nil
}

func (f *fakeDirectoryAPI) RespondFriend(_ context.Context, id int, accept bool) (model.Success, error) {
	if f.responded == nil {
		f.responded = map[int]bool{}
	}
	f.responded[id] = accept
	return model.Success{Status: f.status}, nil
}

func (f *fakeDirectoryAPI) CreateGroup(_ context.Context, name string, _ []int) (model.Success, error) {
	f.group = name
	return model.Success{Status: f.status}, nil
}

func (f *fakeDirectoryAPI) SaveUser(_ context.Context, name string) (model.UserResponse, error) {
	f.savedName = name
	return model.UserResponse{Status: f.status}, nil
}

func addressBook() []model.AddressBookEntry {
	return []model.AddressBookEntry{
		{Name: "Carol Day", Phones: []string{"+1 555 0101"}},
		{Name: "Dan Eve", Phones: []string{"+1 555 0102", "+1 555 0103"}},
		{Name: "Fay Gill", Phones: []string{"+1 555 0104"}},
	}
}

func TestMatchContacts(t *testing.T) {
	api := &fakeDirectoryAPI{friends: []model.Friend{
		{ID: 11, Name: "Fay", Phone: "+15550104", RequestStatus: model.RequestStatusReceived},
	}}
	svc := NewDirectoryService(api, zap.NewNop())

	list, err := svc.MatchContacts(context.Background(), addressBook())
	if err != nil {
		t.Fatal(err)
	}
	if len(api.phones) != 4 || api.phones[0] != "+15550101" {
		t.Errorf("posted phones = %v", api.phones)
	}
	if len(list) != 4 {
		t.Fatalf("contacts = %d", len(list))
	}
	first := list[0]
	if !first.IsRegistered || first.ID != 11 || first.Name != "Fay" || first.Action != "Accept" {
		t.Errorf("first = %+v", first)
	}
	if list[1].IsRegistered || list[1].Name != "Carol Day" {
		t.Errorf("second = %+v", list[1])
	}
}

func TestSearch(t *testing.T) {
	svc := NewDirectoryService(&fakeDirectoryAPI{}, zap.NewNop())
	if _, err := svc.MatchContacts(context.Background(), addressBook()); err != nil {
		t.Fatal(err)
	}
	if got := svc.Search(""); len(got) != 4 {
		t.Errorf("empty keyword = %d", len(got))
	}
	got := svc.Search("dan")
	if len(got) != 2 || got[0].Name != "Dan Eve" {
		t.Errorf("search dan = %+v", got)
	}
	if got := svc.Search("zed"); len(got) != 0 {
		t.Errorf("search zed = %+v", got)
	}
}

func TestAct(t *testing.T) {
	api := &fakeDirectoryAPI{status: true, friends: []model.Friend{
		{ID: 1, Name: "Carol", Phone: "+15550101", RequestStatus: model.RequestStatusNone},
		{ID: 2, Name: "Fay", Phone: "+15550104", RequestStatus: model.RequestStatusReceived},
		{ID: 3, Name: "Dan", Phone: "+15550102", RequestStatus: model.RequestStatusSent},
	}}
	svc := NewDirectoryService(api, zap.NewNop())
	if _, err := svc.MatchContacts(context.Background(), addressBook()); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	c, _, err := svc.Act(ctx, "+1 555 0101", false)
	if err != nil || len(api.added) != 1 || api.added[0] != 1 {
		t.Fatalf("add: err=%v added=%v", err, api.added)
	}
	if c.RequestStatus != model.RequestStatusSent || c.Action != "Requested" {
		t.Errorf("after add = %+v", c)
	}

	c, _, err = svc.Act(ctx, "+15550104", true)
	if err != nil || api.responded[2] != false {
		t.Fatalf("reject: err=%v responded=%v", err, api.responded)
	}
	if c.IsFriend {
		t.Errorf("rejected contact is a friend")
	}

	if _, _, err := svc.Act(ctx, "+15550102", false); err != nil {
		t.Fatal(err)
	}
	if len(api.added) != 1 || len(api.responded) != 1 {
		t.Errorf("sent status should be a no-op")
	}

	if _, _, err := svc.Act(ctx, "+19999", false); !errors.Is(err, errs.ErrContactNotFound) {
		t.Errorf("unknown phone: %v", err)
	}
}

func TestCreateGroupAndSaveUser(t *testing.T) {
	api := &fakeDirectoryAPI{status: true}
	svc := NewDirectoryService(api, zap.NewNop())
	ctx := context.Background()

	if _, err := svc.CreateGroup(ctx, "  ", []int{1}); !errors.Is(err, errs.ErrGroupNameEmpty) {
		t.Errorf("empty group name: %v", err)
	}
	if _, err := svc.CreateGroup(ctx, "Family", []int{1, 2}); err != nil || api.group != "Family" {
		t.Errorf("create group: %v %q", err, api.group)
	}
	if _, err := svc.SaveUser(ctx, "Ann", ""); !errors.Is(err, errs.ErrNameEmpty) {
		t.Errorf("empty last name: %v", err)
	}
	if _, err := svc.SaveUser(ctx, "Ann", "Lee"); err != nil || api.savedName != "Ann Lee" {
		t.Errorf("save user: %v %q", err, api.savedName)
	}

	api.status = false
	if _, err := svc.CreateGroup(ctx, "Work", nil); !errors.Is(err, errs.ErrRejected) {
		t.Errorf("rejected group: %v", err)
	}
}
