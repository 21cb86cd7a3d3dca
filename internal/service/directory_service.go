package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/psds-microservice/citypeople-service/internal/errs"
	"github.com/psds-microservice/citypeople-service/internal/model"
	"go.uber.org/zap"
)

// DirectoryAPI is the backend surface for contacts, friends and groups.
type DirectoryAPI interface {
	Contacts(ctx context.Context, phones []string) ([]model.Friend, error)
	AddFriend(ctx context.Context, friendID int) (model.Success, error)
	RespondFriend(ctx context.Context, friendID int, accept bool) (model.Success, error)
	CreateGroup(ctx context.Context, name string, ids []int) (model.Success, error)
	SaveUser(ctx context.Context, name string) (model.UserResponse, error)
}

// DirectoryService matches the address book against registered users and
// runs friend and group actions.
type DirectoryService struct {
	api DirectoryAPI
	log *zap.Logger

	mu       sync.RWMutex
	contacts []model.Contact
}

// NewDirectoryService creates a directory service.
func NewDirectoryService(api DirectoryAPI, log *zap.Logger) *DirectoryService {
	return &DirectoryService{api: api, log: log, contacts: []model.Contact{}}
}

// NormalizePhone strips spaces.
func NormalizePhone(phone string) string {
	return strings.ReplaceAll(phone, " ", "")
}

// MatchContacts expands entries to one contact per phone, asks the backend
// which are registered and moves those to the front with the server's data.
func (s *DirectoryService) MatchContacts(ctx context.Context, entries []model.AddressBookEntry) ([]model.Contact, error) {
	list := make([]model.Contact, 0, len(entries))
	phones := make([]string, 0, len(entries))
	for _, e := range entries {
		for _, p := range e.Phones {
			p = NormalizePhone(p)
			if p == "" {
				continue
			}
			list = append(list, model.Contact{Name: strings.TrimSpace(e.Name), Phone: p})
			phones = append(phones, p)
		}
	}

	friends, err := s.api.Contacts(ctx, phones)
	if err != nil {
		return nil, err
	}
	for _, f := range friends {
		i := indexByPhone(list, f.Phone)
		if i < 0 {
			continue
		}
		list = append(list[:i], list[i+1:]...)
		c := model.Contact{
			ID:            f.ID,
			Name:          f.Name,
			Phone:         f.Phone,
			IsRegistered:  true,
			RequestStatus: f.RequestStatus,
			IsFriend:      f.AlreadyFriend,
		}
		list = append([]model.Contact{c}, list...)
	}
	for i := range list {
		list[i].Action = actionTitle(list[i])
	}

	s.mu.Lock()
	s.contacts = list
	s.mu.Unlock()
	s.log.Debug("contacts matched", zap.Int("contacts", len(list)), zap.Int("registered", len(friends)))
	return cloneContacts(list), nil
}

// Search filters matched contacts by a case-insensitive substring of the
// name. An empty keyword returns every contact.
func (s *DirectoryService) Search(keyword string) []model.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return cloneContacts(s.contacts)
	}
	out := make([]model.Contact, 0)
	for _, c := range s.contacts {
		if strings.Contains(strings.ToLower(c.Name), keyword) {
			out = append(out, c)
		}
	}
	return out
}

// Act runs the button action for the contact with phone: a fresh user gets a
// friend request, a received request is accepted (or rejected). Anything else
// is a no-op and returns a zero Success.
func (s *DirectoryService) Act(ctx context.Context, phone string, reject bool) (model.Contact, model.Success, error) {
	phone = NormalizePhone(phone)
	s.mu.RLock()
	i := indexByPhone(s.contacts, phone)
	var c model.Contact
	if i >= 0 {
		c = s.contacts[i]
	}
	s.mu.RUnlock()
	if i < 0 {
		return model.Contact{}, model.Success{}, errs.ErrContactNotFound
	}
	if !c.IsRegistered || c.IsFriend {
		return c, model.Success{}, nil
	}

	var (
		resp model.Success
		err  error
	)
	switch c.RequestStatus {
	case model.RequestStatusNone:
		resp, err = s.api.AddFriend(ctx, c.ID)
		if err == nil && resp.Status {
			c.RequestStatus = model.RequestStatusSent
		}
	case model.RequestStatusReceived:
		resp, err = s.api.RespondFriend(ctx, c.ID, !reject)
		if err == nil && resp.Status {
			c.RequestStatus = model.RequestStatusNone
			c.IsFriend = !reject
		}
	default:
		return c, model.Success{}, nil
	}
	if err != nil {
		return c, resp, err
	}
	if !resp.Status {
		return c, resp, fmt.Errorf("%w: %s", errs.ErrRejected, resp.Text())
	}
	c.Action = actionTitle(c)
	s.update(c)
	return c, resp, nil
}

// CreateGroup creates a group of friend ids.
func (s *DirectoryService) CreateGroup(ctx context.Context, name string, ids []int) (model.Success, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Success{}, errs.ErrGroupNameEmpty
	}
	resp, err := s.api.CreateGroup(ctx, name, ids)
	if err != nil {
		return resp, err
	}
	if !resp.Status {
		return resp, fmt.Errorf("%w: %s", errs.ErrRejected, resp.Text())
	}
	return resp, nil
}

// SaveUser stores "first last" as the user's name.
func (s *DirectoryService) SaveUser(ctx context.Context, first, last string) (model.UserResponse, error) {
	first, last = strings.TrimSpace(first), strings.TrimSpace(last)
	if first == "" {
		return model.UserResponse{}, fmt.Errorf("first %w", errs.ErrNameEmpty)
	}
	if last == "" {
		return model.UserResponse{}, fmt.Errorf("last %w", errs.ErrNameEmpty)
	}
	resp, err := s.api.SaveUser(ctx, first+" "+last)
	if err != nil {
		return resp, err
	}
	if !resp.Status {
		return resp, errs.ErrRejected
	}
	return resp, nil
}

func (s *DirectoryService) update(c model.Contact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexByPhone(s.contacts, c.Phone); i >= 0 {
		s.contacts[i] = c
	}
}

func actionTitle(c model.Contact) string {
	switch {
	case !c.IsRegistered:
		return ""
	case c.IsFriend:
		return "Friend"
	default:
		return c.RequestStatus.Title()
	}
}

func indexByPhone(list []model.Contact, phone string) int {
	for i, c := range list {
		if c.Phone == phone {
			return i
		}
	}
	return -1
}

func cloneContacts(in []model.Contact) []model.Contact {
	out := make([]model.Contact, len(in))
	copy(out, in)
	return out
}
