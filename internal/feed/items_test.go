package feed

import (
	"testing"

	"github.com/psds-microservice/citypeople-service/internal/model"
)

func TestMergeKeepsTrailingPlaceholders(t *testing.T) {
	groups := Group([]model.VideoRecord{rec(1, 5), rec(2, 7)})
	items := Merge(Placeholders(), groups)
	if len(items) != PlaceholderSlots {
		t.Fatalf("expected %d items, got %d", PlaceholderSlots, len(items))
	}
	if items[0].Kind() != ItemOwner || items[1].Kind() != ItemOwner {
		t.Error("leading cells should be owners")
	}
	for i := 2; i < len(items); i++ {
		p, ok := items[i].(Placeholder)
		if !ok || p.Slot != i {
			t.Errorf("cell %d should stay placeholder %d, got %#v", i, i, items[i])
		}
	}
}

func TestMergeReplacesGridWhenGroupsOutnumberCells(t *testing.T) {
	var records []model.VideoRecord
	for i := 0; i < PlaceholderSlots+2; i++ {
		records = append(records, rec(i, i))
	}
	items := Merge(Placeholders(), Group(records))
	if len(items) != PlaceholderSlots+2 {
		t.Fatalf("expected %d items, got %d", PlaceholderSlots+2, len(items))
	}
	for i, it := range items {
		o, ok := it.(Owner)
		if !ok || o.Group.OwnerID != i {
			t.Errorf("cell %d: got %#v", i, it)
		}
	}
}

func TestViews(t *testing.T) {
	views := Views(Merge(Placeholders(), Group([]model.VideoRecord{rec(1, 5)})))
	if views[0].Kind != ItemOwner || views[0].Group == nil || views[0].Group.OwnerID != 5 {
		t.Errorf("unexpected first view: %#v", views[0])
	}
	if views[1].Kind != ItemPlaceholder || views[1].Slot == nil || *views[1].Slot != 1 {
		t.Errorf("unexpected second view: %#v", views[1])
	}
}
