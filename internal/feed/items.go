package feed

import "github.com/psds-microservice/citypeople-service/internal/model"

// PlaceholderSlots is how many empty cells the home grid shows before the feed arrives.
const PlaceholderSlots = 7

// ItemKind tags the variants of Item.
type ItemKind string

const (
	ItemPlaceholder ItemKind = "placeholder"
	ItemOwner       ItemKind = "owner"
)

// Item is one cell of the home grid: either an empty slot or an owner's videos.
type Item interface {
	Kind() ItemKind
}

// Placeholder is an empty grid slot.
type Placeholder struct {
	Slot int `json:"slot"`
}

func (Placeholder) Kind() ItemKind { return ItemPlaceholder }

// Owner is a grid cell showing one uploader.
type Owner struct {
	Group model.UserVideoGroup `json:"group"`
}

func (Owner) Kind() ItemKind { return ItemOwner }

// Placeholders returns the initial grid.
func Placeholders() []Item {
	items := make([]Item, PlaceholderSlots)
	for i := range items {
		items[i] = Placeholder{Slot: i}
	}
	return items
}

// Merge lays groups over the current grid. With more groups than cells the
// grid becomes exactly the groups; otherwise the leading cells are replaced
// and the remaining cells are kept.
func Merge(items []Item, groups []model.UserVideoGroup) []Item {
	if len(groups) > len(items) {
		out := make([]Item, len(groups))
		for i, g := range groups {
			out[i] = Owner{Group: g}
		}
		return out
	}
	out := make([]Item, len(items))
	copy(out, items)
	for i, g := range groups {
		out[i] = Owner{Group: g}
	}
	return out
}

// ItemView is the JSON shape of an Item.
type ItemView struct {
	Kind  ItemKind              `json:"kind"`
	Slot  *int                  `json:"slot,omitempty"`
	Group *model.UserVideoGroup `json:"group,omitempty"`
}

// Views renders items for the API.
func Views(items []Item) []ItemView {
	out := make([]ItemView, 0, len(items))
	for _, it := range items {
		switch v := it.(type) {
		case Placeholder:
			slot := v.Slot
			out = append(out, ItemView{Kind: ItemPlaceholder, Slot: &slot})
		case Owner:
			g := v.Group
			out = append(out, ItemView{Kind: ItemOwner, Group: &g})
		}
	}
	return out
}
