package carousel

import (
	"testing"

	"github.com/psds-microservice/citypeople-service/internal/feed"
	"github.com/psds-microservice/citypeople-service/internal/model"
)

func TestAdvanceWithinBounds(t *testing.T) {
	c := New(3)
	if a := c.Advance(Next); a != (Action{Kind: ScrollTo, Index: 1}) {
		t.Errorf("first next: %+v", a)
	}
	if a := c.Advance(Next); a != (Action{Kind: ScrollTo, Index: 2}) {
		t.Errorf("second next: %+v", a)
	}
	if a := c.Advance(Previous); a != (Action{Kind: ScrollTo, Index: 1}) {
		t.Errorf("previous: %+v", a)
	}
}

func TestAdvanceNextAtLastIndexMovesOwner(t *testing.T) {
	for count := 1; count <= 4; count++ {
		c := New(count)
		for i := 0; i < count-1; i++ {
			c.Advance(Next)
		}
		a := c.Advance(Next)
		if a.Kind != NextOwner {
			t.Errorf("count %d: expected next_owner, got %+v", count, a)
		}
		if c.Index() != 0 {
			t.Errorf("count %d: index should reset to 0, got %d", count, c.Index())
		}
	}
}

func TestAdvancePreviousAtFirstIndexMovesOwner(t *testing.T) {
	c := New(2)
	if a := c.Advance(Previous); a.Kind != PreviousOwner {
		t.Errorf("expected previous_owner, got %+v", a)
	}
}

func TestEmptyListAlwaysLeaves(t *testing.T) {
	c := New(0)
	if a := c.Advance(Next); a.Kind != NextOwner {
		t.Errorf("expected next_owner, got %+v", a)
	}
}

func TestParseDirection(t *testing.T) {
	if _, err := ParseDirection("sideways"); err == nil {
		t.Error("expected error for unknown direction")
	}
	if d, err := ParseDirection("next"); err != nil || d != Next {
		t.Errorf("ParseDirection(next) = %v, %v", d, err)
	}
}

func testGroups() []model.UserVideoGroup {
	return feed.Group([]model.VideoRecord{
		{ID: 1, OwnerID: 5}, {ID: 2, OwnerID: 7}, {ID: 3, OwnerID: 5}, {ID: 4, OwnerID: 9},
	})
}

func TestPlayerStartsAtSelectedOwner(t *testing.T) {
	p := NewPlayer(testGroups(), 7, Clamp)
	pos := p.Position()
	if pos.OwnerID != 7 || pos.ClipIndex != 0 {
		t.Errorf("unexpected start: %+v", pos)
	}
	if pos.Clip == nil || pos.Clip.ID != 2 {
		t.Errorf("unexpected clip: %+v", pos.Clip)
	}

	p = NewPlayer(testGroups(), 42, Clamp)
	if pos := p.Position(); pos.OwnerIndex != 0 {
		t.Errorf("unknown owner should open first group, got %+v", pos)
	}
}

func TestPlayerCrossesOwners(t *testing.T) {
	p := NewPlayer(testGroups(), 5, Clamp)
	p.Advance(Next) // clip 3
	if a := p.Advance(Next); a.Kind != NextOwner {
		t.Fatalf("expected next_owner, got %+v", a)
	}
	if pos := p.Position(); pos.OwnerID != 7 || pos.ClipIndex != 0 {
		t.Errorf("expected owner 7 clip 0, got %+v", pos)
	}
}

func TestPlayerBoundaryPolicies(t *testing.T) {
	p := NewPlayer(testGroups(), 9, Clamp)
	if a := p.MoveOwner(Next); a.Kind != End {
		t.Errorf("clamp: expected end, got %+v", a)
	}
	if pos := p.Position(); pos.OwnerID != 9 {
		t.Errorf("clamp should stay on last owner, got %+v", pos)
	}

	p = NewPlayer(testGroups(), 9, Wrap)
	if a := p.MoveOwner(Next); a != (Action{Kind: ScrollTo, Index: 0}) {
		t.Errorf("wrap: expected scroll to 0, got %+v", a)
	}
	if a := p.MoveOwner(Previous); a != (Action{Kind: ScrollTo, Index: 2}) {
		t.Errorf("wrap back: expected scroll to 2, got %+v", a)
	}
}

func TestPlayerEmptyFeed(t *testing.T) {
	p := NewPlayer(nil, 1, Wrap)
	if a := p.MoveOwner(Next); a.Kind != End {
		t.Errorf("expected end on empty feed, got %+v", a)
	}
	if a := p.Advance(Next); a.Kind != End {
		t.Errorf("expected end on empty feed, got %+v", a)
	}
}

func TestPlayerClampStaysOnLastClip(t *testing.T) {
	groups := feed.Group([]model.VideoRecord{
		{ID: 1, OwnerID: 5}, {ID: 2, OwnerID: 7}, {ID: 3, OwnerID: 7},
	})
	p := NewPlayer(groups, 7, Clamp)
	if a := p.Advance(Next); a != (Action{Kind: ScrollTo, Index: 1}) {
		t.Fatalf("first next: %+v", a)
	}
	if a := p.Advance(Next); a.Kind != End {
		t.Errorf("past last clip of last owner: got %+v, want end", a)
	}
	if pos := p.Position(); pos.OwnerID != 7 || pos.ClipIndex != 1 {
		t.Errorf("clamp must keep the last clip, got %+v", pos)
	}
}

func TestPlayerClampStaysOnFirstClip(t *testing.T) {
	p := NewPlayer(testGroups(), 5, Clamp)
	if a := p.Advance(Previous); a.Kind != End {
		t.Errorf("before first clip of first owner: got %+v, want end", a)
	}
	if pos := p.Position(); pos.OwnerID != 5 || pos.ClipIndex != 0 {
		t.Errorf("clamp must keep the first clip, got %+v", pos)
	}
}

func TestPlayerWrapLeavesLastOwner(t *testing.T) {
	p := NewPlayer(testGroups(), 9, Wrap)
	if a := p.Advance(Next); a.Kind != NextOwner {
		t.Errorf("wrap: got %+v, want next_owner", a)
	}
	if pos := p.Position(); pos.OwnerID != 5 || pos.ClipIndex != 0 {
		t.Errorf("wrap: expected owner 5 clip 0, got %+v", pos)
	}
}
