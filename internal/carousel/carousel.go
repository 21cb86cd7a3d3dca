// Package carousel steps through clips of one owner and across owners.
package carousel

import (
	"fmt"

	"github.com/psds-microservice/citypeople-service/internal/feed"
	"github.com/psds-microservice/citypeople-service/internal/model"
)

// Direction of a tap.
type Direction string

const (
	Next     Direction = "next"
	Previous Direction = "previous"
)

// ParseDirection accepts "next" and "previous".
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Next, Previous:
		return Direction(s), nil
	}
	return "", fmt.Errorf("unknown direction %q", s)
}

// ActionKind is what the viewer must do after a step.
type ActionKind string

const (
	// ScrollTo: show the clip at Index and resume playback there.
	ScrollTo ActionKind = "scroll_to"
	// NextOwner / PreviousOwner: leave this owner's clips.
	NextOwner     ActionKind = "next_owner"
	PreviousOwner ActionKind = "previous_owner"
	// End: the outermost owner was reached under the Clamp policy.
	End ActionKind = "end"
)

// Action is the outcome of a step.
type Action struct {
	Kind  ActionKind `json:"kind"`
	Index int        `json:"index"`
}

// Carousel tracks the current clip inside one owner's list.
type Carousel struct {
	count int
	index int
}

// New starts at clip 0 of a list of count clips.
func New(count int) *Carousel {
	return &Carousel{count: count}
}

// Index returns the current clip.
func (c *Carousel) Index() int { return c.index }

// Seek puts the carousel on clip i; out of range values are ignored.
func (c *Carousel) Seek(i int) {
	if i >= 0 && i < c.count {
		c.index = i
	}
}

// Advance moves one clip. Leaving the list resets the index to 0 and asks the
// parent to move to the adjacent owner.
func (c *Carousel) Advance(d Direction) Action {
	switch d {
	case Next:
		if n := c.index + 1; n < c.count {
			c.index = n
			return Action{Kind: ScrollTo, Index: n}
		}
		c.index = 0
		return Action{Kind: NextOwner}
	default:
		if p := c.index - 1; p >= 0 {
			c.index = p
			return Action{Kind: ScrollTo, Index: p}
		}
		c.index = 0
		return Action{Kind: PreviousOwner}
	}
}

// Boundary decides what happens past the first or last owner.
type Boundary string

const (
	Clamp Boundary = "clamp"
	Wrap  Boundary = "wrap"
)

// ParseBoundary accepts "clamp", "wrap" or "" (clamp).
func ParseBoundary(s string) (Boundary, error) {
	switch Boundary(s) {
	case "", Clamp:
		return Clamp, nil
	case Wrap:
		return Wrap, nil
	}
	return "", fmt.Errorf("unknown boundary %q", s)
}

// Player walks the whole feed: owners outside, clips inside.
type Player struct {
	groups   []model.UserVideoGroup
	owner    int
	clips    *Carousel
	boundary Boundary
}

// NewPlayer opens the feed at the selected owner; an unknown owner opens the first one.
func NewPlayer(groups []model.UserVideoGroup, selectedOwner int, boundary Boundary) *Player {
	owner := feed.IndexOf(groups, selectedOwner)
	if owner < 0 {
		owner = 0
	}
	p := &Player{groups: groups, owner: owner, boundary: boundary}
	p.enter()
	return p
}

func (p *Player) enter() {
	n := 0
	if p.owner < len(p.groups) {
		n = len(p.groups[p.owner].Videos)
	}
	p.clips = New(n)
}

// Position is the player's current place in the feed.
type Position struct {
	OwnerIndex int                `json:"owner_index"`
	OwnerID    int                `json:"owner_id"`
	Name       string             `json:"name"`
	ClipIndex  int                `json:"clip_index"`
	Clip       *model.VideoRecord `json:"clip,omitempty"`
}

// Position reports the current owner and clip.
func (p *Player) Position() Position {
	pos := Position{OwnerIndex: p.owner, ClipIndex: p.clips.Index()}
	if p.owner < len(p.groups) {
		g := p.groups[p.owner]
		pos.OwnerID = g.OwnerID
		pos.Name = g.DisplayName
		if pos.ClipIndex < len(g.Videos) {
			clip := g.Videos[pos.ClipIndex]
			pos.Clip = &clip
		}
	}
	return pos
}

// Advance steps one clip; crossing a list end moves to the adjacent owner.
// The returned action is the clip-level action, or End when Clamp keeps the
// viewer on the outermost clip.
func (p *Player) Advance(d Direction) Action {
	before := p.clips.Index()
	a := p.clips.Advance(d)
	var moved Action
	switch a.Kind {
	case NextOwner:
		moved = p.MoveOwner(Next)
	case PreviousOwner:
		moved = p.MoveOwner(Previous)
	default:
		return a
	}
	if moved.Kind == End {
		p.clips.Seek(before)
		return moved
	}
	return a
}

// MoveOwner jumps to the adjacent owner, starting at its clip 0.
func (p *Player) MoveOwner(d Direction) Action {
	n := len(p.groups)
	if n == 0 {
		return Action{Kind: End}
	}
	target := p.owner + 1
	if d == Previous {
		target = p.owner - 1
	}
	if target < 0 || target >= n {
		if p.boundary != Wrap {
			return Action{Kind: End, Index: p.owner}
		}
		target = (target + n) % n
	}
	p.owner = target
	p.enter()
	return Action{Kind: ScrollTo, Index: target}
}
