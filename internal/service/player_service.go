package service

import (
	"sync"

	"github.com/psds-microservice/citypeople-service/internal/carousel"
	"github.com/psds-microservice/citypeople-service/internal/errs"
	"github.com/psds-microservice/citypeople-service/internal/model"
)

// GroupSource provides the grouped feed the player walks.
type GroupSource interface {
	Groups() []model.UserVideoGroup
}

// PlayerState is returned by every player call.
type PlayerState struct {
	Action   *carousel.Action  `json:"action,omitempty"`
	Position carousel.Position `json:"position"`
}

// PlayerService holds the single open full-screen player.
type PlayerService struct {
	groups GroupSource

	mu     sync.Mutex
	player *carousel.Player
}

// NewPlayerService creates a player service.
func NewPlayerService(groups GroupSource) *PlayerService {
	return &PlayerService{groups: groups}
}

// Open starts playback at ownerID's first clip. An owner missing from the
// feed opens the first owner; an empty feed is ErrOwnerNotFound.
func (s *PlayerService) Open(ownerID int, boundary carousel.Boundary) (PlayerState, error) {
	groups := s.groups.Groups()
	if len(groups) == 0 {
		return PlayerState{}, errs.ErrOwnerNotFound
	}
	p := carousel.NewPlayer(groups, ownerID, boundary)
	s.mu.Lock()
	s.player = p
	s.mu.Unlock()
	return PlayerState{Position: p.Position()}, nil
}

// Advance steps one clip.
func (s *PlayerService) Advance(d carousel.Direction) (PlayerState, error) {
	return s.step(func(p *carousel.Player) carousel.Action { return p.Advance(d) })
}

// MoveOwner jumps to the adjacent owner.
func (s *PlayerService) MoveOwner(d carousel.Direction) (PlayerState, error) {
	return s.step(func(p *carousel.Player) carousel.Action { return p.MoveOwner(d) })
}

func (s *PlayerService) step(fn func(*carousel.Player) carousel.Action) (PlayerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player == nil {
		return PlayerState{}, errs.ErrPlayerNotOpen
	}
	a := fn(s.player)
	return PlayerState{Action: &a, Position: s.player.Position()}, nil
}

// Current returns the position without moving.
func (s *PlayerService) Current() (PlayerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player == nil {
		return PlayerState{}, errs.ErrPlayerNotOpen
	}
	return PlayerState{Position: s.player.Position()}, nil
}

// Close drops the player.
func (s *PlayerService) Close() {
	s.mu.Lock()
	s.player = nil
	s.mu.Unlock()
}
