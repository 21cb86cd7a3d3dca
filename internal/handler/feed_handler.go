package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/citypeople-service/internal/carousel"
	"github.com/psds-microservice/citypeople-service/internal/feed"
	"github.com/psds-microservice/citypeople-service/internal/model"
	"github.com/psds-microservice/citypeople-service/internal/service"
)

// FeedServicer loads the grouped feed.
type FeedServicer interface {
	Refresh(ctx context.Context) (service.FeedResult, error)
	Items() []feed.Item
}

// PlayerServicer drives the full-screen player.
type PlayerServicer interface {
	Open(ownerID int, boundary carousel.Boundary) (service.PlayerState, error)
	Advance(d carousel.Direction) (service.PlayerState, error)
	MoveOwner(d carousel.Direction) (service.PlayerState, error)
	Current() (service.PlayerState, error)
	Close()
}

// FeedHandler serves the feed, the home grid and the player.
type FeedHandler struct {
	feed   FeedServicer
	player PlayerServicer
}

// NewFeedHandler creates a feed handler.
func NewFeedHandler(feed FeedServicer, player PlayerServicer) *FeedHandler {
	return &FeedHandler{feed: feed, player: player}
}

// Feed godoc
// GET /feed
func (h *FeedHandler) Feed(c *gin.Context) {
	res, err := h.feed.Refresh(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Items godoc
// GET /feed/items
func (h *FeedHandler) Items(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": feed.Views(h.feed.Items())})
}

// OpenPlayer godoc
// POST /player
func (h *FeedHandler) OpenPlayer(c *gin.Context) {
	var req model.OpenPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	boundary, err := carousel.ParseBoundary(req.Boundary)
	if err != nil {
		badRequest(c, err)
		return
	}
	st, err := h.player.Open(req.OwnerID, boundary)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// Player godoc
// GET /player
func (h *FeedHandler) Player(c *gin.Context) {
	st, err := h.player.Current()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// ClosePlayer godoc
// DELETE /player
func (h *FeedHandler) ClosePlayer(c *gin.Context) {
	h.player.Close()
	c.Status(http.StatusNoContent)
}

// Advance godoc
// POST /player/advance
func (h *FeedHandler) Advance(c *gin.Context) {
	h.step(c, h.player.Advance)
}

// MoveOwner godoc
// POST /player/owner
func (h *FeedHandler) MoveOwner(c *gin.Context) {
	h.step(c, h.player.MoveOwner)
}

func (h *FeedHandler) step(c *gin.Context, fn func(carousel.Direction) (service.PlayerState, error)) {
	var req model.DirectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	d, err := carousel.ParseDirection(req.Direction)
	if err != nil {
		badRequest(c, err)
		return
	}
	st, err := fn(d)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
