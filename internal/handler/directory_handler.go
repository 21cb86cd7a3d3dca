package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/citypeople-service/internal/model"
)

// DirectoryServicer matches contacts and runs friend and group actions.
type DirectoryServicer interface {
	MatchContacts(ctx context.Context, entries []model.AddressBookEntry) ([]model.Contact, error)
	Search(keyword string) []model.Contact
	Act(ctx context.Context, phone string, reject bool) (model.Contact, model.Success, error)
	CreateGroup(ctx context.Context, name string, ids []int) (model.Success, error)
}

// DirectoryHandler handles contacts and groups.
type DirectoryHandler struct {
	svc DirectoryServicer
}

// NewDirectoryHandler creates a directory handler.
func NewDirectoryHandler(svc DirectoryServicer) *DirectoryHandler {
	return &DirectoryHandler{svc: svc}
}

// Match godoc
// POST /contacts/match
func (h *DirectoryHandler) Match(c *gin.Context) {
	var req model.MatchContactsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	list, err := h.svc.MatchContacts(c.Request.Context(), req.Contacts)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contacts": list})
}

// Search godoc
// GET /contacts?q=
func (h *DirectoryHandler) Search(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"contacts": h.svc.Search(c.Query("q"))})
}

// Act godoc
// POST /contacts/act
func (h *DirectoryHandler) Act(c *gin.Context) {
	var req model.ContactActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	contact, resp, err := h.svc.Act(c.Request.Context(), req.Phone, req.Reject)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contact": contact, "message": resp.Text()})
}

// CreateGroup godoc
// POST /groups
func (h *DirectoryHandler) CreateGroup(c *gin.Context) {
	var req model.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.svc.CreateGroup(c.Request.Context(), req.Name, req.IDs)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": resp.Text()})
}
