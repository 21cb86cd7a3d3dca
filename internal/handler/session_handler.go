package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/citypeople-service/internal/model"
	"github.com/psds-microservice/citypeople-service/internal/service"
)

// SessionLogin stores the signed-in user's credential.
type SessionLogin interface {
	Login(ctx context.Context, phone, token string) (service.SessionInfo, error)
}

// UserSaver stores the user's display name.
type UserSaver interface {
	SaveUser(ctx context.Context, first, last string) (model.UserResponse, error)
}

// LocationSetter records the current locality.
type LocationSetter interface {
	Set(locality string)
	Current() string
}

// SessionHandler handles the signed-in user's session, name and location.
type SessionHandler struct {
	sess     SessionLogin
	users    UserSaver
	location LocationSetter
}

// NewSessionHandler creates a session handler.
func NewSessionHandler(sess SessionLogin, users UserSaver, location LocationSetter) *SessionHandler {
	return &SessionHandler{sess: sess, users: users, location: location}
}

// Login godoc
// POST /session
func (h *SessionHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	info, err := h.sess.Login(c.Request.Context(), req.Phone, req.Token)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, info)
}

// SaveUser godoc
// POST /user
func (h *SessionHandler) SaveUser(c *gin.Context) {
	var req model.SaveUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.users.SaveUser(c.Request.Context(), req.FirstName, req.LastName)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SetLocation godoc
// PUT /location
func (h *SessionHandler) SetLocation(c *gin.Context) {
	var req model.LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.location.Set(req.Location)
	c.JSON(http.StatusOK, gin.H{"location": h.location.Current()})
}
