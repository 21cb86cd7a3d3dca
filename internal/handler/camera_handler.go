package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/citypeople-service/internal/camera"
	"github.com/psds-microservice/citypeople-service/internal/model"
)

// CaptureServicer is the camera and upload surface.
type CaptureServicer interface {
	Snapshot() (camera.Snapshot, bool)
	Show() error
	Teardown()
	SetSide(side camera.Side) error
	Record(side camera.Side) error
	Stop(ctx context.Context) (camera.Event, error)
	Send(ctx context.Context, req model.UploadRequest) (model.Success, error)
}

// CameraHandler handles capture and upload.
type CameraHandler struct {
	svc CaptureServicer
}

// NewCameraHandler creates a camera handler.
func NewCameraHandler(svc CaptureServicer) *CameraHandler {
	return &CameraHandler{svc: svc}
}

type cameraState struct {
	camera.Snapshot
	Uploading bool `json:"uploading"`
}

type stopResponse struct {
	Outcome    camera.EventKind `json:"outcome"`
	Side       camera.Side      `json:"side"`
	Path       string           `json:"path,omitempty"`
	DurationMS int64            `json:"duration_ms"`
}

func (h *CameraHandler) state(c *gin.Context, code int) {
	snap, uploading := h.svc.Snapshot()
	c.JSON(code, cameraState{Snapshot: snap, Uploading: uploading})
}

// State godoc
// GET /camera
func (h *CameraHandler) State(c *gin.Context) {
	h.state(c, http.StatusOK)
}

// Show godoc
// POST /camera/show
func (h *CameraHandler) Show(c *gin.Context) {
	if err := h.svc.Show(); err != nil {
		fail(c, err)
		return
	}
	h.state(c, http.StatusOK)
}

// Teardown godoc
// POST /camera/teardown
func (h *CameraHandler) Teardown(c *gin.Context) {
	h.svc.Teardown()
	h.state(c, http.StatusOK)
}

// SetSide godoc
// POST /camera/side
func (h *CameraHandler) SetSide(c *gin.Context) {
	side, ok := bindSide(c)
	if !ok {
		return
	}
	if err := h.svc.SetSide(side); err != nil {
		fail(c, err)
		return
	}
	h.state(c, http.StatusOK)
}

// Record godoc
// POST /camera/record
func (h *CameraHandler) Record(c *gin.Context) {
	side, ok := bindSide(c)
	if !ok {
		return
	}
	if err := h.svc.Record(side); err != nil {
		fail(c, err)
		return
	}
	h.state(c, http.StatusOK)
}

// Stop godoc
// POST /camera/stop
func (h *CameraHandler) Stop(c *gin.Context) {
	ev, err := h.svc.Stop(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stopResponse{
		Outcome:    ev.Kind,
		Side:       ev.Side,
		Path:       ev.Path,
		DurationMS: ev.Duration.Milliseconds(),
	})
}

// Upload godoc
// POST /uploads
func (h *CameraHandler) Upload(c *gin.Context) {
	var req model.UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.svc.Send(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, model.UploadResponse{Message: resp.Text()})
}

func bindSide(c *gin.Context) (camera.Side, bool) {
	var req model.SideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return "", false
	}
	side, err := camera.ParseSide(req.Side)
	if err != nil {
		badRequest(c, err)
		return "", false
	}
	return side, true
}
