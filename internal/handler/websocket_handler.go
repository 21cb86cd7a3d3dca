package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/psds-microservice/citypeople-service/internal/service"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// EventsWSHandler streams service events on /ws/events.
type EventsWSHandler struct {
	hub    service.EventHubForHandler
	logger *zap.Logger
}

// NewEventsWSHandler creates the WebSocket events handler.
func NewEventsWSHandler(hub service.EventHubForHandler, logger *zap.Logger) *EventsWSHandler {
	return &EventsWSHandler{hub: hub, logger: logger}
}

// ServeWS upgrades the request and pushes events until the client leaves.
// Path: /ws/events
func (h *EventsWSHandler) ServeWS(c *gin.Context) {
	conn, err := h.hub.Upgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	sub, cleanup := h.hub.Register(conn)
	defer cleanup()

	go h.writePump(sub)
	h.readPump(sub)
}

// readPump only drains control frames; clients don't send commands here.
func (h *EventsWSHandler) readPump(s *service.Subscriber) {
	s.Conn.SetReadLimit(512)
	_ = s.Conn.SetReadDeadline(time.Now().Add(pongWait))
	s.Conn.SetPongHandler(func(string) error {
		return s.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := s.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Debug("read error", zap.Error(err))
			}
			return
		}
	}
}

func (h *EventsWSHandler) writePump(s *service.Subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.Conn.Close()
	}()
	for {
		select {
		case data, ok := <-s.Send:
			_ = s.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
