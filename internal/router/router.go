package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/citypeople-service/internal/handler"
	"github.com/psds-microservice/citypeople-service/pkg/constants"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Health    *handler.HealthHandler
	Session   *handler.SessionHandler
	Feed      *handler.FeedHandler
	Camera    *handler.CameraHandler
	Directory *handler.DirectoryHandler
	Events    *handler.EventsWSHandler
	Metrics   http.Handler // optional
}

// New builds the HTTP router.
func New(h Handlers) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET(constants.PathHealth, h.Health.Health)
	r.GET(constants.PathReady, h.Health.Ready)
	if h.Metrics != nil {
		r.GET(constants.PathMetrics, gin.WrapH(h.Metrics))
	}

	r.POST("/session", h.Session.Login)
	r.POST("/user", h.Session.SaveUser)
	r.PUT("/location", h.Session.SetLocation)

	r.GET("/feed", h.Feed.Feed)
	r.GET("/feed/items", h.Feed.Items)

	player := r.Group("/player")
	{
		player.POST("", h.Feed.OpenPlayer)
		player.GET("", h.Feed.Player)
		player.DELETE("", h.Feed.ClosePlayer)
		player.POST("/advance", h.Feed.Advance)
		player.POST("/owner", h.Feed.MoveOwner)
	}

	cam := r.Group("/camera")
	{
		cam.GET("", h.Camera.State)
		cam.POST("/show", h.Camera.Show)
		cam.POST("/teardown", h.Camera.Teardown)
		cam.POST("/side", h.Camera.SetSide)
		cam.POST("/record", h.Camera.Record)
		cam.POST("/stop", h.Camera.Stop)
	}
	r.POST("/uploads", h.Camera.Upload)

	r.POST("/contacts/match", h.Directory.Match)
	r.GET("/contacts", h.Directory.Search)
	r.POST("/contacts/act", h.Directory.Act)
	r.POST("/groups", h.Directory.CreateGroup)

	r.GET(constants.PathEvents, h.Events.ServeWS)

	return r
}
