package application

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/psds-microservice/citypeople-service/internal/camera"
	"github.com/psds-microservice/citypeople-service/internal/config"
	"github.com/psds-microservice/citypeople-service/internal/handler"
	"github.com/psds-microservice/citypeople-service/internal/location"
	"github.com/psds-microservice/citypeople-service/internal/metrics"
	"github.com/psds-microservice/citypeople-service/internal/notify"
	"github.com/psds-microservice/citypeople-service/internal/router"
	"github.com/psds-microservice/citypeople-service/internal/service"
	"go.uber.org/zap"
)

// API is the HTTP + WebSocket API application.
type API struct {
	cfg     *config.Config
	core    *Core
	log     *zap.Logger
	srv     *http.Server
	hub     *service.EventHub
	camera  *camera.Controller
	capture *service.CaptureService
	feed    *service.FeedService
}

// NewAPI creates the API application: core storage and client, camera backend, services, router.
func NewAPI(cfg *config.Config) (*API, error) {
	logger, err := NewLogger(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	core, err := NewCore(cfg, logger)
	if err != nil {
		return nil, err
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	hub := service.NewEventHub(cfg.EventsBuffer, cfg.WSReadBufferSize, cfg.WSWriteBufferSize, logger.Named("events"))
	hub.SetMetrics(m)
	if cfg.RabbitMQURL != "" {
		pub, err := notify.DialAMQP(cfg.RabbitMQURL, cfg.RabbitMQExchange, 3, logger)
		if err != nil {
			log.Printf("warning: rabbitmq connect failed (event publishing disabled): %v", err)
		} else {
			hub.SetBroker(pub)
		}
	}

	if err := os.MkdirAll(filepath.Dir(cfg.CameraOutputPath), 0o755); err != nil {
		return nil, fmt.Errorf("recording dir: %w", err)
	}
	side, _ := camera.ParseSide(cfg.CameraInitialSide)
	cam := camera.NewController(
		camera.Options{
			OutputPath:  cfg.CameraOutputPath,
			MinDuration: cfg.CameraMinDuration,
			InitialSide: side,
			EventBuffer: cfg.EventsBuffer,
		},
		camera.V4L2Discovery{Devices: map[camera.Side]string{
			camera.Front: cfg.CameraFrontDevice,
			camera.Rear:  cfg.CameraRearDevice,
		}},
		camera.NewFFmpegSession(cfg.FFmpegBin, logger.Named("ffmpeg")),
		camera.FFProbe{Bin: cfg.FFprobeBin},
		logger.Named("camera"),
	)

	loc := location.NewProvider(cfg.DefaultLocation)
	feedSvc := service.NewFeedService(core.Client, core.Cache, hub, m, logger.Named("feed"))
	playerSvc := service.NewPlayerService(feedSvc)
	captureSvc := service.NewCaptureService(cam, core.Pipeline, loc, hub, m, logger.Named("capture"))
	dirSvc := service.NewDirectoryService(core.Client, logger.Named("directory"))
	sessSvc := service.NewSessionService(core.Tokens, logger.Named("session"))

	h := router.Handlers{
		Health:    handler.NewHealthHandler(core.SQL),
		Session:   handler.NewSessionHandler(sessSvc, dirSvc, loc),
		Feed:      handler.NewFeedHandler(feedSvc, playerSvc),
		Camera:    handler.NewCameraHandler(captureSvc),
		Directory: handler.NewDirectoryHandler(dirSvc),
		Events:    handler.NewEventsWSHandler(hub, logger),
	}
	if m != nil {
		h.Metrics = m.Handler()
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.New(h),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// uploads can run up to APITimeout
		WriteTimeout: cfg.APITimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &API{
		cfg:     cfg,
		core:    core,
		log:     logger,
		srv:     srv,
		hub:     hub,
		camera:  cam,
		capture: captureSvc,
		feed:    feedSvc,
	}, nil
}

// Run starts the HTTP server and blocks until ctx is cancelled; then shuts down gracefully.
func (a *API) Run(ctx context.Context) error {
	defer a.log.Sync() //nolint:errcheck

	addr := a.srv.Addr
	host := a.cfg.AppHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	base := "http://" + host + ":" + a.cfg.HTTPPort
	log.Printf("HTTP server listening on %s", addr)
	log.Printf("  Health:        %s/health", base)
	log.Printf("  Ready:         %s/ready", base)
	log.Printf("  Feed:          %s/feed", base)
	log.Printf("  Camera:        %s/camera", base)
	log.Printf("  WebSocket:     ws://%s:%s/ws/events", host, a.cfg.HTTPPort)

	a.hub.SetContext(ctx)
	go a.capture.Run(ctx)

	if res, err := a.feed.LoadCached(ctx); err != nil {
		a.log.Warn("feed cache load failed", zap.Error(err))
	} else {
		a.log.Info("feed cache loaded", zap.Int("owners", len(res.Groups)))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		runErr = fmt.Errorf("http: %w", runErr)
	}

	a.camera.Teardown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.srv.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("http shutdown: %w", err)
	}
	a.hub.Close()
	if err := a.core.Close(); err != nil {
		a.log.Warn("database close failed", zap.Error(err))
	}
	return runErr
}
