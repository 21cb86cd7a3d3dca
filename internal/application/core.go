package application

import (
	"database/sql"
	"fmt"

	"github.com/psds-microservice/citypeople-service/internal/api"
	"github.com/psds-microservice/citypeople-service/internal/auth"
	"github.com/psds-microservice/citypeople-service/internal/config"
	"github.com/psds-microservice/citypeople-service/internal/database"
	"github.com/psds-microservice/citypeople-service/internal/store"
	"github.com/psds-microservice/citypeople-service/internal/upload"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Core is what both the API server and the one-shot commands need: storage,
// credentials, the backend client and the upload pipeline.
type Core struct {
	Cfg      *config.Config
	Log      *zap.Logger
	DB       *gorm.DB
	SQL      *sql.DB
	Tokens   *auth.TokenSource
	Client   *api.Client
	Cache    *store.VideoCache
	Pipeline *upload.Pipeline
}

// NewCore validates config, runs migrations and opens the database.
func NewCore(cfg *config.Config, log *zap.Logger) (*Core, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	tokens := auth.NewTokenSource(store.NewCredentialRepo(db))
	client := api.NewClient(cfg.APIBaseURL, cfg.APITimeout, tokens, log.Named("api"))

	var encoder upload.Encoder
	if cfg.UploadReencode {
		encoder = upload.FFmpegEncoder{Bin: cfg.FFmpegBin, CRF: cfg.UploadCRF}
	}
	return &Core{
		Cfg:      cfg,
		Log:      log,
		DB:       db,
		SQL:      sqlDB,
		Tokens:   tokens,
		Client:   client,
		Cache:    store.NewVideoCache(db),
		Pipeline: upload.NewPipeline(client, encoder, log.Named("upload")),
	}, nil
}

// Close releases the database pool.
func (c *Core) Close() error {
	return c.SQL.Close()
}
