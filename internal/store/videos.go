package store

import (
	"context"
	"time"

	"github.com/psds-microservice/citypeople-service/internal/model"
	"gorm.io/gorm"
)

// VideoCache keeps the last feed so the home grid can render before the network answers.
type VideoCache struct {
	db *gorm.DB
}

// NewVideoCache creates a feed cache.
func NewVideoCache(db *gorm.DB) *VideoCache {
	return &VideoCache{db: db}
}

// Replace swaps the cached feed for records, keeping their order.
func (c *VideoCache) Replace(ctx context.Context, records []model.VideoRecord) error {
	now := time.Now()
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.CachedVideo{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		rows := make([]model.CachedVideo, 0, len(records))
		for i, r := range records {
			rows = append(rows, model.CachedVideo{
				ID:        r.ID,
				Position:  i,
				OwnerID:   r.OwnerID,
				Location:  r.Location,
				Name:      r.DisplayName,
				URL:       r.MediaURL,
				FetchedAt: now,
			})
		}
		return tx.CreateInBatches(rows, 200).Error
	})
}

// List returns the cached feed in server order.
func (c *VideoCache) List(ctx context.Context) ([]model.VideoRecord, error) {
	var rows []model.CachedVideo
	if err := c.db.WithContext(ctx).Order("position ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]model.VideoRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Record())
	}
	return out, nil
}
