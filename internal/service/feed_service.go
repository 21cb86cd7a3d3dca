package service

import (
	"context"
	"errors"
	"sync"

	"github.com/psds-microservice/citypeople-service/internal/errs"
	"github.com/psds-microservice/citypeople-service/internal/feed"
	"github.com/psds-microservice/citypeople-service/internal/metrics"
	"github.com/psds-microservice/citypeople-service/internal/model"
	"go.uber.org/zap"
)

// Feed sources.
const (
	SourceRemote = "remote"
	SourceCache  = "cache"
)

// VideoSource fetches the feed from the backend.
type VideoSource interface {
	Videos(ctx context.Context) ([]model.VideoRecord, error)
}

// VideoCache keeps the last fetched feed.
type VideoCache interface {
	Replace(ctx context.Context, records []model.VideoRecord) error
	List(ctx context.Context) ([]model.VideoRecord, error)
}

// FeedResult is the grouped feed and where it came from.
type FeedResult struct {
	Source string                 `json:"source"`
	Groups []model.UserVideoGroup `json:"groups"`
}

// FeedService loads the feed, groups it by owner and keeps the home grid.
type FeedService struct {
	source  VideoSource
	cache   VideoCache
	events  EventPublisher
	metrics *metrics.Metrics
	log     *zap.Logger

	mu     sync.RWMutex
	groups []model.UserVideoGroup
	items  []feed.Item
}

// NewFeedService creates a feed service. cache may be nil.
func NewFeedService(source VideoSource, cache VideoCache, events EventPublisher, m *metrics.Metrics, log *zap.Logger) *FeedService {
	return &FeedService{
		source:  source,
		cache:   cache,
		events:  events,
		metrics: m,
		log:     log,
		groups:  []model.UserVideoGroup{},
		items:   feed.Placeholders(),
	}
}

// Refresh fetches the feed. When the backend fails for any reason other than
// an expired token, the cached feed is served instead if there is one.
func (s *FeedService) Refresh(ctx context.Context) (FeedResult, error) {
	records, err := s.source.Videos(ctx)
	if err == nil {
		if s.cache != nil {
			if cerr := s.cache.Replace(ctx, records); cerr != nil {
				s.log.Warn("feed cache write failed", zap.Error(cerr))
			}
		}
		return s.apply(SourceRemote, records), nil
	}
	if errors.Is(err, errs.ErrTokenExpired) || s.cache == nil {
		return FeedResult{}, err
	}
	cached, cerr := s.cache.List(ctx)
	if cerr != nil || len(cached) == 0 {
		if cerr != nil {
			s.log.Warn("feed cache read failed", zap.Error(cerr))
		}
		return FeedResult{}, err
	}
	s.log.Warn("feed fetch failed, serving cache", zap.Int("records", len(cached)), zap.Error(err))
	return s.apply(SourceCache, cached), nil
}

// LoadCached fills the grid from the cache without touching the network.
func (s *FeedService) LoadCached(ctx context.Context) (FeedResult, error) {
	if s.cache == nil {
		return FeedResult{Source: SourceCache, Groups: s.Groups()}, nil
	}
	cached, err := s.cache.List(ctx)
	if err != nil {
		return FeedResult{}, err
	}
	return s.apply(SourceCache, cached), nil
}

func (s *FeedService) apply(source string, records []model.VideoRecord) FeedResult {
	groups := feed.Group(records)
	s.mu.Lock()
	s.groups = groups
	s.items = feed.Merge(s.items, groups)
	s.mu.Unlock()

	s.metrics.ObserveFeed(source, len(groups))
	s.events.Publish(model.NewEvent(model.EventFeedUpdated, map[string]any{
		"source": source,
		"owners": len(groups),
	}))
	return FeedResult{Source: source, Groups: groups}
}

// Groups returns the last grouped feed.
func (s *FeedService) Groups() []model.UserVideoGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.groups
}

// Items returns the home grid.
func (s *FeedService) Items() []feed.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]feed.Item, len(s.items))
	copy(out, s.items)
	return out
}
