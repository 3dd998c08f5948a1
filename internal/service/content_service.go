package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"pressroom/internal/model"
	"pressroom/internal/mq"
	"pressroom/internal/widget"
	"pressroom/pkg/metrics"
)

const articleCacheTTL = 5 * time.Minute

// ArticleStore is what the content service needs from persistence.
// *repository.ArticleRepository satisfies it.
type ArticleStore interface {
	FindBySlug(ctx context.Context, siteID int, slug string) (*model.Article, error)
	UpdateWidgets(ctx context.Context, siteID, articleID int, widgets []byte) (string, error)
	IncrementViews(ctx context.Context, siteID int, slug string) (int, error)
	IncrementLikes(ctx context.Context, siteID int, slug string) (int, error)
}

// ArticleView is the normalized read shape of an article. Widgets is the
// re-serialized collection after validation; TrackingConfig is forwarded
// untouched.
type ArticleView struct {
	ID             int             `json:"id"`
	SiteID         int             `json:"siteId"`
	Slug           string          `json:"slug"`
	Title          string          `json:"title"`
	AuthorName     *string         `json:"authorName,omitempty"`
	AuthorImage    *string         `json:"authorImage,omitempty"`
	Widgets        json.RawMessage `json:"widgets"`
	TrackingConfig map[string]any  `json:"trackingConfig"`
	DisplayViews   int             `json:"displayViews"`
	DisplayLikes   int             `json:"displayLikes"`
}

// ContentService owns the persisted representation of an article. Every
// widget read and write goes through the validator; writes are
// all-or-nothing at article granularity.
type ContentService struct {
	articles ArticleStore
	registry *widget.Registry
	cache    *redis.Client
	producer EventPublisher
	logger   *zap.Logger
}

func NewContentService(
	articles ArticleStore,
	registry *widget.Registry,
	cache *redis.Client,
	producer EventPublisher,
	logger *zap.Logger,
) *ContentService {
	return &ContentService{
		articles: articles,
		registry: registry,
		cache:    cache,
		producer: producer,
		logger:   logger,
	}
}

// Get returns one article with its widget collection normalized. Reads
// are cache-aside: a hit skips both the database and revalidation.
func (s *ContentService) Get(ctx context.Context, siteID int, slug string) (*ArticleView, error) {
	key := articleCacheKey(siteID, slug)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var view ArticleView
			if err := json.Unmarshal(data, &view); err == nil {
				return &view, nil
			}
		}
	}

	a, err := s.articles.FindBySlug(ctx, siteID, slug)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	normalized, err := s.normalize(a.ID, a.Widgets)
	if err != nil {
		return nil, err
	}

	view := &ArticleView{
		ID:             a.ID,
		SiteID:         a.SiteID,
		Slug:           a.Slug,
		Title:          a.Title,
		AuthorName:     a.AuthorName,
		AuthorImage:    a.AuthorImage,
		Widgets:        normalized,
		TrackingConfig: a.TrackingConfig,
		DisplayViews:   a.DisplayViews,
		DisplayLikes:   a.DisplayLikes,
	}

	if s.cache != nil {
		if data, err := json.Marshal(view); err == nil {
			s.cache.Set(ctx, key, data, articleCacheTTL)
		}
	}
	return view, nil
}

// PutWidgets validates and persists a raw widget collection. A
// *widget.ParseError aborts the write and leaves the stored state
// untouched; per-widget issues come back as warnings and never block
// persistence.
func (s *ContentService) PutWidgets(ctx context.Context, siteID, articleID int, raw []byte) ([]widget.Warning, error) {
	col, warnings, err := s.registry.Validate(raw)
	if err != nil {
		return nil, err
	}

	normalized, err := json.Marshal(col)
	if err != nil {
		return nil, err
	}

	slug, err := s.articles.UpdateWidgets(ctx, siteID, articleID, normalized)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	for _, w := range warnings {
		metrics.IncrementValidationWarning(w.Type)
		s.logger.Warn("widget validation warning",
			zap.Int("site_id", siteID),
			zap.Int("article_id", articleID),
			zap.String("warning", w.String()))
	}

	s.invalidate(ctx, siteID, slug)
	s.publish("article.widgets_updated", mq.WidgetsUpdatedPayload{
		SiteID:    siteID,
		ArticleID: articleID,
		Slug:      slug,
		Warnings:  len(warnings),
		UpdatedAt: time.Now(),
	})

	return warnings, nil
}

// IncrementViews bumps the display view counter. Display counters are
// editorial, independent of any real analytics.
func (s *ContentService) IncrementViews(ctx context.Context, siteID int, slug string) (int, error) {
	views, err := s.articles.IncrementViews(ctx, siteID, slug)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx, siteID, slug)
	return views, nil
}

// IncrementLikes bumps the display like counter.
func (s *ContentService) IncrementLikes(ctx context.Context, siteID int, slug string) (int, error) {
	likes, err := s.articles.IncrementLikes(ctx, siteID, slug)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx, siteID, slug)
	return likes, nil
}

// normalize runs the stored collection through the validator. A stored
// collection that no longer parses is logged and served empty rather than
// taking the whole article down.
func (s *ContentService) normalize(articleID int, raw []byte) (json.RawMessage, error) {
	col, warnings, err := s.registry.Validate(raw)
	if err != nil {
		var pe *widget.ParseError
		if errors.As(err, &pe) {
			s.logger.Error("stored widget collection is malformed",
				zap.Int("article_id", articleID),
				zap.Error(err))
			return json.RawMessage("[]"), nil
		}
		return nil, err
	}

	for _, w := range warnings {
		s.logger.Warn("widget validation warning on read",
			zap.Int("article_id", articleID),
			zap.String("warning", w.String()))
	}

	return json.Marshal(col)
}

func (s *ContentService) invalidate(ctx context.Context, siteID int, slug string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, articleCacheKey(siteID, slug)).Err(); err != nil {
		s.logger.Warn("failed to invalidate article cache",
			zap.Int("site_id", siteID),
			zap.String("slug", slug),
			zap.Error(err))
	}
}

func (s *ContentService) publish(routingKey string, payload any) {
	if s.producer == nil {
		return
	}
	if err := s.producer.Publish(routingKey, payload); err != nil {
		s.logger.Warn("failed to publish event",
			zap.String("routing_key", routingKey),
			zap.Error(err))
	}
}

func articleCacheKey(siteID int, slug string) string {
	return fmt.Sprintf("article:%d:%s", siteID, slug)
}
