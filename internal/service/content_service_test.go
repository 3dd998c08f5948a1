package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pressroom/internal/model"
	"pressroom/internal/widget"
)

type fakeArticleStore struct {
	article *model.Article
	updates [][]byte
}

func (f *fakeArticleStore) FindBySlug(_ context.Context, siteID int, slug string) (*model.Article, error) {
	if f.article == nil || f.article.SiteID != siteID || f.article.Slug != slug {
		return nil, pgx.ErrNoRows
	}
	return f.article, nil
}

func (f *fakeArticleStore) UpdateWidgets(_ context.Context, siteID, articleID int, widgets []byte) (string, error) {
	if f.article == nil || f.article.SiteID != siteID || f.article.ID != articleID {
		return "", pgx.ErrNoRows
	}
	f.updates = append(f.updates, widgets)
	f.article.Widgets = widgets
	return f.article.Slug, nil
}

func (f *fakeArticleStore) IncrementViews(_ context.Context, siteID int, slug string) (int, error) {
	if f.article == nil || f.article.SiteID != siteID || f.article.Slug != slug {
		return 0, pgx.ErrNoRows
	}
	f.article.DisplayViews++
	return f.article.DisplayViews, nil
}

func (f *fakeArticleStore) IncrementLikes(_ context.Context, siteID int, slug string) (int, error) {
	if f.article == nil || f.article.SiteID != siteID || f.article.Slug != slug {
		return 0, pgx.ErrNoRows
	}
	f.article.DisplayLikes++
	return f.article.DisplayLikes, nil
}

func testArticle() *model.Article {
	name := "Jo Writer"
	return &model.Article{
		ID:             7,
		SiteID:         1,
		Slug:           "hello-world",
		Title:          "Hello World",
		AuthorName:     &name,
		Widgets:        []byte(`[{"type":"text","config":{"body":"hi"}}]`),
		TrackingConfig: map[string]any{"pixel": "abc", "nested": map[string]any{"k": float64(1)}},
		DisplayViews:   3,
		DisplayLikes:   1,
		UpdatedAt:      time.Now(),
	}
}

func newContentService(store *fakeArticleStore, pub *fakePublisher) *ContentService {
	return NewContentService(store, widget.DefaultRegistry(), nil, pub, zap.NewNop())
}

func TestGetReturnsNormalizedWidgets(t *testing.T) {
	store := &fakeArticleStore{article: testArticle()}
	s := newContentService(store, &fakePublisher{})

	view, err := s.Get(context.Background(), 1, "hello-world")
	require.NoError(t, err)

	assert.Equal(t, 7, view.ID)
	assert.Equal(t, "Hello World", view.Title)
	assert.Equal(t, 3, view.DisplayViews)

	var widgets []map[string]any
	require.NoError(t, json.Unmarshal(view.Widgets, &widgets))
	require.Len(t, widgets, 1)
	cfg := widgets[0]["config"].(map[string]any)
	assert.Equal(t, "hi", cfg["body"])
	assert.Equal(t, "markdown", cfg["format"], "declared default should be filled on read")

	// tracking config is forwarded untouched
	assert.Equal(t, "abc", view.TrackingConfig["pixel"])
}

func TestGetNotFound(t *testing.T) {
	s := newContentService(&fakeArticleStore{}, &fakePublisher{})

	_, err := s.Get(context.Background(), 1, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetServesMalformedStoredCollectionAsEmpty(t *testing.T) {
	a := testArticle()
	a.Widgets = []byte(`{corrupt`)
	s := newContentService(&fakeArticleStore{article: a}, &fakePublisher{})

	view, err := s.Get(context.Background(), 1, "hello-world")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(view.Widgets))
}

func TestPutWidgetsParseErrorLeavesStateUntouched(t *testing.T) {
	store := &fakeArticleStore{article: testArticle()}
	pub := &fakePublisher{}
	s := newContentService(store, pub)

	for _, raw := range []string{`{"not":"an array"}`, `null`, `{corrupt`} {
		_, err := s.PutWidgets(context.Background(), 1, 7, []byte(raw))

		var parseErr *widget.ParseError
		require.ErrorAs(t, err, &parseErr, "body %q must be rejected", raw)
	}
	assert.Empty(t, store.updates, "a parse failure must not reach persistence")
	assert.Empty(t, pub.events)
}

func TestPutWidgetsPersistsNormalizedCollection(t *testing.T) {
	store := &fakeArticleStore{article: testArticle()}
	pub := &fakePublisher{}
	s := newContentService(store, pub)

	raw := []byte(`[{"type":"text","id":"a","config":{"body":"new"}},{"type":"unknown-x","config":{}}]`)
	warnings, err := s.PutWidgets(context.Background(), 1, 7, raw)
	require.NoError(t, err)
	require.Len(t, warnings, 1)

	require.Len(t, store.updates, 1)
	var persisted []map[string]any
	require.NoError(t, json.Unmarshal(store.updates[0], &persisted))
	require.Len(t, persisted, 2)
	assert.Equal(t, "text", persisted[0]["type"])
	assert.Equal(t, "unknown-x", persisted[1]["type"])
	cfg := persisted[0]["config"].(map[string]any)
	assert.Equal(t, "markdown", cfg["format"])

	assert.Equal(t, []string{"article.widgets_updated"}, pub.events)
}

func TestPutWidgetsNotFound(t *testing.T) {
	s := newContentService(&fakeArticleStore{}, &fakePublisher{})

	_, err := s.PutWidgets(context.Background(), 1, 99, []byte(`[]`))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIncrementCounters(t *testing.T) {
	store := &fakeArticleStore{article: testArticle()}
	s := newContentService(store, &fakePublisher{})
	ctx := context.Background()

	views, err := s.IncrementViews(ctx, 1, "hello-world")
	require.NoError(t, err)
	assert.Equal(t, 4, views)

	likes, err := s.IncrementLikes(ctx, 1, "hello-world")
	require.NoError(t, err)
	assert.Equal(t, 2, likes)

	_, err = s.IncrementViews(ctx, 2, "hello-world")
	assert.ErrorIs(t, err, ErrNotFound)
}
