package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"pressroom/internal/model"
)

type ArticleRepository struct {
	db *pgxpool.Pool
}

func NewArticleRepository(db *pgxpool.Pool) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// FindBySlug returns one article of a site. Slug uniqueness is per site,
// not global. Returns pgx.ErrNoRows when there is no match.
func (r *ArticleRepository) FindBySlug(ctx context.Context, siteID int, slug string) (*model.Article, error) {
	query := `
        SELECT id, site_id, slug, title, author_name, author_image,
               widgets, tracking_config, display_views, display_likes, updated_at
        FROM articles
        WHERE site_id = $1 AND slug = $2
    `
	var a model.Article
	var tracking []byte
	err := r.db.QueryRow(ctx, query, siteID, slug).Scan(
		&a.ID,
		&a.SiteID,
		&a.Slug,
		&a.Title,
		&a.AuthorName,
		&a.AuthorImage,
		&a.Widgets,
		&tracking,
		&a.DisplayViews,
		&a.DisplayLikes,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(tracking) > 0 {
		if err := json.Unmarshal(tracking, &a.TrackingConfig); err != nil {
			return nil, fmt.Errorf("failed to decode tracking config: %w", err)
		}
	}
	return &a, nil
}

// UpdateWidgets replaces the widget collection of one article in a single
// row update and returns the article slug. Returns pgx.ErrNoRows when the
// article does not belong to the site.
func (r *ArticleRepository) UpdateWidgets(ctx context.Context, siteID, articleID int, widgets []byte) (string, error) {
	query := `
        UPDATE articles
        SET widgets = $1, updated_at = NOW()
        WHERE id = $2 AND site_id = $3
        RETURNING slug
    `
	var slug string
	err := r.db.QueryRow(ctx, query, widgets, articleID, siteID).Scan(&slug)
	return slug, err
}

// IncrementViews bumps the display view counter and returns the new value.
func (r *ArticleRepository) IncrementViews(ctx context.Context, siteID int, slug string) (int, error) {
	query := `
        UPDATE articles
        SET display_views = display_views + 1
        WHERE site_id = $1 AND slug = $2
        RETURNING display_views
    `
	var views int
	err := r.db.QueryRow(ctx, query, siteID, slug).Scan(&views)
	return views, err
}

// IncrementLikes bumps the display like counter and returns the new value.
func (r *ArticleRepository) IncrementLikes(ctx context.Context, siteID int, slug string) (int, error) {
	query := `
        UPDATE articles
        SET display_likes = display_likes + 1
        WHERE site_id = $1 AND slug = $2
        RETURNING display_likes
    `
	var likes int
	err := r.db.QueryRow(ctx, query, siteID, slug).Scan(&likes)
	return likes, err
}
