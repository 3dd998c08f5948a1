package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"pressroom/internal/model"
)

type SubscriberRepository struct {
	db *pgxpool.Pool
}

func NewSubscriberRepository(db *pgxpool.Pool) *SubscriberRepository {
	return &SubscriberRepository{db: db}
}

// Insert creates a subscriber on first subscription. A repeat subscribe is
// a no-op; the return value reports whether a row was created.
func (r *SubscriberRepository) Insert(ctx context.Context, siteID int, email string) (bool, error) {
	query := `
        INSERT INTO subscribers (site_id, email, status, created_at)
        VALUES ($1, $2, 'active', NOW())
        ON CONFLICT (site_id, email) DO NOTHING
    `
	tag, err := r.db.Exec(ctx, query, siteID, email)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// MarkUnsubscribed is a conditional update keyed on (site_id, email) and
// filtered on status, so an already-unsubscribed row is left untouched and
// keeps its original timestamp. The return value reports whether a row
// actually changed state.
func (r *SubscriberRepository) MarkUnsubscribed(ctx context.Context, siteID int, email string) (bool, error) {
	query := `
        UPDATE subscribers
        SET status = 'unsubscribed',
            unsubscribed_at = NOW()
        WHERE site_id = $1 AND email = $2 AND status = 'active'
    `
	tag, err := r.db.Exec(ctx, query, siteID, email)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Exists reports whether a subscriber row is present, regardless of status.
func (r *SubscriberRepository) Exists(ctx context.Context, siteID int, email string) (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1 FROM subscribers WHERE site_id = $1 AND email = $2
        )
    `
	var exists bool
	if err := r.db.QueryRow(ctx, query, siteID, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ListBySite returns all subscribers of a site, newest first.
func (r *SubscriberRepository) ListBySite(ctx context.Context, siteID int) ([]model.Subscriber, error) {
	query := `
        SELECT site_id, email, status, unsubscribed_at, created_at
        FROM subscribers
        WHERE site_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, siteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subscribers := []model.Subscriber{}

	for rows.Next() {
		var s model.Subscriber
		err := rows.Scan(
			&s.SiteID,
			&s.Email,
			&s.Status,
			&s.UnsubscribedAt,
			&s.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		subscribers = append(subscribers, s)
	}

	return subscribers, rows.Err()
}

// MarkActive is the reverse transition: status back to active, timestamp
// cleared. The status filter makes an already-active row a zero-row update,
// so the return value reports whether a row actually changed state.
func (r *SubscriberRepository) MarkActive(ctx context.Context, siteID int, email string) (bool, error) {
	query := `
        UPDATE subscribers
        SET status = 'active',
            unsubscribed_at = NULL
        WHERE site_id = $1 AND email = $2 AND status = 'unsubscribed'
    `
	tag, err := r.db.Exec(ctx, query, siteID, email)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
