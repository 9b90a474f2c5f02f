package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidyastream/backend/internal/models"
)

const adColumns = `id, placement, image_url, link_url, title, description, active, weight, click_count, created_at`

type AdRepo struct {
	pool *pgxpool.Pool
}

func NewAdRepo(pool *pgxpool.Pool) *AdRepo {
	return &AdRepo{pool: pool}
}

// ListActiveByPlacement returns the selection candidates for a placement slot.
func (r *AdRepo) ListActiveByPlacement(ctx context.Context, placement string) ([]*models.Ad, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+adColumns+` FROM ads WHERE placement = $1 AND active ORDER BY created_at
	`, placement)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAds(rows)
}

// ListAll returns every ad, active or not, for the admin dashboard.
func (r *AdRepo) ListAll(ctx context.Context) ([]*models.Ad, error) {
	rows, err := r.pool.Query(ctx, `SELECT ` + adColumns + ` FROM ads ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAds(rows)
}

func (r *AdRepo) Create(ctx context.Context, a *models.Ad) error {
	if !models.ValidPlacement(a.Placement) {
		return fmt.Errorf("%w: unknown placement %q", models.ErrValidation, a.Placement)
	}
	if a.Weight <= 0 {
		return fmt.Errorf("%w: weight must be > 0, got %d", models.ErrValidation, a.Weight)
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO ads (id, placement, image_url, link_url, title, description, active, weight)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING click_count, created_at
	`, a.ID, a.Placement, a.ImageURL, a.LinkURL, a.Title, a.Description, a.Active, a.Weight).Scan(&a.ClickCount, &a.CreatedAt)
}

// IncrementClick bumps the ad's click counter by exactly one. The counter
// never decreases; an unknown id is a not-found error, not a silent no-op.
func (r *AdRepo) IncrementClick(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `UPDATE ads SET click_count = click_count + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: ad %s", models.ErrNotFound, id)
	}
	return nil
}

func scanAds(rows pgx.Rows) ([]*models.Ad, error) {
	var list []*models.Ad
	for rows.Next() {
		var a models.Ad
		if err := rows.Scan(&a.ID, &a.Placement, &a.ImageURL, &a.LinkURL, &a.Title, &a.Description,
			&a.Active, &a.Weight, &a.ClickCount, &a.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
