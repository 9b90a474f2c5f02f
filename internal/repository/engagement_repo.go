package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidyastream/backend/internal/models"
)

// EngagementRepo covers the peripheral history entities: watch positions and
// completion certificates.
type EngagementRepo struct {
	pool *pgxpool.Pool
}

func NewEngagementRepo(pool *pgxpool.Pool) *EngagementRepo {
	return &EngagementRepo{pool: pool}
}

// UpsertWatchHistory inserts or refreshes the (user, content) watch position.
func (r *EngagementRepo) UpsertWatchHistory(ctx context.Context, w *models.WatchHistory) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO watch_history (id, user_id, content_id, position_seconds)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, content_id)
		DO UPDATE SET position_seconds = $4, updated_at = now()
		RETURNING id, updated_at
	`, w.ID, w.UserID, w.ContentID, w.PositionSeconds).Scan(&w.ID, &w.UpdatedAt)
}

func (r *EngagementRepo) ListWatchHistory(ctx context.Context, userID uuid.UUID) ([]*models.WatchHistory, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, content_id, position_seconds, updated_at
		FROM watch_history WHERE user_id = $1 ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.WatchHistory
	for rows.Next() {
		var w models.WatchHistory
		if err := rows.Scan(&w.ID, &w.UserID, &w.ContentID, &w.PositionSeconds, &w.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, &w)
	}
	return list, rows.Err()
}

func (r *EngagementRepo) ListCertificates(ctx context.Context, userID uuid.UUID) ([]*models.Certificate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, content_id, cert_no, issued_at, pdf_url
		FROM certificates WHERE user_id = $1 ORDER BY issued_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Certificate
	for rows.Next() {
		var c models.Certificate
		if err := rows.Scan(&c.ID, &c.UserID, &c.ContentID, &c.CertNo, &c.IssuedAt, &c.PDFURL); err != nil {
			return nil, err
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

func (r *EngagementRepo) GetCertificateByNo(ctx context.Context, certNo string) (*models.Certificate, error) {
	var c models.Certificate
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, content_id, cert_no, issued_at, pdf_url
		FROM certificates WHERE cert_no = $1
	`, certNo).Scan(&c.ID, &c.UserID, &c.ContentID, &c.CertNo, &c.IssuedAt, &c.PDFURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: certificate %s", models.ErrNotFound, certNo)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
