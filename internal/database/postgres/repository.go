package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/shortlink/internal/database"
	"github.com/vadimbarashkov/shortlink/internal/models"
)

type linkRecord struct {
	ID          int64     `db:"id"`
	Code        string    `db:"code"`
	OriginalURL string    `db:"original_url"`
	AccessCount int64     `db:"access_count"`
	CreatedAt   time.Time `db:"created_at"`
	ExpiresAt   time.Time `db:"expires_at"`
}

func (r *linkRecord) toLink() *models.Link {
	return &models.Link{
		ID:          r.ID,
		Code:        r.Code,
		OriginalURL: r.OriginalURL,
		AccessCount: r.AccessCount,
		CreatedAt:   r.CreatedAt,
		ExpiresAt:   r.ExpiresAt,
	}
}

type accessLogRecord struct {
	ID         int64     `db:"id"`
	Code       string    `db:"code"`
	Origin     string    `db:"origin"`
	AccessedAt time.Time `db:"accessed_at"`
}

func (r *accessLogRecord) toEntry() models.AccessLogEntry {
	return models.AccessLogEntry{
		ID:         r.ID,
		Code:       r.Code,
		Origin:     r.Origin,
		AccessedAt: r.AccessedAt,
	}
}

type LinkRepository struct {
	db *sqlx.DB
}

func NewLinkRepository(db *sqlx.DB) *LinkRepository {
	return &LinkRepository{
		db: db,
	}
}

func (r *LinkRepository) Insert(ctx context.Context, link *models.Link) (*models.Link, error) {
	const op = "database.postgres.LinkRepository.Insert"

	rec := new(linkRecord)
	query := `INSERT INTO links(code, original_url, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING *`

	err := r.db.GetContext(ctx, rec, query, link.Code, link.OriginalURL, link.CreatedAt, link.ExpiresAt)
	if err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrCodeExists)
		}

		return nil, fmt.Errorf("%s: failed to insert link record: %w", op, err)
	}

	return rec.toLink(), nil
}

func (r *LinkRepository) GetByCode(ctx context.Context, code string) (*models.Link, error) {
	const op = "database.postgres.LinkRepository.GetByCode"

	rec := new(linkRecord)
	query := `SELECT * FROM links WHERE code = $1`

	err := r.db.GetContext(ctx, rec, query, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, database.ErrLinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get link record: %w", op, err)
	}

	return rec.toLink(), nil
}

// IncrementAccessCount bumps the access counter by exactly one in a single
// UPDATE, so concurrent resolutions of the same code never lose updates.
func (r *LinkRepository) IncrementAccessCount(ctx context.Context, code string) (*models.Link, error) {
	const op = "database.postgres.LinkRepository.IncrementAccessCount"

	rec := new(linkRecord)
	query := `UPDATE links
		SET access_count = access_count + 1
		WHERE code = $1
		RETURNING *`

	err := r.db.GetContext(ctx, rec, query, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, database.ErrLinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to increment access count: %w", op, err)
	}

	return rec.toLink(), nil
}

func (r *LinkRepository) AppendLog(ctx context.Context, entry *models.AccessLogEntry) error {
	const op = "database.postgres.LinkRepository.AppendLog"

	query := `INSERT INTO access_logs(code, origin, accessed_at)
		VALUES ($1, $2, $3)`

	_, err := r.db.ExecContext(ctx, query, entry.Code, entry.Origin, entry.AccessedAt)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", op, database.ErrLogUnavailable, err)
	}

	return nil
}

func (r *LinkRepository) ListLogs(ctx context.Context, code string) ([]models.AccessLogEntry, error) {
	const op = "database.postgres.LinkRepository.ListLogs"

	var recs []accessLogRecord
	query := `SELECT * FROM access_logs WHERE code = $1 ORDER BY id`

	if err := r.db.SelectContext(ctx, &recs, query, code); err != nil {
		return nil, fmt.Errorf("%s: failed to list access log records: %w", op, err)
	}

	entries := make([]models.AccessLogEntry, 0, len(recs))
	for _, rec := range recs {
		entries = append(entries, rec.toEntry())
	}

	return entries, nil
}
