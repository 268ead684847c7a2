package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/wellness-booking-api/internal/models"
)

// BlockedDateRepository persists full-day instructor blocks.
type BlockedDateRepository struct {
	db *sqlx.DB
}

// NewBlockedDateRepository constructs the repository.
func NewBlockedDateRepository(db *sqlx.DB) *BlockedDateRepository {
	return &BlockedDateRepository{db: db}
}

// Create inserts a blocked date. Blocking an already blocked day updates the reason and
// returns the existing id.
func (r *BlockedDateRepository) Create(ctx context.Context, row *models.BlockedDateRow) error {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO blocked_dates (id, instructor_id, date, reason, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (instructor_id, date) DO UPDATE SET reason = EXCLUDED.reason
RETURNING id, created_at`
	err := r.db.QueryRowxContext(ctx, query, row.ID, row.InstructorID, row.Date, row.Reason, row.CreatedAt).
		Scan(&row.ID, &row.CreatedAt)
	if err != nil {
		return fmt.Errorf("create blocked date: %w", err)
	}
	return nil
}

// Delete removes a blocked date and returns its date. sql.ErrNoRows is returned unwrapped.
func (r *BlockedDateRepository) Delete(ctx context.Context, id string) (time.Time, error) {
	var date time.Time
	if err := r.db.GetContext(ctx, &date, "DELETE FROM blocked_dates WHERE id = $1 RETURNING date", id); err != nil {
		return time.Time{}, err
	}
	return date, nil
}
