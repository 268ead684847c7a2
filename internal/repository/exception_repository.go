package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/wellness-booking-api/internal/models"
)

// ExceptionRepository persists availability exceptions.
type ExceptionRepository struct {
	db *sqlx.DB
}

// NewExceptionRepository constructs the repository.
func NewExceptionRepository(db *sqlx.DB) *ExceptionRepository {
	return &ExceptionRepository{db: db}
}

// Create inserts an exception, assigning id and created_at when empty.
func (r *ExceptionRepository) Create(ctx context.Context, row *models.ExceptionRow) error {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO availability_exceptions (id, instructor_id, date, start_time, end_time, session_template_id, is_available, created_at)
VALUES (:id, :instructor_id, :date, :start_time, :end_time, :session_template_id, :is_available, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("create availability exception: %w", err)
	}
	return nil
}

// Delete removes an exception and returns the date it applied to.
// sql.ErrNoRows is returned unwrapped when the id does not exist.
func (r *ExceptionRepository) Delete(ctx context.Context, id string) (time.Time, error) {
	var date time.Time
	if err := r.db.GetContext(ctx, &date, "DELETE FROM availability_exceptions WHERE id = $1 RETURNING date", id); err != nil {
		return time.Time{}, err
	}
	return date, nil
}
