package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/wellness-booking-api/internal/models"
)

// AvailabilityRepository reads the record sets the month resolver merges. Reads are full
// scans; date filtering happens in the resolver.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository constructs the repository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// ListSessionTemplates returns every bookable service definition.
func (r *AvailabilityRepository) ListSessionTemplates(ctx context.Context) ([]models.SessionTemplate, error) {
	const query = `SELECT id, name, duration_minutes, price, currency, category FROM session_templates ORDER BY name ASC`
	var templates []models.SessionTemplate
	if err := r.db.SelectContext(ctx, &templates, query); err != nil {
		return nil, fmt.Errorf("list session templates: %w", err)
	}
	return templates, nil
}

// ListWeeklyRules returns every recurring availability rule.
func (r *AvailabilityRepository) ListWeeklyRules(ctx context.Context) ([]models.WeeklyRuleRow, error) {
	const query = `SELECT id, instructor_id, weekday, start_time, end_time, session_template_id, location_id FROM availability_rules`
	var rows []models.WeeklyRuleRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list weekly rules: %w", err)
	}
	return rows, nil
}

// ListExceptions returns every date-specific exception.
func (r *AvailabilityRepository) ListExceptions(ctx context.Context) ([]models.ExceptionRow, error) {
	const query = `SELECT id, instructor_id, date, start_time, end_time, session_template_id, is_available FROM availability_exceptions`
	var rows []models.ExceptionRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list availability exceptions: %w", err)
	}
	return rows, nil
}

// ListBlockedDates returns every full-day block.
func (r *AvailabilityRepository) ListBlockedDates(ctx context.Context) ([]models.BlockedDateRow, error) {
	const query = `SELECT id, instructor_id, date FROM blocked_dates`
	var rows []models.BlockedDateRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list blocked dates: %w", err)
	}
	return rows, nil
}

// ListTeamMembers returns profiles whose role is one of roles.
func (r *AvailabilityRepository) ListTeamMembers(ctx context.Context, roles []string) ([]models.Profile, error) {
	const query = `SELECT id, full_name, avatar_url, role FROM profiles WHERE role = ANY($1) ORDER BY full_name ASC NULLS LAST`
	var profiles []models.Profile
	if err := r.db.SelectContext(ctx, &profiles, query, pq.Array(roles)); err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	return profiles, nil
}
