package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/wellness-booking-api/internal/models"
)

func TestExceptionRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newAvailabilityMock(t)
	defer cleanup()
	repo := NewExceptionRepository(db)

	instructor := "inst-1"
	start, end := "09:00:00", "10:00:00"
	available := true
	date := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO availability_exceptions").
		WithArgs(sqlmock.AnyArg(), instructor, date, start, end, nil, available, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	row := &models.ExceptionRow{
		InstructorID: &instructor,
		Date:         &date,
		StartTime:    &start,
		EndTime:      &end,
		IsAvailable:  &available,
	}
	require.NoError(t, repo.Create(context.Background(), row))
	assert.NotEmpty(t, row.ID)
	assert.False(t, row.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExceptionRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newAvailabilityMock(t)
	defer cleanup()
	repo := NewExceptionRepository(db)

	date := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM availability_exceptions WHERE id = $1 RETURNING date")).
		WithArgs("exc-1").
		WillReturnRows(sqlmock.NewRows([]string{"date"}).AddRow(date))

	got, err := repo.Delete(context.Background(), "exc-1")
	require.NoError(t, err)
	assert.True(t, date.Equal(got))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExceptionRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newAvailabilityMock(t)
	defer cleanup()
	repo := NewExceptionRepository(db)

	mock.ExpectQuery("DELETE FROM availability_exceptions").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"date"}))

	_, err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlockedDateRepositoryCreateReturnsStoredID(t *testing.T) {
	db, mock, cleanup := newAvailabilityMock(t)
	defer cleanup()
	repo := NewBlockedDateRepository(db)

	instructor := "inst-1"
	date := time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)
	created := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO blocked_dates").
		WithArgs(sqlmock.AnyArg(), &instructor, &date, nil, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("blocked-existing", created))

	row := &models.BlockedDateRow{InstructorID: &instructor, Date: &date}
	require.NoError(t, repo.Create(context.Background(), row))
	assert.Equal(t, "blocked-existing", row.ID)
	assert.Equal(t, created, row.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
