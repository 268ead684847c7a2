package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/wellness-booking-api/internal/dto"
	"github.com/noah-isme/wellness-booking-api/internal/models"
	appErrors "github.com/noah-isme/wellness-booking-api/pkg/errors"
	"github.com/noah-isme/wellness-booking-api/pkg/jobs"
)

type stubExceptionWriter struct {
	created   []*models.ExceptionRow
	createErr error
	deleted   map[string]time.Time
}

func (s *stubExceptionWriter) Create(_ context.Context, row *models.ExceptionRow) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, row)
	return nil
}

func (s *stubExceptionWriter) Delete(_ context.Context, id string) (time.Time, error) {
	date, ok := s.deleted[id]
	if !ok {
		return time.Time{}, sql.ErrNoRows
	}
	return date, nil
}

type stubBlockedWriter struct {
	created []*models.BlockedDateRow
	deleted map[string]time.Time
}

func (s *stubBlockedWriter) Create(_ context.Context, row *models.BlockedDateRow) error {
	s.created = append(s.created, row)
	return nil
}

func (s *stubBlockedWriter) Delete(_ context.Context, id string) (time.Time, error) {
	date, ok := s.deleted[id]
	if !ok {
		return time.Time{}, sql.ErrNoRows
	}
	return date, nil
}

type stubEnqueuer struct {
	jobs []jobs.Job
	err  error
}

func (s *stubEnqueuer) TryEnqueue(job jobs.Job) error {
	if s.err != nil {
		return s.err
	}
	s.jobs = append(s.jobs, job)
	return nil
}

func requireAppError(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr), "expected app error, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func TestAvailabilityAdminServiceCreateException(t *testing.T) {
	writer := &stubExceptionWriter{}
	queue := &stubEnqueuer{}
	svc := NewAvailabilityAdminService(writer, &stubBlockedWriter{}, queue, nil, zap.NewNop())

	resp, err := svc.CreateException(context.Background(), dto.CreateExceptionRequest{
		InstructorID:      "x",
		SessionTemplateID: strp(""),
		Date:              "2025-02-10",
		StartTime:         "09:00",
		EndTime:           "10:00",
		IsAvailable:       boolp(false),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "09:00:00", resp.StartTime)
	assert.Equal(t, "10:00:00", resp.EndTime)
	assert.False(t, resp.IsAvailable)
	assert.Nil(t, resp.SessionTemplateID)

	require.Len(t, writer.created, 1)
	row := writer.created[0]
	assert.Equal(t, resp.ID, row.ID)
	assert.Equal(t, "2025-02-10", row.Date.Format(models.DateLayout))
	parsed, err := row.Parse()
	require.NoError(t, err)
	assert.Equal(t, models.ExceptionBlock, parsed.Kind)

	require.Len(t, queue.jobs, 1)
	assert.Equal(t, JobTypeInvalidateMonth, queue.jobs[0].Type)
	assert.Equal(t, "calendar:month:2025-02", queue.jobs[0].Key)
}

func TestAvailabilityAdminServiceCreateExceptionValidation(t *testing.T) {
	svc := NewAvailabilityAdminService(&stubExceptionWriter{}, &stubBlockedWriter{}, nil, nil, nil)
	base := dto.CreateExceptionRequest{InstructorID: "x", Date: "2025-02-10", StartTime: "09:00", EndTime: "10:00", IsAvailable: boolp(true)}

	cases := map[string]func(r *dto.CreateExceptionRequest){
		"missing instructor": func(r *dto.CreateExceptionRequest) { r.InstructorID = "" },
		"bad date":           func(r *dto.CreateExceptionRequest) { r.Date = "2025-02-30" },
		"bad start":          func(r *dto.CreateExceptionRequest) { r.StartTime = "9am" },
		"end before start":   func(r *dto.CreateExceptionRequest) { r.EndTime = "08:30" },
		"missing flag":       func(r *dto.CreateExceptionRequest) { r.IsAvailable = nil },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := base
			mutate(&req)
			_, err := svc.CreateException(context.Background(), req)
			requireAppError(t, err, appErrors.ErrValidation.Code)
		})
	}
}

func TestAvailabilityAdminServiceCreateExceptionStoreError(t *testing.T) {
	svc := NewAvailabilityAdminService(&stubExceptionWriter{createErr: errors.New("db down")}, &stubBlockedWriter{}, nil, nil, nil)

	_, err := svc.CreateException(context.Background(), dto.CreateExceptionRequest{
		InstructorID: "x", Date: "2025-02-10", StartTime: "09:00", EndTime: "10:00", IsAvailable: boolp(true),
	})
	requireAppError(t, err, appErrors.ErrInternal.Code)
}

func TestAvailabilityAdminServiceDeleteException(t *testing.T) {
	writer := &stubExceptionWriter{deleted: map[string]time.Time{"e1": time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)}}
	queue := &stubEnqueuer{}
	svc := NewAvailabilityAdminService(writer, &stubBlockedWriter{}, queue, nil, nil)

	require.NoError(t, svc.DeleteException(context.Background(), "e1"))
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, "calendar:month:2025-03", queue.jobs[0].Key)

	requireAppError(t, svc.DeleteException(context.Background(), "missing"), appErrors.ErrNotFound.Code)
	requireAppError(t, svc.DeleteException(context.Background(), " "), appErrors.ErrValidation.Code)
}

func TestAvailabilityAdminServiceBlockedDates(t *testing.T) {
	blocked := &stubBlockedWriter{deleted: map[string]time.Time{"b1": time.Date(2025, 2, 17, 0, 0, 0, 0, time.UTC)}}
	queue := &stubEnqueuer{err: jobs.ErrQueueFull}
	svc := NewAvailabilityAdminService(&stubExceptionWriter{}, blocked, queue, nil, nil)

	resp, err := svc.CreateBlockedDate(context.Background(), dto.CreateBlockedDateRequest{InstructorID: "x", Date: "2025-02-17", Reason: strp("retreat")})
	require.NoError(t, err, "a full queue does not fail the mutation")
	assert.Equal(t, "2025-02-17", resp.Date)
	assert.Equal(t, "retreat", *resp.Reason)
	require.Len(t, blocked.created, 1)

	_, err = svc.CreateBlockedDate(context.Background(), dto.CreateBlockedDateRequest{InstructorID: "x", Date: "17/02/2025"})
	requireAppError(t, err, appErrors.ErrValidation.Code)

	require.NoError(t, svc.DeleteBlockedDate(context.Background(), "b1"))
	requireAppError(t, svc.DeleteBlockedDate(context.Background(), "nope"), appErrors.ErrNotFound.Code)
}

func TestInvalidationHandler(t *testing.T) {
	cacheRepo := &stubCacheRepo{}
	handler := NewInvalidationHandler(NewCacheService(cacheRepo, nil, time.Minute, nil, true))

	require.NoError(t, handler(context.Background(), jobs.Job{Type: JobTypeInvalidateMonth, Key: "calendar:month:2025-02"}))
	assert.Equal(t, []string{"calendar:month:2025-02*"}, cacheRepo.patterns)

	assert.Error(t, handler(context.Background(), jobs.Job{Type: "other"}))
}
