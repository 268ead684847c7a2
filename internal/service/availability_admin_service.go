package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/wellness-booking-api/internal/dto"
	"github.com/noah-isme/wellness-booking-api/internal/models"
	appErrors "github.com/noah-isme/wellness-booking-api/pkg/errors"
	"github.com/noah-isme/wellness-booking-api/pkg/jobs"
)

// JobTypeInvalidateMonth asks the worker to drop cached results for one month.
const JobTypeInvalidateMonth = "calendar.invalidate_month"

type exceptionWriter interface {
	Create(ctx context.Context, row *models.ExceptionRow) error
	Delete(ctx context.Context, id string) (time.Time, error)
}

type blockedDateWriter interface {
	Create(ctx context.Context, row *models.BlockedDateRow) error
	Delete(ctx context.Context, id string) (time.Time, error)
}

type jobEnqueuer interface {
	TryEnqueue(job jobs.Job) error
}

// AvailabilityAdminService manages exceptions and blocked dates.
type AvailabilityAdminService struct {
	exceptions exceptionWriter
	blocked    blockedDateWriter
	queue      jobEnqueuer
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewAvailabilityAdminService constructs the service. queue may be nil when caching is off.
func NewAvailabilityAdminService(exceptions exceptionWriter, blocked blockedDateWriter, queue jobEnqueuer, validate *validator.Validate, logger *zap.Logger) *AvailabilityAdminService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &AvailabilityAdminService{exceptions: exceptions, blocked: blocked, queue: queue, validator: validate, logger: logger}
	svc.validator.RegisterValidation("clocktime", func(fl validator.FieldLevel) bool {
		_, err := models.ParseClockTime(fl.Field().String())
		return err == nil
	})
	return svc
}

// CreateException stores a one-off addition or a slot block.
func (s *AvailabilityAdminService) CreateException(ctx context.Context, req dto.CreateExceptionRequest) (*dto.ExceptionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	start, err := models.ParseClockTime(req.StartTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_time must be HH:MM or HH:MM:SS")
	}
	end, err := models.ParseClockTime(req.EndTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_time must be HH:MM or HH:MM:SS")
	}
	if end <= start {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
	}
	date, _ := time.Parse(models.DateLayout, req.Date)

	instructorID := strings.TrimSpace(req.InstructorID)
	startRaw, endRaw := start.String(), end.String()
	templateID := req.SessionTemplateID
	if templateID != nil && strings.TrimSpace(*templateID) == "" {
		templateID = nil
	}
	row := &models.ExceptionRow{
		ID:                uuid.NewString(),
		InstructorID:      &instructorID,
		Date:              &date,
		StartTime:         &startRaw,
		EndTime:           &endRaw,
		SessionTemplateID: templateID,
		IsAvailable:       req.IsAvailable,
	}
	if err := s.exceptions.Create(ctx, row); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create availability exception")
	}
	s.invalidateMonth(date)

	return &dto.ExceptionResponse{
		ID:                row.ID,
		InstructorID:      instructorID,
		SessionTemplateID: templateID,
		Date:              req.Date,
		StartTime:         startRaw,
		EndTime:           endRaw,
		IsAvailable:       *req.IsAvailable,
	}, nil
}

// DeleteException removes an exception by id.
func (s *AvailabilityAdminService) DeleteException(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "id is required")
	}
	date, err := s.exceptions.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "availability exception not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete availability exception")
	}
	s.invalidateMonth(date)
	return nil
}

// CreateBlockedDate blocks an instructor for a whole day.
func (s *AvailabilityAdminService) CreateBlockedDate(ctx context.Context, req dto.CreateBlockedDateRequest) (*dto.BlockedDateResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	date, _ := time.Parse(models.DateLayout, req.Date)
	instructorID := strings.TrimSpace(req.InstructorID)
	row := &models.BlockedDateRow{
		ID:           uuid.NewString(),
		InstructorID: &instructorID,
		Date:         &date,
		Reason:       req.Reason,
	}
	if err := s.blocked.Create(ctx, row); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create blocked date")
	}
	s.invalidateMonth(date)

	return &dto.BlockedDateResponse{
		ID:           row.ID,
		InstructorID: instructorID,
		Date:         req.Date,
		Reason:       req.Reason,
	}, nil
}

// DeleteBlockedDate removes a blocked date by id.
func (s *AvailabilityAdminService) DeleteBlockedDate(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "id is required")
	}
	date, err := s.blocked.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "blocked date not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete blocked date")
	}
	s.invalidateMonth(date)
	return nil
}

func (s *AvailabilityAdminService) invalidateMonth(date time.Time) {
	if s.queue == nil {
		return
	}
	job := jobs.Job{
		ID:   uuid.NewString(),
		Type: JobTypeInvalidateMonth,
		Key:  MonthCacheKey(date.Year(), date.Month()),
	}
	if err := s.queue.TryEnqueue(job); err != nil {
		s.logger.Warn("failed to enqueue calendar invalidation", zap.String("key", job.Key), zap.Error(err))
	}
}

// NewInvalidationHandler returns the queue handler that evicts cached months.
func NewInvalidationHandler(cache *CacheService) jobs.Handler {
	return func(ctx context.Context, job jobs.Job) error {
		if job.Type != JobTypeInvalidateMonth {
			return fmt.Errorf("unsupported job type %q", job.Type)
		}
		return cache.Invalidate(ctx, job.Key+"*")
	}
}
