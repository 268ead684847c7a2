package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/wellness-booking-api/internal/dto"
	"github.com/noah-isme/wellness-booking-api/internal/models"
	appErrors "github.com/noah-isme/wellness-booking-api/pkg/errors"
)

type availabilityStore interface {
	ListSessionTemplates(ctx context.Context) ([]models.SessionTemplate, error)
	ListWeeklyRules(ctx context.Context) ([]models.WeeklyRuleRow, error)
	ListExceptions(ctx context.Context) ([]models.ExceptionRow, error)
	ListBlockedDates(ctx context.Context) ([]models.BlockedDateRow, error)
	ListTeamMembers(ctx context.Context, roles []string) ([]models.Profile, error)
}

// Store table names used for logging and metrics labels.
const (
	tableSessionTemplates = "session_templates"
	tableWeeklyRules      = "availability_rules"
	tableExceptions       = "availability_exceptions"
	tableBlockedDates     = "blocked_dates"
	tableProfiles         = "profiles"
)

// MonthCacheKey returns the cache key of a resolved month.
func MonthCacheKey(year int, month time.Month) string {
	return fmt.Sprintf("calendar:month:%04d-%02d", year, int(month))
}

// CalendarServiceConfig tunes month resolution.
type CalendarServiceConfig struct {
	TeamRoles []string
	CacheTTL  time.Duration
}

// CalendarService resolves month calendars from the availability store.
type CalendarService struct {
	store     availabilityStore
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       CalendarServiceConfig
}

// CalendarServiceParams groups constructor dependencies.
type CalendarServiceParams struct {
	Store     availabilityStore
	Cache     *CacheService
	Metrics   *MetricsService
	Validator *validator.Validate
	Logger    *zap.Logger
	Config    CalendarServiceConfig
}

// NewCalendarService constructs the service.
func NewCalendarService(params CalendarServiceParams) *CalendarService {
	cfg := params.Config
	if len(cfg.TeamRoles) == 0 {
		for _, role := range models.DefaultTeamRoles {
			cfg.TeamRoles = append(cfg.TeamRoles, string(role))
		}
	}
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{
		store:     params.Store,
		cache:     params.Cache,
		metrics:   params.Metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// GetMonthCalendar resolves every live slot of the month plus the team directory.
// The boolean reports whether the result was served from cache.
func (s *CalendarService) GetMonthCalendar(ctx context.Context, req dto.MonthCalendarRequest) (*dto.MonthCalendarResponse, bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "year must be 1970-9999 and month 1-12")
	}
	month := time.Month(req.Month)
	key := MonthCacheKey(req.Year, month)

	var cached dto.MonthCalendarResponse
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	snapshot, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, false, err
	}

	start := time.Now()
	slots := EmitSlots(ResolveMonth(req.Year, month, *snapshot))
	s.metrics.ObserveResolution(slots, time.Since(start))

	result := &dto.MonthCalendarResponse{
		Slots:       slots,
		TeamMembers: teamDirectory(snapshot.TeamMembers),
	}
	if result.Slots == nil {
		result.Slots = []models.ResolvedSlot{}
	}
	s.cache.Set(ctx, key, result, s.cfg.CacheTTL)
	return result, false, nil
}

// MonthWithCatalog resolves the month straight from the store, returning the snapshot as well
// so callers can join template and instructor names.
func (s *CalendarService) MonthWithCatalog(ctx context.Context, req dto.MonthCalendarRequest) ([]models.ResolvedSlot, *models.AvailabilitySnapshot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "year must be 1970-9999 and month 1-12")
	}
	snapshot, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	return EmitSlots(ResolveMonth(req.Year, time.Month(req.Month), *snapshot)), snapshot, nil
}

// loadSnapshot runs every store read concurrently. Any failure aborts the whole load.
func (s *CalendarService) loadSnapshot(ctx context.Context) (*models.AvailabilitySnapshot, error) {
	var (
		templates  []models.SessionTemplate
		weeklyRows []models.WeeklyRuleRow
		excRows    []models.ExceptionRow
		blockRows  []models.BlockedDateRow
		profiles   []models.Profile
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		templates, err = timedRead(s, tableSessionTemplates, func() ([]models.SessionTemplate, error) { return s.store.ListSessionTemplates(gctx) })
		return err
	})
	g.Go(func() (err error) {
		weeklyRows, err = timedRead(s, tableWeeklyRules, func() ([]models.WeeklyRuleRow, error) { return s.store.ListWeeklyRules(gctx) })
		return err
	})
	g.Go(func() (err error) {
		excRows, err = timedRead(s, tableExceptions, func() ([]models.ExceptionRow, error) { return s.store.ListExceptions(gctx) })
		return err
	})
	g.Go(func() (err error) {
		blockRows, err = timedRead(s, tableBlockedDates, func() ([]models.BlockedDateRow, error) { return s.store.ListBlockedDates(gctx) })
		return err
	})
	g.Go(func() (err error) {
		profiles, err = timedRead(s, tableProfiles, func() ([]models.Profile, error) { return s.store.ListTeamMembers(gctx, s.cfg.TeamRoles) })
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("availability store read failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, appErrors.ErrStoreUnavailable.Message)
	}

	snapshot := &models.AvailabilitySnapshot{Templates: templates, TeamMembers: profiles}
	for _, row := range weeklyRows {
		rule, err := row.Parse()
		if err != nil {
			s.skipRow(tableWeeklyRules, row.ID, err)
			continue
		}
		snapshot.Weekly = append(snapshot.Weekly, rule)
	}
	for _, row := range excRows {
		exc, err := row.Parse()
		if err != nil {
			s.skipRow(tableExceptions, row.ID, err)
			continue
		}
		snapshot.Exceptions = append(snapshot.Exceptions, exc)
	}
	for _, row := range blockRows {
		blocked, err := row.Parse()
		if err != nil {
			s.skipRow(tableBlockedDates, row.ID, err)
			continue
		}
		snapshot.Blocked = append(snapshot.Blocked, blocked)
	}
	return snapshot, nil
}

func (s *CalendarService) skipRow(table, id string, err error) {
	s.logger.Warn("skipping malformed availability row",
		zap.String("table", table),
		zap.String("row_id", id),
		zap.Error(err),
	)
	s.metrics.RecordSkippedRow(table)
}

func timedRead[T any](s *CalendarService, table string, read func() ([]T, error)) ([]T, error) {
	start := time.Now()
	rows, err := read()
	s.metrics.ObserveStoreRead(table, err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", table, err)
	}
	return rows, nil
}

func teamDirectory(profiles []models.Profile) []dto.TeamMember {
	members := make([]dto.TeamMember, 0, len(profiles))
	for _, p := range profiles {
		members = append(members, dto.TeamMember{ID: p.ID, Name: p.DisplayName(), AvatarURL: p.AvatarURL})
	}
	return members
}
