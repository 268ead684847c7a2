package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/wellness-booking-api/internal/dto"
	"github.com/noah-isme/wellness-booking-api/internal/models"
	appErrors "github.com/noah-isme/wellness-booking-api/pkg/errors"
	"github.com/noah-isme/wellness-booking-api/pkg/signing"
)

type feedTokenSigner interface {
	Generate(instructorID string) (string, time.Time, error)
	Parse(token string) (string, error)
}

// CalendarFeedConfig tunes subscription feeds.
type CalendarFeedConfig struct {
	APIPrefix string
	// Months is the number of calendar months a feed covers, starting with the current one.
	Months int
}

// CalendarFeedService issues signed subscription links and renders the iCalendar feed behind them.
type CalendarFeedService struct {
	calendar monthCatalog
	exporter *ExportService
	signer   feedTokenSigner
	logger   *zap.Logger
	cfg      CalendarFeedConfig
	now      func() time.Time
}

// NewCalendarFeedService constructs the service.
func NewCalendarFeedService(calendar monthCatalog, exporter *ExportService, signer feedTokenSigner, cfg CalendarFeedConfig, logger *zap.Logger) *CalendarFeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Months <= 0 {
		cfg.Months = 2
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/v1"
	}
	return &CalendarFeedService{calendar: calendar, exporter: exporter, signer: signer, logger: logger, cfg: cfg, now: time.Now}
}

// IssueToken creates a feed link. Admins may scope it to anyone or everyone; other team
// members only to themselves.
func (s *CalendarFeedService) IssueToken(claims *models.JWTClaims, req dto.CalendarFeedRequest) (*dto.CalendarFeedResponse, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	scope := strings.TrimSpace(req.InstructorID)
	if claims.Role != models.RoleAdmin {
		if scope != "" && scope != claims.UserID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "feeds can only be issued for your own schedule")
		}
		scope = claims.UserID
	}
	if scope == "" {
		scope = signing.FeedScopeAll
	}
	token, expiresAt, err := s.signer.Generate(scope)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue feed token")
	}
	return &dto.CalendarFeedResponse{
		Token:     token,
		Path:      fmt.Sprintf("%s/calendar/feed/%s", strings.TrimRight(s.cfg.APIPrefix, "/"), token),
		ExpiresAt: expiresAt.Format(time.RFC3339),
	}, nil
}

// Render verifies the token and returns the feed covering the configured months.
func (s *CalendarFeedService) Render(ctx context.Context, token string) (*ExportResult, error) {
	scope, err := s.signer.Parse(token)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid feed token")
	}

	first := s.now().In(s.exporter.cfg.Location)
	first = time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, time.UTC)

	var (
		slots []models.ResolvedSlot
		names catalogNames
	)
	for i := 0; i < s.cfg.Months; i++ {
		month := first.AddDate(0, i, 0)
		monthSlots, snapshot, err := s.calendar.MonthWithCatalog(ctx, dto.MonthCalendarRequest{Year: month.Year(), Month: int(month.Month())})
		if err != nil {
			return nil, err
		}
		if i == 0 {
			names = newCatalogNames(snapshot)
		}
		for _, slot := range monthSlots {
			if scope == signing.FeedScopeAll || slot.InstructorID == scope {
				slots = append(slots, slot)
			}
		}
	}

	name := "Availability"
	if scope != signing.FeedScopeAll {
		name = "Availability - " + names.instructor(scope)
	}
	payload, err := s.exporter.renderICS(name, slots, names)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render feed")
	}
	s.logger.Debug("calendar feed rendered", zap.String("scope", scope), zap.Int("slots", len(slots)))
	return &ExportResult{Filename: "availability.ics", ContentType: "text/calendar", Payload: payload}, nil
}
