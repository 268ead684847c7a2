package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/wellness-booking-api/internal/dto"
	"github.com/noah-isme/wellness-booking-api/internal/middleware"
	"github.com/noah-isme/wellness-booking-api/internal/models"
	"github.com/noah-isme/wellness-booking-api/internal/service"
	appErrors "github.com/noah-isme/wellness-booking-api/pkg/errors"
	"github.com/noah-isme/wellness-booking-api/pkg/response"
)

type monthCalendarService interface {
	GetMonthCalendar(ctx context.Context, req dto.MonthCalendarRequest) (*dto.MonthCalendarResponse, bool, error)
}

type monthExportService interface {
	ExportMonth(ctx context.Context, req dto.MonthCalendarRequest, format service.ExportFormat) (*service.ExportResult, error)
}

type calendarFeedService interface {
	IssueToken(claims *models.JWTClaims, req dto.CalendarFeedRequest) (*dto.CalendarFeedResponse, error)
	Render(ctx context.Context, token string) (*service.ExportResult, error)
}

// CalendarHandler exposes month availability endpoints.
type CalendarHandler struct {
	calendar monthCalendarService
	exports  monthExportService
	feeds    calendarFeedService
}

// NewCalendarHandler constructs the handler.
func NewCalendarHandler(calendar monthCalendarService, exports monthExportService, feeds calendarFeedService) *CalendarHandler {
	return &CalendarHandler{calendar: calendar, exports: exports, feeds: feeds}
}

// Month godoc
// @Summary Month availability
// @Description Resolves every bookable slot of the month for all team members.
// @Tags Calendar
// @Produce json
// @Param year query int true "Year (1970-9999)"
// @Param month query int true "Month (1-12)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /calendar/month [get]
func (h *CalendarHandler) Month(c *gin.Context) {
	req, err := monthFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, cacheHit, err := h.calendar.GetMonthCalendar(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	middleware.SetMeta(c, "slot_count", len(result.Slots))
	response.JSON(c, http.StatusOK, result, middleware.ExtractMeta(c))
}

// Export godoc
// @Summary Export month availability
// @Tags Calendar
// @Security BearerAuth
// @Produce octet-stream
// @Param year query int true "Year"
// @Param month query int true "Month"
// @Param format query string false "csv, pdf or ics" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /calendar/month/export [get]
func (h *CalendarHandler) Export(c *gin.Context) {
	req, err := monthFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	format := service.ExportFormat(strings.ToLower(c.DefaultQuery("format", string(service.ExportFormatCSV))))
	result, err := h.exports.ExportMonth(c.Request.Context(), req, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Payload)
}

// IssueFeed godoc
// @Summary Issue calendar subscription link
// @Tags Calendar
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.CalendarFeedRequest false "Feed scope"
// @Success 201 {object} response.Envelope
// @Router /calendar/feeds [post]
func (h *CalendarHandler) IssueFeed(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CalendarFeedRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid feed payload"))
			return
		}
	}
	result, err := h.feeds.IssueToken(claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Feed godoc
// @Summary Calendar subscription feed
// @Tags Calendar
// @Produce plain
// @Param token path string true "Signed feed token"
// @Success 200 {string} string "text/calendar"
// @Failure 401 {object} response.Envelope
// @Router /calendar/feed/{token} [get]
func (h *CalendarHandler) Feed(c *gin.Context) {
	token := strings.TrimSuffix(c.Param("token"), ".ics")
	result, err := h.feeds.Render(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, result.ContentType+"; charset=utf-8", result.Payload)
}
