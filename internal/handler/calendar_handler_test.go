package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/wellness-booking-api/internal/dto"
	"github.com/noah-isme/wellness-booking-api/internal/middleware"
	"github.com/noah-isme/wellness-booking-api/internal/models"
	"github.com/noah-isme/wellness-booking-api/internal/service"
	appErrors "github.com/noah-isme/wellness-booking-api/pkg/errors"
)

type calendarServiceMock struct {
	captured dto.MonthCalendarRequest
	result   *dto.MonthCalendarResponse
	cacheHit bool
	err      error
}

func (m *calendarServiceMock) GetMonthCalendar(_ context.Context, req dto.MonthCalendarRequest) (*dto.MonthCalendarResponse, bool, error) {
	m.captured = req
	return m.result, m.cacheHit, m.err
}

type exportServiceMock struct {
	format service.ExportFormat
}

func (m *exportServiceMock) ExportMonth(_ context.Context, req dto.MonthCalendarRequest, format service.ExportFormat) (*service.ExportResult, error) {
	m.format = format
	if format == "xlsx" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be one of csv, pdf, ics")
	}
	return &service.ExportResult{Filename: "availability_2025-02.csv", ContentType: "text/csv", Payload: []byte("Date\n")}, nil
}

type feedServiceMock struct {
	token  string
	claims *models.JWTClaims
}

func (m *feedServiceMock) IssueToken(claims *models.JWTClaims, req dto.CalendarFeedRequest) (*dto.CalendarFeedResponse, error) {
	m.claims = claims
	return &dto.CalendarFeedResponse{Token: "tok", Path: "/api/v1/calendar/feed/tok"}, nil
}

func (m *feedServiceMock) Render(_ context.Context, token string) (*service.ExportResult, error) {
	m.token = token
	if token != "tok" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid feed token")
	}
	return &service.ExportResult{ContentType: "text/calendar", Payload: []byte("BEGIN:VCALENDAR")}, nil
}

func newTestContext(method, target string, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, target, nil)
	} else {
		req, _ = http.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	return c, w
}

func TestCalendarHandlerMonth(t *testing.T) {
	tpl := "t1"
	mockSvc := &calendarServiceMock{
		result: &dto.MonthCalendarResponse{
			Slots:       []models.ResolvedSlot{{Date: "2025-02-03", Start: "09:00:00", End: "10:00:00", TemplateID: &tpl, InstructorID: "x", Source: models.SlotSourceRule}},
			TeamMembers: []dto.TeamMember{{ID: "x", Name: "Ana Ruiz"}},
		},
		cacheHit: true,
	}
	h := NewCalendarHandler(mockSvc, nil, nil)
	c, w := newTestContext(http.MethodGet, "/calendar/month?year=2025&month=2", "")

	h.Month(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.MonthCalendarRequest{Year: 2025, Month: 2}, mockSvc.captured)

	var body struct {
		Data struct {
			Slots []map[string]interface{} `json:"slots"`
			Team  []map[string]interface{} `json:"teamMembers"`
		} `json:"data"`
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data.Slots, 1)
	slot := body.Data.Slots[0]
	assert.Equal(t, "09:00:00", slot["start"])
	assert.Equal(t, "rule", slot["source"])
	assert.Nil(t, slot["location_id"])
	_, hasException := slot["exception_id"]
	assert.False(t, hasException)
	assert.Equal(t, "Ana Ruiz", body.Data.Team[0]["name"])
	assert.Contains(t, body.Data.Team[0], "avatarUrl")
	assert.Equal(t, true, body.Meta["cache_hit"])
}

func TestCalendarHandlerMonthRejectsNonNumericQuery(t *testing.T) {
	h := NewCalendarHandler(&calendarServiceMock{}, nil, nil)
	for _, target := range []string{"/calendar/month?month=2", "/calendar/month?year=2025&month=feb"} {
		c, w := newTestContext(http.MethodGet, target, "")
		h.Month(c)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.Contains(t, w.Body.String(), appErrors.ErrValidation.Code)
	}
}

func TestCalendarHandlerMonthSurfacesStoreFailure(t *testing.T) {
	h := NewCalendarHandler(&calendarServiceMock{err: appErrors.ErrStoreUnavailable}, nil, nil)
	c, w := newTestContext(http.MethodGet, "/calendar/month?year=2025&month=2", "")

	h.Month(c)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "STORE_UNAVAILABLE")
}

func TestCalendarHandlerExport(t *testing.T) {
	exports := &exportServiceMock{}
	h := NewCalendarHandler(nil, exports, nil)

	c, w := newTestContext(http.MethodGet, "/calendar/month/export?year=2025&month=2", "")
	h.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.ExportFormatCSV, exports.format)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "availability_2025-02.csv")
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))

	c, w = newTestContext(http.MethodGet, "/calendar/month/export?year=2025&month=2&format=XLSX", "")
	h.Export(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalendarHandlerFeeds(t *testing.T) {
	feeds := &feedServiceMock{}
	h := NewCalendarHandler(nil, nil, feeds)

	c, w := newTestContext(http.MethodPost, "/calendar/feeds", "")
	h.IssueFeed(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c, w = newTestContext(http.MethodPost, "/calendar/feeds", `{"instructor_id":"x"}`)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})
	h.IssueFeed(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "admin-1", feeds.claims.UserID)
	assert.Contains(t, w.Body.String(), "/api/v1/calendar/feed/tok")

	c, w = newTestContext(http.MethodGet, "/calendar/feed/tok.ics", "")
	c.Params = gin.Params{{Key: "token", Value: "tok.ics"}}
	h.Feed(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tok", feeds.token)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/calendar"))

	c, w = newTestContext(http.MethodGet, "/calendar/feed/bad", "")
	c.Params = gin.Params{{Key: "token", Value: "bad"}}
	h.Feed(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
