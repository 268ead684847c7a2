package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int { return &i }
func boolPtr(b bool) *bool { return &b }

func TestParseClockTime(t *testing.T) {
	cases := map[string]ClockTime{
		"09:00":           "09:00:00",
		"09:00:30":        "09:00:30",
		" 23:59:59 ":      "23:59:59",
		"07:15:00.000000": "07:15:00",
	}
	for raw, want := range cases {
		got, err := ParseClockTime(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	for _, raw := range []string{"", "9:00", "24:00", "12:60", "ab:cd", "10:00:00:00"} {
		_, err := ParseClockTime(raw)
		assert.Error(t, err, raw)
	}
}

func TestClockTimeMinuteKeyIgnoresSeconds(t *testing.T) {
	assert.Equal(t, "09:00", ClockTime("09:00:45").MinuteKey())
	assert.Equal(t, ClockTime("09:00:00").MinuteKey(), ClockTime("09:00:59").MinuteKey())
}

func TestClockTimeOn(t *testing.T) {
	ts, err := ClockTime("14:30:00").On("2025-03-15", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 15, 14, 30, 0, 0, time.UTC), ts)
}

func TestWeeklyRuleRowParse(t *testing.T) {
	row := WeeklyRuleRow{
		ID:                "rule-1",
		InstructorID:      strPtr("inst-1"),
		Weekday:           intPtr(1),
		StartTime:         strPtr("09:00"),
		EndTime:           strPtr("10:00:00"),
		SessionTemplateID: strPtr("tpl-1"),
		LocationID:        strPtr(""),
	}
	rule, err := row.Parse()
	require.NoError(t, err)
	assert.Equal(t, time.Monday, rule.Weekday)
	assert.Equal(t, ClockTime("09:00:00"), rule.Start)
	assert.Equal(t, "tpl-1", *rule.TemplateID)
	assert.Nil(t, rule.LocationID)
}

func TestWeeklyRuleRowParseMalformed(t *testing.T) {
	rows := []WeeklyRuleRow{
		{ID: "no-instructor", Weekday: intPtr(1), StartTime: strPtr("09:00"), EndTime: strPtr("10:00")},
		{ID: "no-weekday", InstructorID: strPtr("i"), StartTime: strPtr("09:00"), EndTime: strPtr("10:00")},
		{ID: "bad-weekday", InstructorID: strPtr("i"), Weekday: intPtr(7), StartTime: strPtr("09:00"), EndTime: strPtr("10:00")},
		{ID: "no-end", InstructorID: strPtr("i"), Weekday: intPtr(2), StartTime: strPtr("09:00")},
		{ID: "bad-start", InstructorID: strPtr("i"), Weekday: intPtr(2), StartTime: strPtr("nine"), EndTime: strPtr("10:00")},
	}
	for _, row := range rows {
		_, err := row.Parse()
		assert.ErrorIs(t, err, ErrMalformedRow, row.ID)
	}
}

func TestExceptionRowParse(t *testing.T) {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	row := ExceptionRow{
		ID:           "exc-1",
		InstructorID: strPtr("inst-1"),
		Date:         &date,
		StartTime:    strPtr("09:00:00"),
		EndTime:      strPtr("10:00:00"),
		IsAvailable:  boolPtr(false),
	}
	exc, err := row.Parse()
	require.NoError(t, err)
	assert.Equal(t, ExceptionBlock, exc.Kind)
	assert.Equal(t, "2025-03-10", exc.Date)
	assert.Nil(t, exc.TemplateID)

	row.IsAvailable = boolPtr(true)
	exc, err = row.Parse()
	require.NoError(t, err)
	assert.Equal(t, ExceptionAddition, exc.Kind)

	row.IsAvailable = nil
	_, err = row.Parse()
	assert.ErrorIs(t, err, ErrMalformedRow)
}

func TestBlockedDateRowParse(t *testing.T) {
	date := time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)
	blocked, err := BlockedDateRow{ID: "b-1", InstructorID: strPtr("inst-1"), Date: &date}.Parse()
	require.NoError(t, err)
	assert.Equal(t, "2025-03-17", blocked.Date)

	_, err = BlockedDateRow{ID: "b-2", InstructorID: strPtr("inst-1")}.Parse()
	assert.ErrorIs(t, err, ErrMalformedRow)
}
