package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date used for exception and blocked-date keys.
const DateLayout = "2006-01-02"

// ErrMalformedRow marks a stored row that lacks required fields or holds unparseable values.
var ErrMalformedRow = errors.New("malformed row")

// SessionTemplate is a bookable service definition.
type SessionTemplate struct {
	ID              string  `db:"id" json:"id"`
	Name            string  `db:"name" json:"name"`
	DurationMinutes int     `db:"duration_minutes" json:"duration_minutes"`
	Price           float64 `db:"price" json:"price"`
	Currency        string  `db:"currency" json:"currency"`
	Category        *string `db:"category" json:"category,omitempty"`
}

// WeeklyRuleRow mirrors availability_rules as stored. Nullable columns are pointers so
// missing values can be detected at parse time.
type WeeklyRuleRow struct {
	ID                string  `db:"id"`
	InstructorID      *string `db:"instructor_id"`
	Weekday           *int    `db:"weekday"`
	StartTime         *string `db:"start_time"`
	EndTime           *string `db:"end_time"`
	SessionTemplateID *string `db:"session_template_id"`
	LocationID        *string `db:"location_id"`
}

// ExceptionRow mirrors availability_exceptions as stored.
type ExceptionRow struct {
	ID                string     `db:"id"`
	InstructorID      *string    `db:"instructor_id"`
	Date              *time.Time `db:"date"`
	StartTime         *string    `db:"start_time"`
	EndTime           *string    `db:"end_time"`
	SessionTemplateID *string    `db:"session_template_id"`
	IsAvailable       *bool      `db:"is_available"`
	CreatedAt         time.Time  `db:"created_at"`
}

// BlockedDateRow mirrors blocked_dates as stored.
type BlockedDateRow struct {
	ID           string     `db:"id"`
	InstructorID *string    `db:"instructor_id"`
	Date         *time.Time `db:"date"`
	Reason       *string    `db:"reason"`
	CreatedAt    time.Time  `db:"created_at"`
}

// WeeklyRule is a validated recurring availability window.
type WeeklyRule struct {
	ID           string
	InstructorID string
	Weekday      time.Weekday
	Start        ClockTime
	End          ClockTime
	TemplateID   *string
	LocationID   *string
}

// ExceptionKind distinguishes one-off additions from slot blocks.
type ExceptionKind int

const (
	ExceptionAddition ExceptionKind = iota
	ExceptionBlock
)

// AvailabilityException is a validated date-specific override.
type AvailabilityException struct {
	ID           string
	InstructorID string
	Date         string
	Start        ClockTime
	End          ClockTime
	TemplateID   *string
	Kind         ExceptionKind
}

// BlockedDate suppresses every slot for an instructor on a date.
type BlockedDate struct {
	ID           string
	InstructorID string
	Date         string
}

// Parse validates the row into a WeeklyRule.
func (r WeeklyRuleRow) Parse() (WeeklyRule, error) {
	if blank(r.InstructorID) {
		return WeeklyRule{}, malformed("instructor_id missing")
	}
	if r.Weekday == nil || *r.Weekday < 0 || *r.Weekday > 6 {
		return WeeklyRule{}, malformed("weekday missing or out of range")
	}
	start, end, err := parseWindow(r.StartTime, r.EndTime)
	if err != nil {
		return WeeklyRule{}, err
	}
	return WeeklyRule{
		ID:           r.ID,
		InstructorID: *r.InstructorID,
		Weekday:      time.Weekday(*r.Weekday),
		Start:        start,
		End:          end,
		TemplateID:   nonBlank(r.SessionTemplateID),
		LocationID:   nonBlank(r.LocationID),
	}, nil
}

// Parse validates the row into an AvailabilityException. A missing is_available flag is
// malformed, never defaulted.
func (r ExceptionRow) Parse() (AvailabilityException, error) {
	if r.ID == "" {
		return AvailabilityException{}, malformed("id missing")
	}
	if blank(r.InstructorID) {
		return AvailabilityException{}, malformed("instructor_id missing")
	}
	if r.Date == nil || r.Date.IsZero() {
		return AvailabilityException{}, malformed("date missing")
	}
	if r.IsAvailable == nil {
		return AvailabilityException{}, malformed("is_available missing")
	}
	start, end, err := parseWindow(r.StartTime, r.EndTime)
	if err != nil {
		return AvailabilityException{}, err
	}
	kind := ExceptionBlock
	if *r.IsAvailable {
		kind = ExceptionAddition
	}
	return AvailabilityException{
		ID:           r.ID,
		InstructorID: *r.InstructorID,
		Date:         r.Date.Format(DateLayout),
		Start:        start,
		End:          end,
		TemplateID:   nonBlank(r.SessionTemplateID),
		Kind:         kind,
	}, nil
}

// Parse validates the row into a BlockedDate.
func (r BlockedDateRow) Parse() (BlockedDate, error) {
	if blank(r.InstructorID) {
		return BlockedDate{}, malformed("instructor_id missing")
	}
	if r.Date == nil || r.Date.IsZero() {
		return BlockedDate{}, malformed("date missing")
	}
	return BlockedDate{ID: r.ID, InstructorID: *r.InstructorID, Date: r.Date.Format(DateLayout)}, nil
}

// ClockTime is a wall-clock time of day normalised to HH:MM:SS.
type ClockTime string

// ParseClockTime accepts HH:MM or HH:MM:SS, optionally followed by fractional seconds.
func ParseClockTime(raw string) (ClockTime, error) {
	raw = strings.TrimSpace(raw)
	if dot := strings.IndexByte(raw, '.'); dot >= 0 {
		raw = raw[:dot]
	}
	parts := strings.Split(raw, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return "", fmt.Errorf("invalid time %q", raw)
	}
	limits := []int{23, 59, 59}
	values := []int{0, 0, 0}
	for i, part := range parts {
		if len(part) != 2 {
			return "", fmt.Errorf("invalid time %q", raw)
		}
		v, err := strconv.Atoi(part)
		if err != nil || v < 0 || v > limits[i] {
			return "", fmt.Errorf("invalid time %q", raw)
		}
		values[i] = v
	}
	return ClockTime(fmt.Sprintf("%02d:%02d:%02d", values[0], values[1], values[2])), nil
}

// MinuteKey returns HH:MM; block matching ignores seconds.
func (t ClockTime) MinuteKey() string {
	if len(t) < 5 {
		return string(t)
	}
	return string(t[:5])
}

// String returns the HH:MM:SS form.
func (t ClockTime) String() string {
	return string(t)
}

// On combines the clock time with a calendar date in loc.
func (t ClockTime) On(date string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" 15:04:05", date+" "+string(t), loc)
}

func parseWindow(startRaw, endRaw *string) (ClockTime, ClockTime, error) {
	if blank(startRaw) || blank(endRaw) {
		return "", "", malformed("start_time or end_time missing")
	}
	start, err := ParseClockTime(*startRaw)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}
	end, err := ParseClockTime(*endRaw)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}
	return start, end, nil
}

func malformed(reason string) error {
	return fmt.Errorf("%w: %s", ErrMalformedRow, reason)
}

func blank(v *string) bool {
	return v == nil || strings.TrimSpace(*v) == ""
}

func nonBlank(v *string) *string {
	if blank(v) {
		return nil
	}
	s := *v
	return &s
}
