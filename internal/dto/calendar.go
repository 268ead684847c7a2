package dto

import "github.com/noah-isme/wellness-booking-api/internal/models"

// MonthCalendarRequest identifies a calendar month; Month is 1-indexed.
type MonthCalendarRequest struct {
	Year  int `form:"year" validate:"required,min=1970,max=9999"`
	Month int `form:"month" validate:"required,min=1,max=12"`
}

// TeamMember is the directory entry returned alongside slots.
type TeamMember struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatarUrl"`
}

// MonthCalendarResponse is the month availability contract consumed by the calendar UI.
type MonthCalendarResponse struct {
	Slots       []models.ResolvedSlot `json:"slots"`
	TeamMembers []TeamMember          `json:"teamMembers"`
}

// CalendarFeedRequest asks for a subscription link scoped to one instructor, or all when empty.
type CalendarFeedRequest struct {
	InstructorID string `json:"instructor_id"`
}

// CalendarFeedResponse carries the signed feed token.
type CalendarFeedResponse struct {
	Token     string `json:"token"`
	Path      string `json:"path"`
	ExpiresAt string `json:"expires_at"`
}
