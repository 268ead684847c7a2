package models

// SlotSource tags where a resolved slot came from.
type SlotSource string

const (
	SlotSourceRule      SlotSource = "rule"
	SlotSourceException SlotSource = "exception"
)

// ResolvedSlot is one bookable window produced for a calendar month. It is never persisted.
type ResolvedSlot struct {
	Date         string     `json:"date"`
	Start        ClockTime  `json:"start"`
	End          ClockTime  `json:"end"`
	TemplateID   *string    `json:"template_id"`
	InstructorID string     `json:"instructor_id"`
	LocationID   *string    `json:"location_id"`
	Source       SlotSource `json:"source,omitempty"`
	ExceptionID  *string    `json:"exception_id,omitempty"`
}

// AvailabilitySnapshot holds everything read from the store for one resolution.
type AvailabilitySnapshot struct {
	Templates   []SessionTemplate
	Weekly      []WeeklyRule
	Exceptions  []AvailabilityException
	Blocked     []BlockedDate
	TeamMembers []Profile
}
