package dto

// CreateExceptionRequest adds a one-off slot (is_available=true) or blocks a weekly slot.
type CreateExceptionRequest struct {
	InstructorID      string  `json:"instructor_id" validate:"required"`
	SessionTemplateID *string `json:"session_template_id"`
	Date              string  `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime         string  `json:"start_time" validate:"required,clocktime"`
	EndTime           string  `json:"end_time" validate:"required,clocktime"`
	IsAvailable       *bool   `json:"is_available" validate:"required"`
}

// CreateBlockedDateRequest blocks an instructor for a whole day.
type CreateBlockedDateRequest struct {
	InstructorID string  `json:"instructor_id" validate:"required"`
	Date         string  `json:"date" validate:"required,datetime=2006-01-02"`
	Reason       *string `json:"reason"`
}

// ExceptionResponse echoes a stored exception.
type ExceptionResponse struct {
	ID                string  `json:"id"`
	InstructorID      string  `json:"instructor_id"`
	SessionTemplateID *string `json:"session_template_id"`
	Date              string  `json:"date"`
	StartTime         string  `json:"start_time"`
	EndTime           string  `json:"end_time"`
	IsAvailable       bool    `json:"is_available"`
}

// BlockedDateResponse echoes a stored blocked date.
type BlockedDateResponse struct {
	ID           string  `json:"id"`
	InstructorID string  `json:"instructor_id"`
	Date         string  `json:"date"`
	Reason       *string `json:"reason,omitempty"`
}
