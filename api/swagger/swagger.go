package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Wellness Booking API",
        "description": "Monthly availability resolution and admin scheduling overrides",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Calendar", "description": "Resolved month availability, exports and feeds"},
        {"name": "Availability", "description": "Exceptions and blocked dates"}
    ],
    "paths": {
        "/calendar/month": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Month availability",
                "parameters": [
                    {"name": "year", "in": "query", "type": "integer", "required": true, "minimum": 1970, "maximum": 9999},
                    {"name": "month", "in": "query", "type": "integer", "required": true, "minimum": 1, "maximum": 12}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/MonthCalendarEnvelope"}},
                    "400": {"description": "Invalid year or month", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Availability store unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/calendar/month/export": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Export month availability",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf", "text/calendar"],
                "parameters": [
                    {"name": "year", "in": "query", "type": "integer", "required": true},
                    {"name": "month", "in": "query", "type": "integer", "required": true},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "ics"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "File attachment", "schema": {"type": "file"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/calendar/feeds": {
            "post": {
                "tags": ["Calendar"],
                "summary": "Issue calendar subscription link",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": false, "schema": {"$ref": "#/definitions/CalendarFeedRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/calendar/feed/{token}": {
            "get": {
                "tags": ["Calendar"],
                "summary": "iCalendar subscription feed",
                "produces": ["text/calendar"],
                "parameters": [
                    {"name": "token", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "iCalendar document"},
                    "401": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/availability/exceptions": {
            "post": {
                "tags": ["Availability"],
                "summary": "Add an availability exception",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateExceptionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/availability/exceptions/{id}": {
            "delete": {
                "tags": ["Availability"],
                "summary": "Delete an availability exception",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/availability/blocked-dates": {
            "post": {
                "tags": ["Availability"],
                "summary": "Block an instructor for a day",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateBlockedDateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/availability/blocked-dates/{id}": {
            "delete": {
                "tags": ["Availability"],
                "summary": "Remove a blocked date",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ResolvedSlot": {
            "type": "object",
            "properties": {
                "date": {"type": "string", "example": "2025-02-03"},
                "start": {"type": "string", "example": "09:00:00"},
                "end": {"type": "string", "example": "10:00:00"},
                "template_id": {"type": "string", "x-nullable": true},
                "instructor_id": {"type": "string"},
                "location_id": {"type": "string", "x-nullable": true},
                "source": {"type": "string", "enum": ["rule", "exception"]},
                "exception_id": {"type": "string"}
            }
        },
        "TeamMember": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "avatarUrl": {"type": "string", "x-nullable": true}
            }
        },
        "MonthCalendar": {
            "type": "object",
            "properties": {
                "slots": {"type": "array", "items": {"$ref": "#/definitions/ResolvedSlot"}},
                "teamMembers": {"type": "array", "items": {"$ref": "#/definitions/TeamMember"}}
            }
        },
        "MonthCalendarEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/MonthCalendar"},
                "meta": {"type": "object"}
            }
        },
        "CreateExceptionRequest": {
            "type": "object",
            "required": ["instructor_id", "date", "start_time", "end_time", "is_available"],
            "properties": {
                "instructor_id": {"type": "string"},
                "session_template_id": {"type": "string", "x-nullable": true},
                "date": {"type": "string", "example": "2025-02-10"},
                "start_time": {"type": "string", "example": "09:00"},
                "end_time": {"type": "string", "example": "10:00"},
                "is_available": {"type": "boolean"}
            }
        },
        "CreateBlockedDateRequest": {
            "type": "object",
            "required": ["instructor_id", "date"],
            "properties": {
                "instructor_id": {"type": "string"},
                "date": {"type": "string", "example": "2025-02-17"},
                "reason": {"type": "string"}
            }
        },
        "CalendarFeedRequest": {
            "type": "object",
            "properties": {
                "instructor_id": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
