package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/wellness-booking-api/internal/dto"
	appErrors "github.com/noah-isme/wellness-booking-api/pkg/errors"
	"github.com/noah-isme/wellness-booking-api/pkg/response"
)

type availabilityAdminService interface {
	CreateException(ctx context.Context, req dto.CreateExceptionRequest) (*dto.ExceptionResponse, error)
	DeleteException(ctx context.Context, id string) error
	CreateBlockedDate(ctx context.Context, req dto.CreateBlockedDateRequest) (*dto.BlockedDateResponse, error)
	DeleteBlockedDate(ctx context.Context, id string) error
}

// AvailabilityHandler exposes admin mutations of exceptions and blocked dates.
type AvailabilityHandler struct {
	service availabilityAdminService
}

// NewAvailabilityHandler constructs the handler.
func NewAvailabilityHandler(service availabilityAdminService) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

// CreateException godoc
// @Summary Add an availability exception
// @Description is_available=true adds a one-off slot; false blocks weekly slots starting at the same minute.
// @Tags Availability
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.CreateExceptionRequest true "Exception payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /availability/exceptions [post]
func (h *AvailabilityHandler) CreateException(c *gin.Context) {
	var req dto.CreateExceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid exception payload"))
		return
	}
	result, err := h.service.CreateException(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// DeleteException godoc
// @Summary Delete an availability exception
// @Tags Availability
// @Security BearerAuth
// @Param id path string true "Exception ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /availability/exceptions/{id} [delete]
func (h *AvailabilityHandler) DeleteException(c *gin.Context) {
	if err := h.service.DeleteException(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CreateBlockedDate godoc
// @Summary Block an instructor for a day
// @Tags Availability
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.CreateBlockedDateRequest true "Blocked date payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /availability/blocked-dates [post]
func (h *AvailabilityHandler) CreateBlockedDate(c *gin.Context) {
	var req dto.CreateBlockedDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid blocked date payload"))
		return
	}
	result, err := h.service.CreateBlockedDate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// DeleteBlockedDate godoc
// @Summary Remove a blocked date
// @Tags Availability
// @Security BearerAuth
// @Param id path string true "Blocked date ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /availability/blocked-dates/{id} [delete]
func (h *AvailabilityHandler) DeleteBlockedDate(c *gin.Context) {
	if err := h.service.DeleteBlockedDate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
