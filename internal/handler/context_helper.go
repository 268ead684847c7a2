package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/wellness-booking-api/internal/dto"
	"github.com/noah-isme/wellness-booking-api/internal/middleware"
	"github.com/noah-isme/wellness-booking-api/internal/models"
	appErrors "github.com/noah-isme/wellness-booking-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// monthFromQuery reads ?year=&month= as integers; range checks happen in the service.
func monthFromQuery(c *gin.Context) (dto.MonthCalendarRequest, error) {
	year, err := strconv.Atoi(strings.TrimSpace(c.Query("year")))
	if err != nil {
		return dto.MonthCalendarRequest{}, appErrors.Clone(appErrors.ErrValidation, "year must be an integer")
	}
	month, err := strconv.Atoi(strings.TrimSpace(c.Query("month")))
	if err != nil {
		return dto.MonthCalendarRequest{}, appErrors.Clone(appErrors.ErrValidation, "month must be an integer between 1 and 12")
	}
	return dto.MonthCalendarRequest{Year: year, Month: month}, nil
}
