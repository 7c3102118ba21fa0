package server

import (
	"errors"
	"net/http"

	invoicedomain "github.com/dkugroup/resortops/internal/invoice/domain"
	resortdomain "github.com/dkugroup/resortops/internal/resort/domain"
	revenuedomain "github.com/dkugroup/resortops/internal/revenue/domain"
	sharingdomain "github.com/dkugroup/resortops/internal/sharing/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Code:    err.Error(),
			Message: "validation error",
		}
	case errors.Is(err, invoicedomain.ErrEmptyResult):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "empty_result",
			Code:    "empty_result",
			Message: "no revenue records match the requested range",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Code:    err.Error(),
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, revenuedomain.ErrInvalidResort),
		errors.Is(err, revenuedomain.ErrInvalidCategory),
		errors.Is(err, revenuedomain.ErrInvalidAmount),
		errors.Is(err, revenuedomain.ErrInvalidRate),
		errors.Is(err, revenuedomain.ErrInvalidAdjustmentType),
		errors.Is(err, revenuedomain.ErrAdjustmentExceedsBase),
		errors.Is(err, revenuedomain.ErrInvalidBookingDate),
		errors.Is(err, revenuedomain.ErrInvalidRecordID),
		errors.Is(err, sharingdomain.ErrInvalidResort),
		errors.Is(err, sharingdomain.ErrInvalidCategory),
		errors.Is(err, sharingdomain.ErrInvalidPercentage),
		errors.Is(err, invoicedomain.ErrInvalidResort),
		errors.Is(err, invoicedomain.ErrInvalidPeriod),
		errors.Is(err, invoicedomain.ErrInvalidCategory),
		errors.Is(err, invoicedomain.ErrInvalidInvoiceID),
		errors.Is(err, invoicedomain.ErrInvalidStatus),
		errors.Is(err, resortdomain.ErrInvalidName),
		errors.Is(err, resortdomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, invoicedomain.ErrAllocationConflict),
		errors.Is(err, invoicedomain.ErrInvalidTransition),
		errors.Is(err, invoicedomain.ErrInvoiceNotDraft),
		errors.Is(err, revenuedomain.ErrRecordBilled),
		errors.Is(err, sharingdomain.ErrDuplicateConfig):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, revenuedomain.ErrNotFound),
		errors.Is(err, sharingdomain.ErrNotFound),
		errors.Is(err, resortdomain.ErrNotFound),
		errors.Is(err, invoicedomain.ErrInvoiceNotFound),
		errors.Is(err, invoicedomain.ErrResortNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}
