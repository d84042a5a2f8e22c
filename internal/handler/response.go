package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"funnelpay/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(mapErrorToHTTPStatus(err), ErrorResponse{Error: err.Error()})
}

// mapErrorToHTTPStatus maps service errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	// Processor failures keep the processor's own status when it gave one.
	var pErr *service.ProcessorError
	if errors.As(err, &pErr) {
		if pErr.StatusCode >= 400 {
			return pErr.StatusCode
		}
		return http.StatusBadGateway
	}

	switch {
	// Client input errors - Bad Request
	case errors.Is(err, service.ErrCustomerNotFound),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrInvalidCustomerEmail),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidCurrency),
		errors.Is(err, service.ErrInvalidPriceID),
		errors.Is(err, service.ErrMissingCandidatureFields):
		return http.StatusBadRequest

	// Storage and unclassified dependency failures
	case errors.Is(err, service.ErrSheetsNotConfigured),
		errors.Is(err, service.ErrSheetAppendFailed),
		errors.Is(err, service.ErrUnhandledPaymentStatus):
		return http.StatusInternalServerError

	default:
		return http.StatusInternalServerError
	}
}
