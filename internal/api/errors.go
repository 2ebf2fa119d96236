package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/gym-admin/internal/routine"
	"alcyxob/gym-admin/internal/service"
)

// ErrorResponse is the envelope of every 4xx/5xx response.
type ErrorResponse struct {
	Detail string            `json:"detail"`
	Row    int               `json:"row,omitempty"`   // 1-based offending row of a routine submission
	Field  string            `json:"field,omitempty"` // Offending field of a routine submission
	Fields map[string]string `json:"fields,omitempty"`
}

const internalErrorDetail = "internal server error"

// abortWithError writes the error envelope and aborts the request.
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Detail: message})
}

var statusBySentinel = []struct {
	err    error
	status int
}{
	{service.ErrMemberNotFound, http.StatusNotFound},
	{service.ErrRoutineNotFound, http.StatusNotFound},
	{service.ErrExerciseNotFound, http.StatusNotFound},
	{service.ErrPaymentNotFound, http.StatusNotFound},
	{service.ErrArchiveNotFound, http.StatusNotFound},
	{service.ErrDNITaken, http.StatusConflict},
	{service.ErrExerciseExists, http.StatusConflict},
	{service.ErrUsernameTaken, http.StatusConflict},
	{service.ErrValidationFailed, http.StatusBadRequest},
	{service.ErrAuthenticationFailed, http.StatusUnauthorized},
	{service.ErrUnauthenticated, http.StatusUnauthorized},
	{service.ErrAccessDenied, http.StatusForbidden},
	{service.ErrArchiveDisabled, http.StatusServiceUnavailable},
}

// respondError maps service errors to responses. Anything unrecognised is
// handed to ErrorHandler, which logs it and answers 500.
func respondError(c *gin.Context, err error) {
	var verr *routine.ValidationError
	if errors.As(err, &verr) {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{
			Detail: verr.Error(),
			Row:    verr.Row,
			Field:  verr.Field,
		})
		return
	}
	for _, s := range statusBySentinel {
		if errors.Is(err, s.err) {
			abortWithError(c, s.status, err.Error())
			return
		}
	}
	_ = c.Error(err)
	c.Abort()
}
