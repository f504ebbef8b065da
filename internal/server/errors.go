// ABOUTME: Maps domain errors to HTTP status codes and JSON error bodies.
// ABOUTME: Every failed request answers {"detail": "..."}.
package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harperreed/shapementor/internal/lookup"
	"github.com/harperreed/shapementor/internal/models"
	"github.com/harperreed/shapementor/internal/session"
	"github.com/harperreed/shapementor/internal/storage"
)

func statusFor(err error) int {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNoSession):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, lookup.ErrUnknownReferenceKey), errors.Is(err, lookup.ErrUnknownCategory):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// fail aborts the request with the status for err. Internal errors are
// logged and hidden from the client.
func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	detail := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "err", err)
		detail = "internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

// badRequest wraps a binding or parsing failure as a validation error.
func badRequest(field string, err error) error {
	return &models.ValidationError{Field: field, Message: err.Error()}
}
