package handler

import (
	"NetVault/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// statusForError maps service errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidOperation),
		errors.Is(err, service.ErrNotEmpty),
		errors.Is(err, service.ErrInvalidFormat):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrExpired):
		return http.StatusGone
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrStorageFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusForError(err), gin.H{"error": err.Error()})
}

func currentUserID(c *gin.Context) uint64 {
	value, _ := c.Get("user_id")
	userID, _ := value.(uint64)
	return userID
}
