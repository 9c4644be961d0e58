package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"officehours/backend/internal/service/booking"
	"officehours/backend/internal/service/identity"
	"officehours/backend/internal/store"
)

// writeServiceError maps core errors to HTTP statuses. Recoverable caller
// outcomes keep their message; repository faults and integrity violations are
// logged and returned opaque.
func writeServiceError(c *gin.Context, log *slog.Logger, err error) {
	var bookingErr *booking.ValidationError
	var identityErr *identity.ValidationError

	switch {
	case errors.As(err, &bookingErr), errors.As(err, &identityErr),
		errors.Is(err, store.ErrInvalidRange),
		errors.Is(err, store.ErrInPast):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, identity.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrOverlap),
		errors.Is(err, store.ErrSlotUnavailable),
		errors.Is(err, store.ErrDoubleBooking),
		errors.Is(err, store.ErrWindowOccupied),
		errors.Is(err, store.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrInconsistentState):
		log.Error("scheduling state inconsistent", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	default:
		log.Error("request failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
