package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"officehours/backend/internal/domain"
	"officehours/backend/internal/service/booking"
)

type availabilityService interface {
	PublishAvailability(ctx context.Context, professorID uuid.UUID, start, end time.Time) (domain.AvailabilityWindow, error)
	RemoveAvailability(ctx context.Context, professorID, windowID uuid.UUID) error
	ProfessorAvailability(ctx context.Context, professorID uuid.UUID, from time.Time) (booking.ProfessorAvailability, error)
	AllProfessorsAvailability(ctx context.Context, from time.Time) ([]booking.ProfessorAvailability, error)
	MyAvailability(ctx context.Context, professorID uuid.UUID, from time.Time) ([]domain.AvailabilityWindow, error)
}

type availabilityHandler struct {
	booking availabilityService
	log     *slog.Logger
}

func newAvailabilityHandler(booking availabilityService, log *slog.Logger) *availabilityHandler {
	return &availabilityHandler{booking: booking, log: log}
}

func (h *availabilityHandler) add(c *gin.Context) {
	var req addAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end are required"})
		return
	}

	window, err := h.booking.PublishAvailability(c.Request.Context(), callerID(c), req.Start, req.End)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	h.log.Info("availability published",
		slog.String("window_id", window.ID.String()),
		slog.String("professor_id", window.ProfessorID.String()),
	)
	c.JSON(http.StatusCreated, gin.H{
		"message":      "availability added",
		"availability": toWindowResponse(window),
	})
}

func (h *availabilityHandler) remove(c *gin.Context) {
	windowID, err := uuid.Parse(c.Param("windowId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid window id"})
		return
	}

	if err := h.booking.RemoveAvailability(c.Request.Context(), callerID(c), windowID); err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	h.log.Info("availability removed", slog.String("window_id", windowID.String()))
	c.JSON(http.StatusOK, gin.H{"message": "availability removed"})
}

func (h *availabilityHandler) byProfessor(c *gin.Context) {
	professorID, err := uuid.Parse(c.Param("professorId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid professor id"})
		return
	}

	out, err := h.booking.ProfessorAvailability(c.Request.Context(), professorID, fromQuery(c))
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, toProfessorAvailabilityResponse(out))
}

func (h *availabilityHandler) all(c *gin.Context) {
	out, err := h.booking.AllProfessorsAvailability(c.Request.Context(), fromQuery(c))
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	resp := make([]professorAvailabilityResponse, 0, len(out))
	for _, pa := range out {
		resp = append(resp, toProfessorAvailabilityResponse(pa))
	}
	c.JSON(http.StatusOK, gin.H{"professors": resp, "count": len(resp)})
}

func (h *availabilityHandler) mine(c *gin.Context) {
	windows, err := h.booking.MyAvailability(c.Request.Context(), callerID(c), fromQuery(c))
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"availability": toWindowResponses(windows),
		"count":        len(windows),
	})
}

// fromQuery reads the optional ?from= horizon; a zero value means "now".
func fromQuery(c *gin.Context) time.Time {
	raw := c.Query("from")
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
