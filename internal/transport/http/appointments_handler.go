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

type appointmentsService interface {
	Book(ctx context.Context, professorID, studentID uuid.UUID, at time.Time) (booking.ReservationDetails, error)
	Cancel(ctx context.Context, reservationID, professorID uuid.UUID) (booking.ReservationDetails, error)
	StudentReservations(ctx context.Context, studentID uuid.UUID) ([]domain.Reservation, error)
	ProfessorReservations(ctx context.Context, professorID uuid.UUID) ([]domain.Reservation, error)
}

type appointmentsHandler struct {
	booking appointmentsService
	log     *slog.Logger
}

func newAppointmentsHandler(booking appointmentsService, log *slog.Logger) *appointmentsHandler {
	return &appointmentsHandler{booking: booking, log: log}
}

func (h *appointmentsHandler) book(c *gin.Context) {
	var req bookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "professorId and timeSlot are required"})
		return
	}
	professorID, err := uuid.Parse(req.ProfessorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid professor id"})
		return
	}

	out, err := h.booking.Book(c.Request.Context(), professorID, callerID(c), req.TimeSlot)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	h.log.Info("appointment booked",
		slog.String("reservation_id", out.Reservation.ID.String()),
		slog.String("professor_id", out.Reservation.ProfessorID.String()),
		slog.String("student_id", out.Reservation.StudentID.String()),
	)
	c.JSON(http.StatusCreated, gin.H{
		"message":     "appointment booked",
		"appointment": toReservationDetailsResponse(out),
	})
}

func (h *appointmentsHandler) cancel(c *gin.Context) {
	reservationID, err := uuid.Parse(c.Param("appointmentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid appointment id"})
		return
	}

	out, err := h.booking.Cancel(c.Request.Context(), reservationID, callerID(c))
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	h.log.Info("appointment cancelled", slog.String("reservation_id", reservationID.String()))
	c.JSON(http.StatusOK, gin.H{
		"message":     "appointment cancelled",
		"appointment": toReservationDetailsResponse(out),
	})
}

func (h *appointmentsHandler) mine(c *gin.Context) {
	reservations, err := h.booking.StudentReservations(c.Request.Context(), callerID(c))
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"appointments": toReservationResponses(reservations),
		"count":        len(reservations),
	})
}

func (h *appointmentsHandler) forProfessor(c *gin.Context) {
	reservations, err := h.booking.ProfessorReservations(c.Request.Context(), callerID(c))
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"appointments": toReservationResponses(reservations),
		"count":        len(reservations),
	})
}
