package http

import (
	"time"

	"officehours/backend/internal/domain"
	"officehours/backend/internal/service/booking"
	"officehours/backend/internal/service/identity"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type addAvailabilityRequest struct {
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
}

type bookAppointmentRequest struct {
	ProfessorID string    `json:"professorId" binding:"required"`
	TimeSlot    time.Time `json:"timeSlot" binding:"required"`
}

type partyResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type authResponse struct {
	Message string        `json:"message"`
	Token   string        `json:"token"`
	User    partyResponse `json:"user"`
}

type windowResponse struct {
	ID          string    `json:"id"`
	ProfessorID string    `json:"professorId"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Occupied    bool      `json:"occupied"`
}

type reservationResponse struct {
	ID          string    `json:"id"`
	ProfessorID string    `json:"professorId"`
	StudentID   string    `json:"studentId"`
	TimeSlot    time.Time `json:"timeSlot"`
	Status      string    `json:"status"`
}

type reservationDetailsResponse struct {
	reservationResponse
	ProfessorName  string `json:"professorName,omitempty"`
	ProfessorEmail string `json:"professorEmail,omitempty"`
	StudentName    string `json:"studentName,omitempty"`
	StudentEmail   string `json:"studentEmail,omitempty"`
}

type professorAvailabilityResponse struct {
	Professor      partyResponse    `json:"professor"`
	AvailableSlots []windowResponse `json:"availableSlots"`
	Count          int              `json:"count"`
}

func toPartyResponse(id identity.Identity) partyResponse {
	return partyResponse{
		ID:    id.ID.String(),
		Name:  id.Name,
		Email: id.Email,
		Role:  string(id.Role),
	}
}

func toWindowResponse(w domain.AvailabilityWindow) windowResponse {
	return windowResponse{
		ID:          w.ID.String(),
		ProfessorID: w.ProfessorID.String(),
		Start:       w.StartTime,
		End:         w.EndTime,
		Occupied:    w.Occupied,
	}
}

func toWindowResponses(ws []domain.AvailabilityWindow) []windowResponse {
	out := make([]windowResponse, 0, len(ws))
	for _, w := range ws {
		out = append(out, toWindowResponse(w))
	}
	return out
}

func toReservationResponse(r domain.Reservation) reservationResponse {
	return reservationResponse{
		ID:          r.ID.String(),
		ProfessorID: r.ProfessorID.String(),
		StudentID:   r.StudentID.String(),
		TimeSlot:    r.SlotAt,
		Status:      string(r.Status),
	}
}

func toReservationResponses(rs []domain.Reservation) []reservationResponse {
	out := make([]reservationResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, toReservationResponse(r))
	}
	return out
}

func toReservationDetailsResponse(d booking.ReservationDetails) reservationDetailsResponse {
	return reservationDetailsResponse{
		reservationResponse: toReservationResponse(d.Reservation),
		ProfessorName:       d.ProfessorName,
		ProfessorEmail:      d.ProfessorEmail,
		StudentName:         d.StudentName,
		StudentEmail:        d.StudentEmail,
	}
}

func toProfessorAvailabilityResponse(pa booking.ProfessorAvailability) professorAvailabilityResponse {
	return professorAvailabilityResponse{
		Professor: partyResponse{
			ID:    pa.Professor.ID.String(),
			Name:  pa.Professor.Name,
			Email: pa.Professor.Email,
			Role:  string(domain.RoleProfessor),
		},
		AvailableSlots: toWindowResponses(pa.Windows),
		Count:          len(pa.Windows),
	}
}
