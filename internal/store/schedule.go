package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"officehours/backend/internal/domain"
)

// ScheduleTx exposes the window-store and reservation-ledger leaf operations
// available inside a single per-professor transaction. Compound operations
// (publish, book, cancel) are built from these so their decision logic can be
// exercised against fakes.
type ScheduleTx interface {
	InsertWindow(ctx context.Context, w domain.AvailabilityWindow) (domain.AvailabilityWindow, error)
	ListNeighborWindows(ctx context.Context, professorID uuid.UUID, start, end time.Time) ([]domain.AvailabilityWindow, error)
	FindCoveringFreeWindow(ctx context.Context, professorID uuid.UUID, at time.Time) (*domain.AvailabilityWindow, error)
	FindCoveringOccupiedWindow(ctx context.Context, professorID uuid.UUID, at time.Time) (*domain.AvailabilityWindow, error)
	SetWindowOccupied(ctx context.Context, windowID uuid.UUID, occupied bool) error
	DeleteFreeWindow(ctx context.Context, professorID, windowID uuid.UUID) error

	InsertReservation(ctx context.Context, r domain.Reservation) (domain.Reservation, error)
	HasActiveReservationAt(ctx context.Context, studentID uuid.UUID, at time.Time) (bool, error)
	FindActiveReservation(ctx context.Context, reservationID, professorID uuid.UUID) (*domain.Reservation, error)
	CancelReservation(ctx context.Context, reservationID uuid.UUID) error
}

// ScheduleRepository is the transactional scheduling core. Every mutating
// operation runs under per-professor mutual exclusion; reads are plain
// queries ordered by start/slot time ascending.
type ScheduleRepository interface {
	PublishWindow(ctx context.Context, w domain.AvailabilityWindow) (domain.AvailabilityWindow, error)
	RemoveWindow(ctx context.Context, professorID, windowID uuid.UUID) error
	ListFreeWindows(ctx context.Context, professorID uuid.UUID, from time.Time) ([]domain.AvailabilityWindow, error)
	ListProfessorWindows(ctx context.Context, professorID uuid.UUID, from time.Time) ([]domain.AvailabilityWindow, error)
	ListAllFreeWindows(ctx context.Context, from time.Time) ([]domain.AvailabilityWindow, error)

	Book(ctx context.Context, professorID, studentID uuid.UUID, at time.Time) (domain.Reservation, error)
	Cancel(ctx context.Context, reservationID, professorID uuid.UUID) (domain.Reservation, error)
	ListActiveByStudent(ctx context.Context, studentID uuid.UUID) ([]domain.Reservation, error)
	ListActiveByProfessor(ctx context.Context, professorID uuid.UUID) ([]domain.Reservation, error)
}
