package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "active"
	ReservationCancelled ReservationStatus = "cancelled"
)

// Reservation is a student's claim on a single instant inside a professor's
// availability window. Cancelled reservations are kept as history; the backing
// window is never referenced directly and is re-derived by containment.
type Reservation struct {
	bun.BaseModel `bun:"table:reservations"`

	ID          uuid.UUID         `bun:"id,pk,type:uuid"`
	ProfessorID uuid.UUID         `bun:"professor_id,notnull,type:uuid"`
	StudentID   uuid.UUID         `bun:"student_id,notnull,type:uuid"`
	SlotAt      time.Time         `bun:"slot_at,notnull"`
	Status      ReservationStatus `bun:"status,notnull"`
	CreatedAt   time.Time         `bun:"created_at,notnull"`
	UpdatedAt   time.Time         `bun:"updated_at,notnull"`
}

func (r *Reservation) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if r.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			r.ID = id
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = now
		}
		if r.UpdatedAt.IsZero() {
			r.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		r.UpdatedAt = now
	}
	return nil
}
