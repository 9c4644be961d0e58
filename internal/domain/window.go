package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AvailabilityWindow is a professor-published interval during which a single
// reservation may be placed. Occupied flips true while an active reservation
// claims the window and back to false when that reservation is cancelled.
type AvailabilityWindow struct {
	bun.BaseModel `bun:"table:availability_windows"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	ProfessorID uuid.UUID `bun:"professor_id,notnull,type:uuid"`
	StartTime   time.Time `bun:"start_time,notnull"`
	EndTime     time.Time `bun:"end_time,notnull"`
	Occupied    bool      `bun:"occupied,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}

func (w *AvailabilityWindow) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if w.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			w.ID = id
		}
		if w.CreatedAt.IsZero() {
			w.CreatedAt = now
		}
		if w.UpdatedAt.IsZero() {
			w.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		w.UpdatedAt = now
	}
	return nil
}
