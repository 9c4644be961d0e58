package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"officehours/backend/internal/domain"
	"officehours/backend/internal/store"
)

type fakeScheduleTx struct {
	insertWindowFn          func(ctx context.Context, w domain.AvailabilityWindow) (domain.AvailabilityWindow, error)
	listNeighborWindowsFn   func(ctx context.Context, professorID uuid.UUID, start, end time.Time) ([]domain.AvailabilityWindow, error)
	findCoveringFreeFn      func(ctx context.Context, professorID uuid.UUID, at time.Time) (*domain.AvailabilityWindow, error)
	findCoveringOccupiedFn  func(ctx context.Context, professorID uuid.UUID, at time.Time) (*domain.AvailabilityWindow, error)
	setWindowOccupiedFn     func(ctx context.Context, windowID uuid.UUID, occupied bool) error
	deleteFreeWindowFn      func(ctx context.Context, professorID, windowID uuid.UUID) error
	insertReservationFn     func(ctx context.Context, r domain.Reservation) (domain.Reservation, error)
	hasActiveReservationFn  func(ctx context.Context, studentID uuid.UUID, at time.Time) (bool, error)
	findActiveReservationFn func(ctx context.Context, reservationID, professorID uuid.UUID) (*domain.Reservation, error)
	cancelReservationFn     func(ctx context.Context, reservationID uuid.UUID) error
}

func (f *fakeScheduleTx) InsertWindow(ctx context.Context, w domain.AvailabilityWindow) (domain.AvailabilityWindow, error) {
	if f.insertWindowFn == nil {
		panic("InsertWindow not configured")
	}
	return f.insertWindowFn(ctx, w)
}

func (f *fakeScheduleTx) ListNeighborWindows(ctx context.Context, professorID uuid.UUID, start, end time.Time) ([]domain.AvailabilityWindow, error) {
	if f.listNeighborWindowsFn == nil {
		return nil, nil
	}
	return f.listNeighborWindowsFn(ctx, professorID, start, end)
}

func (f *fakeScheduleTx) FindCoveringFreeWindow(ctx context.Context, professorID uuid.UUID, at time.Time) (*domain.AvailabilityWindow, error) {
	if f.findCoveringFreeFn == nil {
		return nil, nil
	}
	return f.findCoveringFreeFn(ctx, professorID, at)
}

func (f *fakeScheduleTx) FindCoveringOccupiedWindow(ctx context.Context, professorID uuid.UUID, at time.Time) (*domain.AvailabilityWindow, error) {
	if f.findCoveringOccupiedFn == nil {
		return nil, nil
	}
	return f.findCoveringOccupiedFn(ctx, professorID, at)
}

func (f *fakeScheduleTx) SetWindowOccupied(ctx context.Context, windowID uuid.UUID, occupied bool) error {
	if f.setWindowOccupiedFn == nil {
		return nil
	}
	return f.setWindowOccupiedFn(ctx, windowID, occupied)
}

func (f *fakeScheduleTx) DeleteFreeWindow(ctx context.Context, professorID, windowID uuid.UUID) error {
	if f.deleteFreeWindowFn == nil {
		panic("DeleteFreeWindow not configured")
	}
	return f.deleteFreeWindowFn(ctx, professorID, windowID)
}

func (f *fakeScheduleTx) InsertReservation(ctx context.Context, r domain.Reservation) (domain.Reservation, error) {
	if f.insertReservationFn == nil {
		panic("InsertReservation not configured")
	}
	return f.insertReservationFn(ctx, r)
}

func (f *fakeScheduleTx) HasActiveReservationAt(ctx context.Context, studentID uuid.UUID, at time.Time) (bool, error) {
	if f.hasActiveReservationFn == nil {
		return false, nil
	}
	return f.hasActiveReservationFn(ctx, studentID, at)
}

func (f *fakeScheduleTx) FindActiveReservation(ctx context.Context, reservationID, professorID uuid.UUID) (*domain.Reservation, error) {
	if f.findActiveReservationFn == nil {
		return nil, nil
	}
	return f.findActiveReservationFn(ctx, reservationID, professorID)
}

func (f *fakeScheduleTx) CancelReservation(ctx context.Context, reservationID uuid.UUID) error {
	if f.cancelReservationFn == nil {
		return nil
	}
	return f.cancelReservationFn(ctx, reservationID)
}

var _ store.ScheduleTx = (*fakeScheduleTx)(nil)

func TestPublishWindowTx(t *testing.T) {
	professorID := uuid.MustParse("00000000-0000-0000-0000-000000000011")
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	t.Run("overlapping neighbor rejected", func(t *testing.T) {
		tx := &fakeScheduleTx{
			listNeighborWindowsFn: func(ctx context.Context, pid uuid.UUID, s, e time.Time) ([]domain.AvailabilityWindow, error) {
				return []domain.AvailabilityWindow{
					{ProfessorID: pid, StartTime: start.Add(30 * time.Minute), EndTime: end.Add(30 * time.Minute)},
				}, nil
			},
			insertWindowFn: func(ctx context.Context, w domain.AvailabilityWindow) (domain.AvailabilityWindow, error) {
				t.Fatalf("InsertWindow must not be called on overlap")
				return w, nil
			},
		}

		_, err := publishWindowTx(context.Background(), tx, domain.AvailabilityWindow{
			ProfessorID: professorID, StartTime: start, EndTime: end,
		})
		if !errors.Is(err, store.ErrOverlap) {
			t.Fatalf("err = %v, want %v", err, store.ErrOverlap)
		}
	})

	t.Run("occupied neighbor still blocks publish", func(t *testing.T) {
		tx := &fakeScheduleTx{
			listNeighborWindowsFn: func(ctx context.Context, pid uuid.UUID, s, e time.Time) ([]domain.AvailabilityWindow, error) {
				return []domain.AvailabilityWindow{
					{ProfessorID: pid, StartTime: start, EndTime: end, Occupied: true},
				}, nil
			},
		}

		_, err := publishWindowTx(context.Background(), tx, domain.AvailabilityWindow{
			ProfessorID: professorID, StartTime: start, EndTime: end,
		})
		if !errors.Is(err, store.ErrOverlap) {
			t.Fatalf("err = %v, want %v", err, store.ErrOverlap)
		}
	})

	t.Run("touching neighbor allowed", func(t *testing.T) {
		var inserted *domain.AvailabilityWindow
		tx := &fakeScheduleTx{
			listNeighborWindowsFn: func(ctx context.Context, pid uuid.UUID, s, e time.Time) ([]domain.AvailabilityWindow, error) {
				// inclusive fetch returns the adjacent window; the strict
				// predicate must let it through
				return []domain.AvailabilityWindow{
					{ProfessorID: pid, StartTime: end, EndTime: end.Add(time.Hour)},
				}, nil
			},
			insertWindowFn: func(ctx context.Context, w domain.AvailabilityWindow) (domain.AvailabilityWindow, error) {
				inserted = &w
				return w, nil
			},
		}

		_, err := publishWindowTx(context.Background(), tx, domain.AvailabilityWindow{
			ProfessorID: professorID, StartTime: start, EndTime: end,
		})
		if err != nil {
			t.Fatalf("err = %v, want nil", err)
		}
		if inserted == nil {
			t.Fatalf("expected InsertWindow call")
		}
	})
}

func TestBookSlotTx(t *testing.T) {
	professorID := uuid.MustParse("00000000-0000-0000-0000-000000000011")
	studentID := uuid.MustParse("00000000-0000-0000-0000-000000000022")
	windowID := uuid.MustParse("00000000-0000-0000-0000-000000000033")
	at := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)

	freeWindow := &domain.AvailabilityWindow{
		ID:          windowID,
		ProfessorID: professorID,
		StartTime:   at.Add(-30 * time.Minute),
		EndTime:     at.Add(30 * time.Minute),
	}

	t.Run("no covering window", func(t *testing.T) {
		tx := &fakeScheduleTx{
			insertReservationFn: func(ctx context.Context, r domain.Reservation) (domain.Reservation, error) {
				t.Fatalf("InsertReservation must not be called")
				return r, nil
			},
		}

		_, err := bookSlotTx(context.Background(), tx, professorID, studentID, at)
		if !errors.Is(err, store.ErrSlotUnavailable) {
			t.Fatalf("err = %v, want %v", err, store.ErrSlotUnavailable)
		}
	})

	t.Run("student already booked at instant", func(t *testing.T) {
		tx := &fakeScheduleTx{
			findCoveringFreeFn: func(ctx context.Context, pid uuid.UUID, a time.Time) (*domain.AvailabilityWindow, error) {
				return freeWindow, nil
			},
			hasActiveReservationFn: func(ctx context.Context, sid uuid.UUID, a time.Time) (bool, error) {
				return true, nil
			},
			insertReservationFn: func(ctx context.Context, r domain.Reservation) (domain.Reservation, error) {
				t.Fatalf("InsertReservation must not be called")
				return r, nil
			},
		}

		_, err := bookSlotTx(context.Background(), tx, professorID, studentID, at)
		if !errors.Is(err, store.ErrDoubleBooking) {
			t.Fatalf("err = %v, want %v", err, store.ErrDoubleBooking)
		}
	})

	t.Run("success inserts reservation then occupies window", func(t *testing.T) {
		var gotReservation domain.Reservation
		var occupiedID uuid.UUID
		var occupied bool

		tx := &fakeScheduleTx{
			findCoveringFreeFn: func(ctx context.Context, pid uuid.UUID, a time.Time) (*domain.AvailabilityWindow, error) {
				return freeWindow, nil
			},
			insertReservationFn: func(ctx context.Context, r domain.Reservation) (domain.Reservation, error) {
				gotReservation = r
				return r, nil
			},
			setWindowOccupiedFn: func(ctx context.Context, wid uuid.UUID, occ bool) error {
				occupiedID = wid
				occupied = occ
				return nil
			},
		}

		res, err := bookSlotTx(context.Background(), tx, professorID, studentID, at)
		if err != nil {
			t.Fatalf("err = %v, want nil", err)
		}
		if res.Status != domain.ReservationActive {
			t.Fatalf("status = %q, want %q", res.Status, domain.ReservationActive)
		}
		if gotReservation.ProfessorID != professorID || gotReservation.StudentID != studentID {
			t.Fatalf("reservation parties = (%s, %s), want (%s, %s)",
				gotReservation.ProfessorID, gotReservation.StudentID, professorID, studentID)
		}
		if !gotReservation.SlotAt.Equal(at) {
			t.Fatalf("slot_at = %v, want %v", gotReservation.SlotAt, at)
		}
		if occupiedID != windowID || !occupied {
			t.Fatalf("SetWindowOccupied(%s, %v), want (%s, true)", occupiedID, occupied, windowID)
		}
	})

	t.Run("window end boundary is bookable", func(t *testing.T) {
		tx := &fakeScheduleTx{
			findCoveringFreeFn: func(ctx context.Context, pid uuid.UUID, a time.Time) (*domain.AvailabilityWindow, error) {
				return freeWindow, nil
			},
			insertReservationFn: func(ctx context.Context, r domain.Reservation) (domain.Reservation, error) {
				return r, nil
			},
		}

		_, err := bookSlotTx(context.Background(), tx, professorID, studentID, freeWindow.EndTime)
		if err != nil {
			t.Fatalf("err = %v, want nil", err)
		}
	})
}

func TestCancelReservationTx(t *testing.T) {
	professorID := uuid.MustParse("00000000-0000-0000-0000-000000000011")
	reservationID := uuid.MustParse("00000000-0000-0000-0000-000000000044")
	windowID := uuid.MustParse("00000000-0000-0000-0000-000000000033")
	at := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)

	active := &domain.Reservation{
		ID:          reservationID,
		ProfessorID: professorID,
		StudentID:   uuid.MustParse("00000000-0000-0000-0000-000000000022"),
		SlotAt:      at,
		Status:      domain.ReservationActive,
	}

	t.Run("unknown reservation", func(t *testing.T) {
		tx := &fakeScheduleTx{}

		_, err := cancelReservationTx(context.Background(), tx, reservationID, professorID)
		if !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("err = %v, want %v", err, store.ErrNotFound)
		}
	})

	t.Run("missing backing window is surfaced", func(t *testing.T) {
		tx := &fakeScheduleTx{
			findActiveReservationFn: func(ctx context.Context, rid, pid uuid.UUID) (*domain.Reservation, error) {
				r := *active
				return &r, nil
			},
		}

		_, err := cancelReservationTx(context.Background(), tx, reservationID, professorID)
		if !errors.Is(err, store.ErrInconsistentState) {
			t.Fatalf("err = %v, want %v", err, store.ErrInconsistentState)
		}
	})

	t.Run("success cancels and frees the covering window", func(t *testing.T) {
		var cancelledID uuid.UUID
		var freedID uuid.UUID
		var freedTo bool = true

		tx := &fakeScheduleTx{
			findActiveReservationFn: func(ctx context.Context, rid, pid uuid.UUID) (*domain.Reservation, error) {
				r := *active
				return &r, nil
			},
			cancelReservationFn: func(ctx context.Context, rid uuid.UUID) error {
				cancelledID = rid
				return nil
			},
			findCoveringOccupiedFn: func(ctx context.Context, pid uuid.UUID, a time.Time) (*domain.AvailabilityWindow, error) {
				if !a.Equal(at) {
					t.Fatalf("containment query at %v, want %v", a, at)
				}
				return &domain.AvailabilityWindow{ID: windowID, ProfessorID: pid, Occupied: true}, nil
			},
			setWindowOccupiedFn: func(ctx context.Context, wid uuid.UUID, occ bool) error {
				freedID = wid
				freedTo = occ
				return nil
			},
		}

		res, err := cancelReservationTx(context.Background(), tx, reservationID, professorID)
		if err != nil {
			t.Fatalf("err = %v, want nil", err)
		}
		if res.Status != domain.ReservationCancelled {
			t.Fatalf("status = %q, want %q", res.Status, domain.ReservationCancelled)
		}
		if cancelledID != reservationID {
			t.Fatalf("cancelled id = %s, want %s", cancelledID, reservationID)
		}
		if freedID != windowID || freedTo {
			t.Fatalf("SetWindowOccupied(%s, %v), want (%s, false)", freedID, freedTo, windowID)
		}
	})
}
