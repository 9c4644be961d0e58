package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"officehours/backend/internal/domain"
	"officehours/backend/internal/store"
)

type ScheduleRepo struct {
	db *bun.DB
}

func NewScheduleRepo(db *bun.DB) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

type scheduleTx struct {
	tx bun.Tx
}

func (r *ScheduleRepo) PublishWindow(ctx context.Context, w domain.AvailabilityWindow) (domain.AvailabilityWindow, error) {
	var out domain.AvailabilityWindow
	err := r.InProfessorTransaction(ctx, w.ProfessorID, func(ctx context.Context, tx store.ScheduleTx) error {
		published, err := publishWindowTx(ctx, tx, w)
		if err != nil {
			return err
		}
		out = published
		return nil
	})
	if err != nil {
		return domain.AvailabilityWindow{}, err
	}
	return out, nil
}

func (r *ScheduleRepo) RemoveWindow(ctx context.Context, professorID, windowID uuid.UUID) error {
	return r.InProfessorTransaction(ctx, professorID, func(ctx context.Context, tx store.ScheduleTx) error {
		return tx.DeleteFreeWindow(ctx, professorID, windowID)
	})
}

func (r *ScheduleRepo) Book(ctx context.Context, professorID, studentID uuid.UUID, at time.Time) (domain.Reservation, error) {
	var out domain.Reservation
	err := r.InProfessorTransaction(ctx, professorID, func(ctx context.Context, tx store.ScheduleTx) error {
		res, err := bookSlotTx(ctx, tx, professorID, studentID, at)
		if err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		return domain.Reservation{}, err
	}
	return out, nil
}

func (r *ScheduleRepo) Cancel(ctx context.Context, reservationID, professorID uuid.UUID) (domain.Reservation, error) {
	var out domain.Reservation
	err := r.InProfessorTransaction(ctx, professorID, func(ctx context.Context, tx store.ScheduleTx) error {
		res, err := cancelReservationTx(ctx, tx, reservationID, professorID)
		if err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		return domain.Reservation{}, err
	}
	return out, nil
}

func (r *ScheduleRepo) ListFreeWindows(ctx context.Context, professorID uuid.UUID, from time.Time) ([]domain.AvailabilityWindow, error) {
	var rows []domain.AvailabilityWindow
	err := r.db.NewSelect().
		Model(&rows).
		Where("professor_id = ?", professorID).
		Where("occupied = ?", false).
		Where("start_time >= ?", from).
		OrderExpr("start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ScheduleRepo) ListProfessorWindows(ctx context.Context, professorID uuid.UUID, from time.Time) ([]domain.AvailabilityWindow, error) {
	var rows []domain.AvailabilityWindow
	err := r.db.NewSelect().
		Model(&rows).
		Where("professor_id = ?", professorID).
		Where("start_time >= ?", from).
		OrderExpr("start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAllFreeWindows feeds the all-professors availability view with a single
// indexed range query instead of one query per professor.
func (r *ScheduleRepo) ListAllFreeWindows(ctx context.Context, from time.Time) ([]domain.AvailabilityWindow, error) {
	var rows []domain.AvailabilityWindow
	err := r.db.NewSelect().
		Model(&rows).
		Where("occupied = ?", false).
		Where("start_time >= ?", from).
		OrderExpr("professor_id ASC, start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ScheduleRepo) ListActiveByStudent(ctx context.Context, studentID uuid.UUID) ([]domain.Reservation, error) {
	var rows []domain.Reservation
	err := r.db.NewSelect().
		Model(&rows).
		Where("student_id = ?", studentID).
		Where("status = ?", domain.ReservationActive).
		OrderExpr("slot_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ScheduleRepo) ListActiveByProfessor(ctx context.Context, professorID uuid.UUID) ([]domain.Reservation, error) {
	var rows []domain.Reservation
	err := r.db.NewSelect().
		Model(&rows).
		Where("professor_id = ?", professorID).
		Where("status = ?", domain.ReservationActive).
		OrderExpr("slot_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// InProfessorTransaction serializes all mutations of one professor's calendar
// behind an advisory lock, so the check-then-mutate sequences below behave as
// if they ran alone.
func (r *ScheduleRepo) InProfessorTransaction(ctx context.Context, professorID uuid.UUID, fn func(ctx context.Context, tx store.ScheduleTx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockProfessorCalendar(ctx, tx, professorID); err != nil {
			return err
		}
		return fn(ctx, scheduleTx{tx: tx})
	})
}

func lockProfessorCalendar(ctx context.Context, tx bun.Tx, professorID uuid.UUID) error {
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", professorID.String()).Exec(ctx)
	return err
}

// publishWindowTx decides overlap in Go with the strict predicate; the
// availability_no_overlap exclusion constraint remains as a backstop for
// anything that slips past the advisory lock.
func publishWindowTx(ctx context.Context, tx store.ScheduleTx, w domain.AvailabilityWindow) (domain.AvailabilityWindow, error) {
	neighbors, err := tx.ListNeighborWindows(ctx, w.ProfessorID, w.StartTime, w.EndTime)
	if err != nil {
		return domain.AvailabilityWindow{}, err
	}
	for _, n := range neighbors {
		if domain.WindowsOverlap(n, w) {
			return domain.AvailabilityWindow{}, store.ErrOverlap
		}
	}
	return tx.InsertWindow(ctx, w)
}

func bookSlotTx(ctx context.Context, tx store.ScheduleTx, professorID, studentID uuid.UUID, at time.Time) (domain.Reservation, error) {
	w, err := tx.FindCoveringFreeWindow(ctx, professorID, at)
	if err != nil {
		return domain.Reservation{}, err
	}
	if w == nil || !domain.WindowCovers(*w, at) {
		return domain.Reservation{}, store.ErrSlotUnavailable
	}

	taken, err := tx.HasActiveReservationAt(ctx, studentID, at)
	if err != nil {
		return domain.Reservation{}, err
	}
	if taken {
		return domain.Reservation{}, store.ErrDoubleBooking
	}

	res, err := tx.InsertReservation(ctx, domain.Reservation{
		ProfessorID: professorID,
		StudentID:   studentID,
		SlotAt:      at,
		Status:      domain.ReservationActive,
	})
	if err != nil {
		return domain.Reservation{}, err
	}

	if err := tx.SetWindowOccupied(ctx, w.ID, true); err != nil {
		return domain.Reservation{}, err
	}
	return res, nil
}

// cancelReservationTx re-derives the backing window by containment; the link
// is never persisted, so a missing window is a data-integrity violation that
// must surface rather than be swallowed.
func cancelReservationTx(ctx context.Context, tx store.ScheduleTx, reservationID, professorID uuid.UUID) (domain.Reservation, error) {
	res, err := tx.FindActiveReservation(ctx, reservationID, professorID)
	if err != nil {
		return domain.Reservation{}, err
	}
	if res == nil {
		return domain.Reservation{}, store.ErrNotFound
	}

	if err := tx.CancelReservation(ctx, res.ID); err != nil {
		return domain.Reservation{}, err
	}

	w, err := tx.FindCoveringOccupiedWindow(ctx, professorID, res.SlotAt)
	if err != nil {
		return domain.Reservation{}, err
	}
	if w == nil {
		return domain.Reservation{}, store.ErrInconsistentState
	}
	if err := tx.SetWindowOccupied(ctx, w.ID, false); err != nil {
		return domain.Reservation{}, err
	}

	res.Status = domain.ReservationCancelled
	return *res, nil
}

func (t scheduleTx) InsertWindow(ctx context.Context, w domain.AvailabilityWindow) (domain.AvailabilityWindow, error) {
	m := domain.AvailabilityWindow{
		ID:          w.ID,
		ProfessorID: w.ProfessorID,
		StartTime:   w.StartTime,
		EndTime:     w.EndTime,
		Occupied:    w.Occupied,
	}

	_, err := t.tx.NewInsert().Model(&m).Exec(ctx)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23P01" && pgErr.ConstraintName == "availability_no_overlap" {
				return domain.AvailabilityWindow{}, store.ErrOverlap
			}
		}
		return domain.AvailabilityWindow{}, err
	}
	return m, nil
}

// ListNeighborWindows fetches every window of the professor that touches
// [start, end] under inclusive bounds. The strict overlap decision is made by
// the caller; occupied windows are included on purpose, since a booked slot
// still blocks new availability over the same span.
func (t scheduleTx) ListNeighborWindows(ctx context.Context, professorID uuid.UUID, start, end time.Time) ([]domain.AvailabilityWindow, error) {
	var rows []domain.AvailabilityWindow
	err := t.tx.NewSelect().
		Model(&rows).
		Where("professor_id = ?", professorID).
		Where("start_time <= ?", end).
		Where("end_time >= ?", start).
		OrderExpr("start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (t scheduleTx) FindCoveringFreeWindow(ctx context.Context, professorID uuid.UUID, at time.Time) (*domain.AvailabilityWindow, error) {
	var w domain.AvailabilityWindow
	err := t.tx.NewSelect().
		Model(&w).
		Where("professor_id = ?", professorID).
		Where("occupied = ?", false).
		Where("start_time <= ?", at).
		Where("end_time >= ?", at).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (t scheduleTx) FindCoveringOccupiedWindow(ctx context.Context, professorID uuid.UUID, at time.Time) (*domain.AvailabilityWindow, error) {
	var w domain.AvailabilityWindow
	err := t.tx.NewSelect().
		Model(&w).
		Where("professor_id = ?", professorID).
		Where("occupied = ?", true).
		Where("start_time <= ?", at).
		Where("end_time >= ?", at).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (t scheduleTx) SetWindowOccupied(ctx context.Context, windowID uuid.UUID, occupied bool) error {
	res, err := t.tx.NewUpdate().
		Model((*domain.AvailabilityWindow)(nil)).
		Set("occupied = ?", occupied).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", windowID).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (t scheduleTx) DeleteFreeWindow(ctx context.Context, professorID, windowID uuid.UUID) error {
	var w domain.AvailabilityWindow
	err := t.tx.NewSelect().
		Model(&w).
		Where("id = ?", windowID).
		Where("professor_id = ?", professorID).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if err != nil {
		return err
	}
	if w.Occupied {
		return store.ErrWindowOccupied
	}

	_, err = t.tx.NewDelete().
		Model((*domain.AvailabilityWindow)(nil)).
		Where("id = ?", windowID).
		Where("professor_id = ?", professorID).
		Where("occupied = ?", false).
		Exec(ctx)
	return err
}

func (t scheduleTx) InsertReservation(ctx context.Context, r domain.Reservation) (domain.Reservation, error) {
	m := domain.Reservation{
		ID:          r.ID,
		ProfessorID: r.ProfessorID,
		StudentID:   r.StudentID,
		SlotAt:      r.SlotAt,
		Status:      r.Status,
	}

	_, err := t.tx.NewInsert().Model(&m).Exec(ctx)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			// Cross-professor double bookings bypass the per-professor lock
			// and land on the partial unique index instead.
			if pgErr.Code == "23505" && pgErr.ConstraintName == "reservations_one_active_per_slot" {
				return domain.Reservation{}, store.ErrDoubleBooking
			}
		}
		return domain.Reservation{}, err
	}
	return m, nil
}

func (t scheduleTx) HasActiveReservationAt(ctx context.Context, studentID uuid.UUID, at time.Time) (bool, error) {
	return t.tx.NewSelect().
		Model((*domain.Reservation)(nil)).
		Where("student_id = ?", studentID).
		Where("slot_at = ?", at).
		Where("status = ?", domain.ReservationActive).
		Exists(ctx)
}

func (t scheduleTx) FindActiveReservation(ctx context.Context, reservationID, professorID uuid.UUID) (*domain.Reservation, error) {
	var res domain.Reservation
	err := t.tx.NewSelect().
		Model(&res).
		Where("id = ?", reservationID).
		Where("professor_id = ?", professorID).
		Where("status = ?", domain.ReservationActive).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (t scheduleTx) CancelReservation(ctx context.Context, reservationID uuid.UUID) error {
	res, err := t.tx.NewUpdate().
		Model((*domain.Reservation)(nil)).
		Set("status = ?", domain.ReservationCancelled).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", reservationID).
		Where("status = ?", domain.ReservationActive).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
