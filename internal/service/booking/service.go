package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"officehours/backend/internal/domain"
	"officehours/backend/internal/store"
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

// Service coordinates bookings between the availability store and the
// reservation ledger. Conflict decisions run inside the repository's
// per-professor transactions; this layer validates input, resolves parties
// and enriches results for the transport layer.
type Service struct {
	repo      store.ScheduleRepository
	directory store.Directory
}

func NewService(repo store.ScheduleRepository, directory store.Directory) *Service {
	return &Service{repo: repo, directory: directory}
}

// ReservationDetails is a reservation enriched with party display attributes.
type ReservationDetails struct {
	Reservation    domain.Reservation
	ProfessorName  string
	ProfessorEmail string
	StudentName    string
	StudentEmail   string
}

// ProfessorAvailability groups a professor's free windows for the
// all-professors view.
type ProfessorAvailability struct {
	Professor domain.Professor
	Windows   []domain.AvailabilityWindow
}

func (s *Service) PublishAvailability(ctx context.Context, professorID uuid.UUID, start, end time.Time) (domain.AvailabilityWindow, error) {
	if professorID == uuid.Nil {
		return domain.AvailabilityWindow{}, validationError("professor_id is required")
	}
	if start.IsZero() || end.IsZero() {
		return domain.AvailabilityWindow{}, validationError("start and end are required")
	}

	startUTC := start.UTC()
	endUTC := end.UTC()
	if !startUTC.Before(endUTC) {
		return domain.AvailabilityWindow{}, store.ErrInvalidRange
	}
	if startUTC.Before(time.Now().UTC()) {
		return domain.AvailabilityWindow{}, store.ErrInPast
	}

	return s.repo.PublishWindow(ctx, domain.AvailabilityWindow{
		ProfessorID: professorID,
		StartTime:   startUTC,
		EndTime:     endUTC,
	})
}

func (s *Service) RemoveAvailability(ctx context.Context, professorID, windowID uuid.UUID) error {
	if professorID == uuid.Nil {
		return validationError("professor_id is required")
	}
	if windowID == uuid.Nil {
		return validationError("window_id is required")
	}
	return s.repo.RemoveWindow(ctx, professorID, windowID)
}

func (s *Service) Book(ctx context.Context, professorID, studentID uuid.UUID, at time.Time) (ReservationDetails, error) {
	if professorID == uuid.Nil {
		return ReservationDetails{}, validationError("professor_id is required")
	}
	if studentID == uuid.Nil {
		return ReservationDetails{}, validationError("student_id is required")
	}
	if at.IsZero() {
		return ReservationDetails{}, validationError("slot time is required")
	}

	professor, err := s.directory.FindProfessor(ctx, professorID)
	if err != nil {
		return ReservationDetails{}, err
	}
	if professor == nil {
		return ReservationDetails{}, store.ErrNotFound
	}

	res, err := s.repo.Book(ctx, professorID, studentID, at.UTC())
	if err != nil {
		return ReservationDetails{}, err
	}

	return s.enrich(ctx, res, professor)
}

func (s *Service) Cancel(ctx context.Context, reservationID, professorID uuid.UUID) (ReservationDetails, error) {
	if reservationID == uuid.Nil {
		return ReservationDetails{}, validationError("reservation_id is required")
	}
	if professorID == uuid.Nil {
		return ReservationDetails{}, validationError("professor_id is required")
	}

	res, err := s.repo.Cancel(ctx, reservationID, professorID)
	if err != nil {
		return ReservationDetails{}, err
	}

	return s.enrich(ctx, res, nil)
}

func (s *Service) ProfessorAvailability(ctx context.Context, professorID uuid.UUID, from time.Time) (ProfessorAvailability, error) {
	if professorID == uuid.Nil {
		return ProfessorAvailability{}, validationError("professor_id is required")
	}

	professor, err := s.directory.FindProfessor(ctx, professorID)
	if err != nil {
		return ProfessorAvailability{}, err
	}
	if professor == nil {
		return ProfessorAvailability{}, store.ErrNotFound
	}

	windows, err := s.repo.ListFreeWindows(ctx, professorID, fromOrNow(from))
	if err != nil {
		return ProfessorAvailability{}, err
	}

	return ProfessorAvailability{Professor: *professor, Windows: windows}, nil
}

// AllProfessorsAvailability builds the cross-professor view from one range
// query over free windows instead of a per-professor scan.
func (s *Service) AllProfessorsAvailability(ctx context.Context, from time.Time) ([]ProfessorAvailability, error) {
	professors, err := s.directory.ListProfessors(ctx)
	if err != nil {
		return nil, err
	}

	windows, err := s.repo.ListAllFreeWindows(ctx, fromOrNow(from))
	if err != nil {
		return nil, err
	}

	byProfessor := make(map[uuid.UUID][]domain.AvailabilityWindow, len(professors))
	for _, w := range windows {
		byProfessor[w.ProfessorID] = append(byProfessor[w.ProfessorID], w)
	}

	out := make([]ProfessorAvailability, 0, len(professors))
	for _, p := range professors {
		windows := byProfessor[p.ID]
		if windows == nil {
			windows = []domain.AvailabilityWindow{}
		}
		out = append(out, ProfessorAvailability{Professor: p, Windows: windows})
	}
	return out, nil
}

func (s *Service) MyAvailability(ctx context.Context, professorID uuid.UUID, from time.Time) ([]domain.AvailabilityWindow, error) {
	if professorID == uuid.Nil {
		return nil, validationError("professor_id is required")
	}
	return s.repo.ListProfessorWindows(ctx, professorID, fromOrNow(from))
}

func (s *Service) StudentReservations(ctx context.Context, studentID uuid.UUID) ([]domain.Reservation, error) {
	if studentID == uuid.Nil {
		return nil, validationError("student_id is required")
	}
	return s.repo.ListActiveByStudent(ctx, studentID)
}

func (s *Service) ProfessorReservations(ctx context.Context, professorID uuid.UUID) ([]domain.Reservation, error) {
	if professorID == uuid.Nil {
		return nil, validationError("professor_id is required")
	}
	return s.repo.ListActiveByProfessor(ctx, professorID)
}

func (s *Service) enrich(ctx context.Context, res domain.Reservation, professor *domain.Professor) (ReservationDetails, error) {
	details := ReservationDetails{Reservation: res}

	if professor == nil {
		p, err := s.directory.FindProfessor(ctx, res.ProfessorID)
		if err != nil {
			return ReservationDetails{}, err
		}
		professor = p
	}
	if professor != nil {
		details.ProfessorName = professor.Name
		details.ProfessorEmail = professor.Email
	}

	student, err := s.directory.FindStudent(ctx, res.StudentID)
	if err != nil {
		return ReservationDetails{}, err
	}
	if student != nil {
		details.StudentName = student.Name
		details.StudentEmail = student.Email
	}

	return details, nil
}

func fromOrNow(from time.Time) time.Time {
	if from.IsZero() {
		return time.Now().UTC()
	}
	return from.UTC()
}
