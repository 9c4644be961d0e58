package store

import (
	"context"

	"github.com/google/uuid"

	"officehours/backend/internal/domain"
)

// Directory resolves professors and students. The scheduling core only ever
// reads from it; registration writes come from the identity service.
type Directory interface {
	CreateProfessor(ctx context.Context, p domain.Professor) (domain.Professor, error)
	CreateStudent(ctx context.Context, s domain.Student) (domain.Student, error)
	FindProfessor(ctx context.Context, id uuid.UUID) (*domain.Professor, error)
	FindStudent(ctx context.Context, id uuid.UUID) (*domain.Student, error)
	FindProfessorByEmail(ctx context.Context, email string) (*domain.Professor, error)
	FindStudentByEmail(ctx context.Context, email string) (*domain.Student, error)
	ListProfessors(ctx context.Context) ([]domain.Professor, error)
}
