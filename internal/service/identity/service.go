package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"officehours/backend/internal/domain"
	"officehours/backend/internal/store"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

type tokenIssuer interface {
	GenerateToken(partyID uuid.UUID, role domain.Role) (string, error)
}

// Service handles registration and login for both party kinds. Professors
// and students live in separate tables, mirrored by the role carried in
// every issued token.
type Service struct {
	directory store.Directory
	tokens    tokenIssuer
}

func NewService(directory store.Directory, tokens tokenIssuer) *Service {
	return &Service{directory: directory, tokens: tokens}
}

// Identity is the role-agnostic view of a professor or student.
type Identity struct {
	ID    uuid.UUID
	Name  string
	Email string
	Role  domain.Role
}

type AuthResult struct {
	Identity Identity
	Token    string
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	if len(name) < 2 {
		return AuthResult{}, validationError("name must be at least 2 characters")
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return AuthResult{}, err
	}
	if len(in.Password) < 6 {
		return AuthResult{}, validationError("password must be at least 6 characters")
	}
	if in.Role != domain.RoleProfessor && in.Role != domain.RoleStudent {
		return AuthResult{}, validationError("role must be student or professor")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResult{}, err
	}

	var identity Identity
	switch in.Role {
	case domain.RoleProfessor:
		p, err := s.directory.CreateProfessor(ctx, domain.Professor{
			Name:         name,
			Email:        email,
			PasswordHash: string(hash),
		})
		if err != nil {
			return AuthResult{}, err
		}
		identity = Identity{ID: p.ID, Name: p.Name, Email: p.Email, Role: domain.RoleProfessor}
	case domain.RoleStudent:
		st, err := s.directory.CreateStudent(ctx, domain.Student{
			Name:         name,
			Email:        email,
			PasswordHash: string(hash),
		})
		if err != nil {
			return AuthResult{}, err
		}
		identity = Identity{ID: st.ID, Name: st.Name, Email: st.Email, Role: domain.RoleStudent}
	}

	token, err := s.tokens.GenerateToken(identity.ID, identity.Role)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Identity: identity, Token: token}, nil
}

func (s *Service) Login(ctx context.Context, email, password string, role domain.Role) (AuthResult, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return AuthResult{}, err
	}
	if password == "" {
		return AuthResult{}, validationError("password is required")
	}
	if role != domain.RoleProfessor && role != domain.RoleStudent {
		return AuthResult{}, validationError("role must be student or professor")
	}

	var identity Identity
	var passwordHash string
	switch role {
	case domain.RoleProfessor:
		p, err := s.directory.FindProfessorByEmail(ctx, normalized)
		if err != nil {
			return AuthResult{}, err
		}
		if p == nil {
			return AuthResult{}, ErrInvalidCredentials
		}
		identity = Identity{ID: p.ID, Name: p.Name, Email: p.Email, Role: domain.RoleProfessor}
		passwordHash = p.PasswordHash
	case domain.RoleStudent:
		st, err := s.directory.FindStudentByEmail(ctx, normalized)
		if err != nil {
			return AuthResult{}, err
		}
		if st == nil {
			return AuthResult{}, ErrInvalidCredentials
		}
		identity = Identity{ID: st.ID, Name: st.Name, Email: st.Email, Role: domain.RoleStudent}
		passwordHash = st.PasswordHash
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(identity.ID, identity.Role)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Identity: identity, Token: token}, nil
}

func (s *Service) Profile(ctx context.Context, id uuid.UUID, role domain.Role) (Identity, error) {
	switch role {
	case domain.RoleProfessor:
		p, err := s.directory.FindProfessor(ctx, id)
		if err != nil {
			return Identity{}, err
		}
		if p == nil {
			return Identity{}, store.ErrNotFound
		}
		return Identity{ID: p.ID, Name: p.Name, Email: p.Email, Role: domain.RoleProfessor}, nil
	case domain.RoleStudent:
		st, err := s.directory.FindStudent(ctx, id)
		if err != nil {
			return Identity{}, err
		}
		if st == nil {
			return Identity{}, store.ErrNotFound
		}
		return Identity{ID: st.ID, Name: st.Name, Email: st.Email, Role: domain.RoleStudent}, nil
	default:
		return Identity{}, validationError("role must be student or professor")
	}
}

func normalizeEmail(email string) (string, error) {
	e := strings.ToLower(strings.TrimSpace(email))
	if e == "" || !strings.Contains(e, "@") {
		return "", validationError("a valid email is required")
	}
	return e, nil
}
