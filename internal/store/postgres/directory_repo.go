package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"officehours/backend/internal/domain"
	"officehours/backend/internal/store"
)

type DirectoryRepo struct {
	db *bun.DB
}

func NewDirectoryRepo(db *bun.DB) *DirectoryRepo {
	return &DirectoryRepo{db: db}
}

func (r *DirectoryRepo) CreateProfessor(ctx context.Context, p domain.Professor) (domain.Professor, error) {
	m := domain.Professor{
		ID:           p.ID,
		Name:         p.Name,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
	}
	if _, err := r.db.NewInsert().Model(&m).Exec(ctx); err != nil {
		return domain.Professor{}, mapUniqueEmail(err)
	}
	return m, nil
}

func (r *DirectoryRepo) CreateStudent(ctx context.Context, s domain.Student) (domain.Student, error) {
	m := domain.Student{
		ID:           s.ID,
		Name:         s.Name,
		Email:        s.Email,
		PasswordHash: s.PasswordHash,
	}
	if _, err := r.db.NewInsert().Model(&m).Exec(ctx); err != nil {
		return domain.Student{}, mapUniqueEmail(err)
	}
	return m, nil
}

func (r *DirectoryRepo) FindProfessor(ctx context.Context, id uuid.UUID) (*domain.Professor, error) {
	var p domain.Professor
	err := r.db.NewSelect().Model(&p).Where("id = ?", id).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *DirectoryRepo) FindStudent(ctx context.Context, id uuid.UUID) (*domain.Student, error) {
	var s domain.Student
	err := r.db.NewSelect().Model(&s).Where("id = ?", id).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *DirectoryRepo) FindProfessorByEmail(ctx context.Context, email string) (*domain.Professor, error) {
	var p domain.Professor
	err := r.db.NewSelect().Model(&p).Where("email = ?", email).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *DirectoryRepo) FindStudentByEmail(ctx context.Context, email string) (*domain.Student, error) {
	var s domain.Student
	err := r.db.NewSelect().Model(&s).Where("email = ?", email).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *DirectoryRepo) ListProfessors(ctx context.Context) ([]domain.Professor, error) {
	var rows []domain.Professor
	err := r.db.NewSelect().
		Model(&rows).
		OrderExpr("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func mapUniqueEmail(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return store.ErrEmailTaken
	}
	return err
}

var _ store.Directory = (*DirectoryRepo)(nil)
