package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type Repository interface {
	Create(ctx context.Context, email, passwordHash string, role Role) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, email, passwordHash string, role Role) (*User, error) {
	const q = `
	INSERT INTO users (email, password, role)
	VALUES ($1, $2, $3)
	RETURNING id, email, password, role, created_at;
	`

	var (
		u    User
		rstr string
	)
	err := r.db.QueryRowContext(ctx, q, email, passwordHash, string(role)).
		Scan(&u.ID, &u.Email, &u.Password, &rstr, &u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	u.Role = Role(rstr)
	return &u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	const q = `
	SELECT id, email, password, role, created_at
	FROM users
	WHERE email = $1;
	`

	var (
		u    User
		rstr string
	)
	err := r.db.QueryRowContext(ctx, q, email).Scan(&u.ID, &u.Email, &u.Password, &rstr, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	u.Role = Role(rstr)
	return &u, nil
}
