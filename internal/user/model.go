package user

import (
	"errors"
	"time"
)

type Role string

const (
	RoleFreelancer Role = "FREELANCER"
	RoleClient     Role = "CLIENT"
	RoleAdmin      Role = "ADMIN"
)

var (
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidEmail       = errors.New("email is invalid")
	ErrInvalidRole        = errors.New("role must be FREELANCER or CLIENT")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

type User struct {
	ID        uint
	Email     string
	Password  string
	Role      Role
	CreatedAt time.Time
}

// ParseRole accepts the self-service roles; admins are provisioned directly
// in the database.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleFreelancer, RoleClient:
		return r, nil
	case "":
		return RoleFreelancer, nil
	}
	return "", ErrInvalidRole
}
