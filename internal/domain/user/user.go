package user

import (
	"context"
	"strings"
	"time"

	"freeshare/internal/domain/shared/fault"
)

type ID string

type User struct {
	ID           ID
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*User, error)
	ByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, u *User) error
}

type CreateParams struct {
	ID           ID
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

func New(params CreateParams) (*User, error) {
	email := strings.TrimSpace(strings.ToLower(params.Email))
	if email == "" {
		return nil, fault.New(fault.KindValidation, "user: email is required")
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, fault.New(fault.KindValidation, "user: name is required")
	}
	if params.PasswordHash == "" {
		return nil, fault.New(fault.KindValidation, "user: password hash is required")
	}
	now := params.CreatedAt.UTC()
	return &User{
		ID:           params.ID,
		Email:        email,
		Name:         name,
		PasswordHash: params.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
