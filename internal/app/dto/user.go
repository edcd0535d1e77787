package dto

import (
	"time"

	domainauth "freeshare/internal/domain/auth"
	domainuser "freeshare/internal/domain/user"
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewUser(u *domainuser.User) User {
	return User{
		ID:        string(u.ID),
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

type AuthResponse struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt,omitzero"`
}

func NewAuthResponse(u *domainuser.User, session domainauth.Session) AuthResponse {
	return AuthResponse{
		User:      NewUser(u),
		Token:     string(session.Token),
		ExpiresAt: session.ExpiresAt,
	}
}
