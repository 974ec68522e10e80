package auth

import "github.com/rejoiceevents/decor-backend/internal/users"

// RegisterRequest is the validated signup payload.
type RegisterRequest struct {
	Email    string
	Password string
	Name     string
	Phone    *string
}

// LoginRequest is the validated credential payload.
type LoginRequest struct {
	Email    string
	Password string
}

// AuthResponse carries the minted token plus the account it belongs to.
type AuthResponse struct {
	AccessToken string         `json:"accessToken"`
	User        *users.UserDTO `json:"user"`
}
