package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
)

// User is an account holder. The password hash never leaves the process.
type User struct {
	ID           string    `json:"_id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedOn    time.Time `json:"createdOn"`
}

// Profile is the public subset returned alongside an access token.
type Profile struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

func (u *User) Profile() Profile {
	return Profile{FullName: u.FullName, Email: u.Email}
}
