package user

import "time"

// User is a registered wallet owner.
type User struct {
	ID           int64
	Email        string
	FullName     string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Credentials carry a signup or login request.
type Credentials struct {
	Email    string
	FullName string
	Password string
}
