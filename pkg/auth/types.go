package auth

import (
	"time"

	"github.com/google/uuid"
)

// MethodPassword identifies accounts created with an email and password.
const MethodPassword = "password"

// User is the public view of an account. The password hash is never part of it.
type User struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name,omitempty"`
	AuthMethod string    `json:"auth_method"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateUserInput is the raw input of UserService.CreateUser.
type CreateUserInput struct {
	Email    string
	Password string
	Name     string
}

// ListParams paginates UserService.ListUsers. A zero Limit selects DefaultListLimit.
type ListParams struct {
	Limit  int
	Offset int
}

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
	MaxNameLength    = 100
)

// UserList is one page of users, newest first.
type UserList struct {
	Users  []User `json:"users"`
	Total  int64  `json:"total"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}
