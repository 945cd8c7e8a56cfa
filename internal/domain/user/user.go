package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleHR    = "hr"
	RoleAdmin = "admin"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // only set for the seeded admin
	Name         string    `json:"name,omitempty"`
	Role         string    `json:"role"`
	Verified     bool      `json:"verify"`
	Fired        bool      `json:"fired"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

var ErrNotFound = errors.New("user not found")

type CreateUserRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"omitempty,max=120"`
	Role  string `json:"role" binding:"omitempty,oneof=user hr admin"`
}

// A factory to build a User from the incoming DTO

func NewFromCreateRequest(req CreateUserRequest) User {
	now := time.Now().UTC()

	role := req.Role

	if role == "" {
		role = RoleUser
	}

	return User{
		ID:        uuid.NewString(),
		Email:     req.Email,
		Name:      req.Name,
		Role:      role,
		Verified:  false,
		Fired:     false,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
