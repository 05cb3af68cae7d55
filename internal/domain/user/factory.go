package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

func NewFromCreateRequest(req CreateUserRequest, passwordHash string) User {
	now := time.Now().UTC()

	role := req.Role
	if role == "" {
		role = RoleUser
	}

	return User{
		ID:           uuid.NewString(),
		FirstName:    strings.TrimSpace(req.FirstName),
		MiddleName:   strings.TrimSpace(req.MiddleName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        NormalizeEmail(req.Email),
		PasswordHash: passwordHash,
		Department:   strings.TrimSpace(req.Department),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
