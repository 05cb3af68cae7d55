package user

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// ValidRole reports whether role is one of the two supported roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already in use")
)

type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	MiddleName   string    `json:"middleName,omitempty"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	Department   string    `json:"department,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// FullName joins first, middle (if set) and last name with spaces.
// Computed on read, never stored.
func (u User) FullName() string {
	if u.MiddleName != "" {
		return u.FirstName + " " + u.MiddleName + " " + u.LastName
	}
	return u.FirstName + " " + u.LastName
}

// MarshalJSON adds the derived fullName field to every outward representation.
func (u User) MarshalJSON() ([]byte, error) {
	type alias User

	return json.Marshal(struct {
		alias
		FullName string `json:"fullName"`
	}{
		alias:    alias(u),
		FullName: u.FullName(),
	})
}

type CreateUserRequest struct {
	FirstName  string `json:"firstName" binding:"required,min=1,max=50"`
	MiddleName string `json:"middleName" binding:"omitempty,max=50"`
	LastName   string `json:"lastName" binding:"required,min=1,max=50"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6"`
	Department string `json:"department" binding:"omitempty,max=100"`
	Role       string `json:"role" binding:"omitempty,oneof=admin user"`
}

// partial update payload, nil fields are left untouched
type UpdateUserRequest struct {
	FirstName  *string `json:"firstName" binding:"omitempty,min=1,max=50"`
	MiddleName *string `json:"middleName" binding:"omitempty,max=50"`
	LastName   *string `json:"lastName" binding:"omitempty,min=1,max=50"`
	Email      *string `json:"email" binding:"omitempty,email"`
	Password   *string `json:"password" binding:"omitempty,min=6"`
	Department *string `json:"department" binding:"omitempty,max=100"`
	Role       *string `json:"role" binding:"omitempty,oneof=admin user"`
}

// Empty reports whether the payload carries no field at all.
func (r UpdateUserRequest) Empty() bool {
	return r.FirstName == nil &&
		r.MiddleName == nil &&
		r.LastName == nil &&
		r.Email == nil &&
		r.Password == nil &&
		r.Department == nil &&
		r.Role == nil
}

type ListFilter struct {
	Role   string // empty means no role filter
	Limit  int
	Offset int
}

// NormalizeEmail lowercases and trims an email address the same way the
// store keys it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
