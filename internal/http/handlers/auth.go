package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mkurali/userhub/internal/config"
	"github.com/mkurali/userhub/internal/domain/user"
	"github.com/mkurali/userhub/internal/http/middlewares"
)

// Narrow store views so tests can fake exactly what a handler touches.

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, u user.User) (user.User, error)
}

type UserReadWriter interface {
	UserReader
	UserWriter
}

// TokenIssuer signs expiring bearer tokens bound to a user id.
type TokenIssuer interface {
	GenerateToken(userID string) (string, error)
}

// PasswordHasher is the one-way credential hash used before storage.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Check(hash, plain string) error
}

type AuthHandler struct {
	users  UserReadWriter
	jwt    TokenIssuer
	hasher PasswordHasher
}

func NewAuthHandler(users UserReadWriter, jwt TokenIssuer, hasher PasswordHasher) *AuthHandler {
	return &AuthHandler{
		users:  users,
		jwt:    jwt,
		hasher: hasher,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req user.CreateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	// pre-check so the common case gets a clean message; the unique index
	// still guards against races
	_, err := h.users.GetByEmail(cctx, req.Email)

	if err == nil {
		RespondBadRequest(ctx, "User with this email already exists")
		return
	}

	if !errors.Is(err, user.ErrNotFound) {
		RespondInternal(ctx, "Server error during registration", err)
		return
	}

	hash, err := h.hasher.Hash(req.Password)

	if err != nil {
		RespondInternal(ctx, "Server error during registration", err)
		return
	}

	u, err := h.users.Create(cctx, user.NewFromCreateRequest(req, hash))

	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			RespondBadRequest(ctx, "User with this email already exists")
			return
		}

		RespondInternal(ctx, "Server error during registration", err)
		return
	}

	token, err := h.jwt.GenerateToken(u.ID)

	if err != nil {
		RespondInternal(ctx, "Server error during registration", err)
		return
	}

	RespondSuccess(ctx, http.StatusCreated, "User registered successfully", gin.H{
		"user":  u,
		"token": token,
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, req.Email)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// same message as a bad password, no account probing
			RespondUnauthorized(ctx, "Invalid email or password")
			return
		}

		RespondInternal(ctx, "Server error during login", err)
		return
	}

	err = h.hasher.Check(foundUser.PasswordHash, req.Password)

	if err != nil {
		RespondUnauthorized(ctx, "Invalid email or password")
		return
	}

	token, err := h.jwt.GenerateToken(foundUser.ID)

	if err != nil {
		RespondInternal(ctx, "Server error during login", err)
		return
	}

	RespondSuccess(ctx, http.StatusOK, "Login successful", gin.H{
		"user":  foundUser,
		"token": token,
	})
}

// Profile returns the user already resolved by the auth middleware.
func (h *AuthHandler) Profile(ctx *gin.Context) {
	current, ok := middlewares.CurrentUser(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	RespondSuccess(ctx, http.StatusOK, "", gin.H{"user": current})
}

// Refresh issues a fresh token for the current user. The old token stays
// valid until it expires, there is no revocation list.
func (h *AuthHandler) Refresh(ctx *gin.Context) {
	current, ok := middlewares.CurrentUser(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	token, err := h.jwt.GenerateToken(current.ID)

	if err != nil {
		RespondInternal(ctx, "Server error refreshing token", err)
		return
	}

	RespondSuccess(ctx, http.StatusOK, "Token refreshed successfully", gin.H{"token": token})
}
