package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mkurali/userhub/internal/config"
	"github.com/mkurali/userhub/internal/domain/user"
	"github.com/mkurali/userhub/internal/http/middlewares"
)

type UsersStore interface {
	UserReadWriter
	GetByID(ctx context.Context, id string) (user.User, error)
	EmailInUse(ctx context.Context, email, excludeID string) (bool, error)
	List(ctx context.Context, filter user.ListFilter) ([]user.User, int, error)
	Update(ctx context.Context, id string, req user.UpdateUserRequest) (user.User, error)
	Delete(ctx context.Context, id string) error
}

type UsersHandler struct {
	store  UsersStore
	hasher PasswordHasher
}

func NewUsersHandler(store UsersStore, hasher PasswordHasher) *UsersHandler {
	return &UsersHandler{
		store:  store,
		hasher: hasher,
	}
}

const (
	defaultPage  = 1
	defaultLimit = 10
)

func pageParams(ctx *gin.Context) (page, limit int) {
	page = defaultPage
	limit = defaultLimit

	if v, err := strconv.Atoi(ctx.Query("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(ctx.Query("limit")); err == nil && v > 0 {
		limit = v
	}

	return page, limit
}

func (h *UsersHandler) list(ctx *gin.Context, role string) {
	page, limit := pageParams(ctx)

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	users, total, err := h.store.List(cctx, user.ListFilter{
		Role:   role,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})

	if err != nil {
		RespondInternal(ctx, "Server error getting users", err)
		return
	}

	totalPages := (total + limit - 1) / limit

	RespondSuccess(ctx, http.StatusOK, "", gin.H{
		"users":       users,
		"totalUsers":  total,
		"totalPages":  totalPages,
		"currentPage": page,
		"hasNextPage": page < totalPages,
		"hasPrevPage": page > 1,
	})
}

// List returns a page of users, newest first, optionally filtered by role.
// Unrecognized role values are ignored rather than rejected.
func (h *UsersHandler) List(ctx *gin.Context) {
	role := ctx.Query("role")
	if !user.ValidRole(role) {
		role = ""
	}

	h.list(ctx, role)
}

func (h *UsersHandler) ListByRole(ctx *gin.Context) {
	role := ctx.Param("role")

	if !user.ValidRole(role) {
		RespondBadRequest(ctx, "Invalid role. Must be either admin or user")
		return
	}

	h.list(ctx, role)
}

func (h *UsersHandler) GetByID(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	u, err := h.store.GetByID(cctx, ctx.Param("id"))

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, "Server error getting user", err)
		return
	}

	RespondSuccess(ctx, http.StatusOK, "", gin.H{"user": u})
}

func (h *UsersHandler) Create(ctx *gin.Context) {
	var req user.CreateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	_, err := h.store.GetByEmail(cctx, req.Email)

	if err == nil {
		RespondBadRequest(ctx, "User with this email already exists")
		return
	}

	if !errors.Is(err, user.ErrNotFound) {
		RespondInternal(ctx, "Server error creating user", err)
		return
	}

	hash, err := h.hasher.Hash(req.Password)

	if err != nil {
		RespondInternal(ctx, "Server error creating user", err)
		return
	}

	u, err := h.store.Create(cctx, user.NewFromCreateRequest(req, hash))

	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			RespondBadRequest(ctx, "User with this email already exists")
			return
		}

		RespondInternal(ctx, "Server error creating user", err)
		return
	}

	RespondSuccess(ctx, http.StatusCreated, "User created successfully", gin.H{"user": u})
}

func (h *UsersHandler) Update(ctx *gin.Context) {
	id := ctx.Param("id")

	var req user.UpdateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	actor, ok := middlewares.CurrentUser(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	// only admins may change a role; for anyone else the field is silently
	// dropped and the rest of the update proceeds
	if actor.Role != user.RoleAdmin {
		req.Role = nil
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	if req.Email != nil {
		inUse, err := h.store.EmailInUse(cctx, *req.Email, id)

		if err != nil {
			RespondInternal(ctx, "Server error updating user", err)
			return
		}

		if inUse {
			RespondBadRequest(ctx, "Email already exists")
			return
		}
	}

	// a changed password is hashed before it goes anywhere near the store
	if req.Password != nil {
		hash, err := h.hasher.Hash(*req.Password)

		if err != nil {
			RespondInternal(ctx, "Server error updating user", err)
			return
		}

		req.Password = &hash
	}

	u, err := h.store.Update(cctx, id, req)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		if errors.Is(err, user.ErrEmailTaken) {
			RespondBadRequest(ctx, "Email already exists")
			return
		}

		RespondInternal(ctx, "Server error updating user", err)
		return
	}

	RespondSuccess(ctx, http.StatusOK, "User updated successfully", gin.H{"user": u})
}

func (h *UsersHandler) Delete(ctx *gin.Context) {
	id := ctx.Param("id")

	actor, ok := middlewares.CurrentUser(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	// checked by id equality before anything else, an admin never deletes
	// their own record
	if id == actor.ID {
		RespondBadRequest(ctx, "You cannot delete your own account")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	err := h.store.Delete(cctx, id)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, "Server error deleting user", err)
		return
	}

	RespondSuccess(ctx, http.StatusOK, "User deleted successfully", nil)
}
