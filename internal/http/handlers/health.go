package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	ping func() error
}

func NewHealthHandler(ping func() error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

func (h *HealthHandler) Health(ctx *gin.Context) {
	if h.ping != nil {
		if err := h.ping(); err != nil {
			RespondError(ctx, http.StatusServiceUnavailable, "Database unreachable")
			return
		}
	}

	RespondSuccess(ctx, http.StatusOK, "User account service is running", nil)
}
