package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// verbose switches server-error responses to include the underlying error.
// Only ever enabled for dev.
var verbose bool

func SetVerbose(v bool) {
	verbose = v
}

// Every response is {"status": ..., "message"?: ..., "data"?: ...}.

func RespondSuccess(ctx *gin.Context, status int, message string, data interface{}) {
	body := gin.H{"status": "success"}

	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}

	ctx.JSON(status, body)
}

func RespondError(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{
		"status":  "error",
		"message": message,
	})
}

func RespondBadRequest(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusBadRequest, message)
}

func RespondUnauthorized(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusUnauthorized, message)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, message)
}

func RespondInternal(ctx *gin.Context, message string, err error) {
	body := gin.H{
		"status":  "error",
		"message": message,
	}

	if verbose && err != nil {
		body["error"] = err.Error()
	}

	ctx.JSON(http.StatusInternalServerError, body)
}
