package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Every response carries the {success, message, ...} envelope. Error
// detail is echoed only outside release mode so internals never leak to
// production clients.

func RespondSuccess(ctx *gin.Context, status int, message string, data interface{}) {
	ctx.JSON(status, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func RespondError(ctx *gin.Context, status int, message string, err error) {
	body := gin.H{
		"success": false,
		"message": message,
	}

	if err != nil && gin.Mode() != gin.ReleaseMode {
		body["error"] = err.Error()
	}

	ctx.JSON(status, body)
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	body := gin.H{
		"success": false,
		"message": message,
	}

	if details != nil {
		body["error"] = details
	}

	ctx.JSON(http.StatusBadRequest, body)
}

func RespondUnauthorized(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusUnauthorized, message, nil)
}

func RespondForbidden(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusForbidden, message, nil)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, message, nil)
}

func RespondConflict(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusConflict, message, nil)
}

func RespondInternal(ctx *gin.Context, message string, err error) {
	RespondError(ctx, http.StatusInternalServerError, message, err)
}
