package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CarlosSilva09/TaskFlow/internal/apperr"
	"github.com/CarlosSilva09/TaskFlow/internal/types"
)

func respond(ctx *gin.Context, status int, message string, data any) {
	ctx.JSON(status, types.Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func respondError(ctx *gin.Context, status int, message string, errs ...string) {
	if len(errs) == 0 {
		errs = []string{message}
	}
	ctx.JSON(status, types.Response{
		Success: false,
		Message: message,
		Errors:  errs,
	})
}

// respondTaxonomy maps the store error taxonomy onto HTTP statuses.
// Anything outside the taxonomy becomes a 500 with the detail logged
// server-side only.
func respondTaxonomy(ctx *gin.Context, err error, logPrefix string) {
	var validationErr *apperr.ValidationError

	switch {
	case errors.Is(err, apperr.ErrNotFound):
		respondError(ctx, http.StatusNotFound, "Task not found")
	case errors.Is(err, apperr.ErrEmailTaken):
		respondError(ctx, http.StatusConflict, "Email already exists")
	case errors.Is(err, apperr.ErrOverdueTask):
		respondError(ctx, http.StatusBadRequest, "Overdue task cannot be completed")
	case errors.As(err, &validationErr):
		respondError(ctx, http.StatusBadRequest, "Validation failed", validationErr.Errs...)
	default:
		log.Printf("%s: %v", logPrefix, err)
		respondError(ctx, http.StatusInternalServerError, "Internal server error")
	}
}
