package utils

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/CarlosSilva09/TaskFlow/internal/middleware"
	"github.com/CarlosSilva09/TaskFlow/internal/types"
)

func GetCurrentUser(ctx *gin.Context) (middleware.AuthenticatedUser, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.AuthenticatedUser{}, fmt.Errorf("user not authenticated")
	}

	authenticatedUser, ok := user.(middleware.AuthenticatedUser)

	if !ok {
		return middleware.AuthenticatedUser{}, fmt.Errorf("invalid user type in context")
	}

	return authenticatedUser, nil
}

func GetCurrentUserID(ctx *gin.Context) (uint, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return 0, err
	}

	return user.ID, nil
}

// GetTaskID parses the :id route parameter.
func GetTaskID(ctx *gin.Context) (uint, error) {
	taskID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)

	if err != nil {
		return 0, fmt.Errorf("invalid task ID")
	}

	return uint(taskID), nil
}
