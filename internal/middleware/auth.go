package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/CarlosSilva09/TaskFlow/internal/auth"
	"github.com/CarlosSilva09/TaskFlow/internal/models"
	"github.com/CarlosSilva09/TaskFlow/internal/types"
)

type AuthenticatedUser struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthMiddleware verifies the bearer credential and stores the resolved
// identity in the request context. A token naming an identity that no
// longer exists fails exactly like a bad signature.
func AuthMiddleware(tokens *auth.TokenManager, db *gorm.DB) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := bearerToken(ctx)

		if tokenString == "" {
			abortUnauthorized(ctx, "Authorization token is required")
			return
		}

		claims, err := tokens.Verify(tokenString)

		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				abortUnauthorized(ctx, "Token has expired")
			} else {
				abortUnauthorized(ctx, "Invalid token")
			}
			return
		}

		var user models.User

		if err := db.Where("id = ?", claims.UserID).First(&user).Error; err != nil {
			// Only a missing row means the token names a dead identity.
			// Anything else is a store failure, not a credential problem.
			if errors.Is(err, gorm.ErrRecordNotFound) {
				abortUnauthorized(ctx, "Invalid token")
				return
			}
			log.Printf("Failed to resolve authenticated user: %v", err)
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, types.Response{
				Success: false,
				Message: "Internal server error",
				Errors:  []string{"Internal server error"},
			})
			return
		}

		ctx.Set(types.ContextUserKey, AuthenticatedUser{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		})
		ctx.Next()
	}
}

// bearerToken pulls the credential from the Authorization header, falling
// back to the cookie the login endpoints set for the browser client.
func bearerToken(ctx *gin.Context) string {
	if authHeader := ctx.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}

	if cookie, err := ctx.Cookie("token"); err == nil {
		return cookie
	}

	return ""
}

func abortUnauthorized(ctx *gin.Context, message string) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, types.Response{
		Success: false,
		Message: message,
		Errors:  []string{message},
	})
}
