package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/CarlosSilva09/TaskFlow/internal/apperr"
	"github.com/CarlosSilva09/TaskFlow/internal/auth"
	"github.com/CarlosSilva09/TaskFlow/internal/models"
	"github.com/CarlosSilva09/TaskFlow/internal/store"
	"github.com/CarlosSilva09/TaskFlow/internal/types"
	"github.com/CarlosSilva09/TaskFlow/internal/utils"
)

type AuthHandler struct {
	users  *store.UserStore
	tokens *auth.TokenManager
}

func NewAuthHandler(users *store.UserStore, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=3,max=200"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"omitempty,min=3,max=200"`
	Email string `json:"email" binding:"omitempty,email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type SessionResponse struct {
	User  types.UserResponse `json:"user"`
	Token string             `json:"token"`
}

var cookieDomain = os.Getenv("DOMAIN")

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)

	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Internal server error")
		return
	}

	newUser := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
	}

	if err := h.users.Create(&newUser); err != nil {
		if errors.Is(err, apperr.ErrEmailTaken) {
			respondError(ctx, http.StatusConflict, "Email already exists")
			return
		}
		log.Printf("Failed to create user: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Internal server error")
		return
	}

	token, err := h.tokens.Issue(newUser.ID, newUser.Name, newUser.Email)

	if err != nil {
		log.Printf("Failed to issue token: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.setSessionCookie(ctx, token)

	respond(ctx, http.StatusCreated, "User registered successfully", SessionResponse{
		User: types.UserResponse{
			ID:    newUser.ID,
			Name:  newUser.Name,
			Email: newUser.Email,
		},
		Token: token,
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := h.users.FindByEmail(req.Email)

	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			respondError(ctx, http.StatusBadRequest, "Invalid email or password")
			return
		}
		log.Printf("Failed to fetch user: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondError(ctx, http.StatusBadRequest, "Invalid email or password")
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Name, user.Email)

	if err != nil {
		log.Printf("Failed to issue token: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.setSessionCookie(ctx, token)

	respond(ctx, http.StatusOK, "Logged in successfully", SessionResponse{
		User: types.UserResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		},
		Token: token,
	})
}

func (h *AuthHandler) Logout(ctx *gin.Context) {
	h.clearSessionCookie(ctx)
	respond(ctx, http.StatusOK, "Logged out successfully", nil)
}

func (h *AuthHandler) Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	respond(ctx, http.StatusOK, "Authenticated", types.UserResponse{
		ID:    currentUser.ID,
		Name:  currentUser.Name,
		Email: currentUser.Email,
	})
}

func (h *AuthHandler) UpdateProfile(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req UpdateProfileRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	updates := make(map[string]any)

	if req.Name != "" {
		updates["name"] = strings.TrimSpace(req.Name)
	}

	if req.Email != "" {
		updates["email"] = strings.ToLower(strings.TrimSpace(req.Email))
	}

	if len(updates) == 0 {
		respondError(ctx, http.StatusBadRequest, "No valid fields to update")
		return
	}

	if err := h.users.Update(currentUser.ID, updates); err != nil {
		if errors.Is(err, apperr.ErrEmailTaken) {
			respondError(ctx, http.StatusConflict, "Email already exists")
			return
		}
		log.Printf("Failed to update user: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Internal server error")
		return
	}

	user, err := h.users.FindByID(currentUser.ID)

	if err != nil {
		log.Printf("Failed to refresh user: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Internal server error")
		return
	}

	respond(ctx, http.StatusOK, "Profile updated successfully", types.UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	})
}

func (h *AuthHandler) ChangePassword(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req ChangePasswordRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	user, err := h.users.FindByID(currentUser.ID)

	if err != nil {
		log.Printf("Failed to fetch user: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		respondError(ctx, http.StatusBadRequest, "Current password is incorrect")
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)

	if err != nil {
		log.Printf("Failed to hash new password: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := h.users.Update(user.ID, map[string]any{"password_hash": string(passwordHash)}); err != nil {
		log.Printf("Failed to update password: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Internal server error")
		return
	}

	respond(ctx, http.StatusOK, "Password changed successfully", nil)
}

func (h *AuthHandler) GetPreferences(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	user, err := h.users.FindByID(currentUser.ID)

	if err != nil {
		log.Printf("Failed to fetch user: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Internal server error")
		return
	}

	preferences := make(map[string]any)
	if len(user.Settings) > 0 {
		if err := json.Unmarshal(user.Settings, &preferences); err != nil {
			preferences = make(map[string]any)
		}
	}

	respond(ctx, http.StatusOK, "Preferences retrieved", preferences)
}

func (h *AuthHandler) UpdatePreferences(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var preferences map[string]any

	if err := ctx.ShouldBindJSON(&preferences); err != nil {
		respondError(ctx, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	settings, err := json.Marshal(preferences)

	if err != nil {
		respondError(ctx, http.StatusBadRequest, "Invalid preferences format")
		return
	}

	if err := h.users.Update(currentUser.ID, map[string]any{"settings": settings}); err != nil {
		log.Printf("Failed to update preferences: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Internal server error")
		return
	}

	respond(ctx, http.StatusOK, "Preferences updated", preferences)
}

func (h *AuthHandler) DeleteAccount(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req struct {
		Password string `json:"password" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, "Password is required for account deletion")
		return
	}

	user, err := h.users.FindByID(currentUser.ID)

	if err != nil {
		log.Printf("Failed to fetch user: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondError(ctx, http.StatusBadRequest, "Incorrect password")
		return
	}

	// The task cascade rides on the owner_id foreign key.
	if err := h.users.Delete(user.ID); err != nil {
		log.Printf("Failed to delete user: %v", err)
		respondError(ctx, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.clearSessionCookie(ctx)

	respond(ctx, http.StatusOK, "Account deleted successfully", nil)
}

func (h *AuthHandler) setSessionCookie(ctx *gin.Context, token string) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Domain:   cookieDomain,
		MaxAge:   h.tokens.TTLSeconds(),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}

func (h *AuthHandler) clearSessionCookie(ctx *gin.Context) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		Domain:   cookieDomain,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}
