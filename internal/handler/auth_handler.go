package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fabrikasoft/fabrika-api/internal/models"
	"github.com/fabrikasoft/fabrika-api/internal/service"
	"github.com/fabrikasoft/fabrika-api/internal/utils"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login verifies credentials and returns a token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Login    string `json:"login" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	user, pair, err := h.authService.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, 200, "Login successful", gin.H{
		"user": gin.H{
			"id":    user.ID,
			"login": user.Login,
			"role":  user.Role,
		},
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

// Register creates a new account. Admin only.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Login      string     `json:"login" binding:"required,min=3"`
		Password   string     `json:"password" binding:"required,min=6"`
		Role       string     `json:"role" binding:"required,oneof=ADMIN USER"`
		EmployeeID *uuid.UUID `json:"employeeId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	user, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Login:      req.Login,
		Password:   req.Password,
		Role:       models.UserRole(req.Role),
		EmployeeID: req.EmployeeID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, 201, "User registered", gin.H{
		"user": gin.H{
			"id":    user.ID,
			"login": user.Login,
			"role":  user.Role,
		},
	})
}

// Refresh rotates a refresh token and returns a new pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Token refreshed", gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

// Logout revokes the refresh token.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Logged out", nil)
}
