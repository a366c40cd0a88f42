package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	usershandler "claimflow-system/internal/services/users/handler"
)

type AuthHTTPHandler struct {
	users *usershandler.UserHandler
}

func NewAuthHTTPHandler(users *usershandler.UserHandler) *AuthHTTPHandler {
	return &AuthHTTPHandler{users: users}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHTTPHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	result, err := h.users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		// Unknown email and bad password look the same to the caller.
		c.JSON(http.StatusUnauthorized, errorResponse("Invalid email or password"))
		return
	}

	c.JSON(http.StatusOK, successResponse("login successful", map[string]interface{}{
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
		"principal": map[string]interface{}{
			"id":    result.Principal.ID,
			"email": result.Principal.Email,
			"role":  result.Principal.Role.RoleName,
		},
	}))
}
