package handler

import (
	"errors"
	"net/http"
	"strconv"

	"userapi/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler interface {
	Login(c *gin.Context)
	AuthenticateToken(c *gin.Context)
	LastLogin(c *gin.Context)
	UpdatePassword(c *gin.Context)
	DisableLogin(c *gin.Context)
}

type authHandler struct {
	authService service.AuthService
	userService service.UserService
	log         *zap.Logger
}

func NewAuthHandler(authService service.AuthService, userService service.UserService, log *zap.Logger) AuthHandler {
	return &authHandler{authService: authService, userService: userService, log: log}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type UpdatePasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

type LastLoginResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (h *authHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokenString, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		h.log.Error("Failed to login user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to login"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Message: "Login successful",
		Token:   tokenString,
	})
}

// AuthenticateToken only runs when the auth middleware has already accepted
// the token, so all that is left to do is confirm it.
func (h *authHandler) AuthenticateToken(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Token is valid"})
}

func (h *authHandler) LastLogin(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No recent login found for this user"})
			return
		}
		h.log.Error("Failed to look up last login", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return
	}

	c.JSON(http.StatusOK, LastLoginResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

func (h *authHandler) UpdatePassword(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.UpdatePassword(c.Request.Context(), id, req.Password); err != nil {
		h.log.Error("Failed to update password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully!"})
}

// DisableLogin soft-disables the account: the record survives but every
// future login attempt fails until a new password is set.
func (h *authHandler) DisableLogin(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	if err := h.userService.Disable(c.Request.Context(), id); err != nil {
		h.log.Error("Failed to disable login", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password removed successfully!"})
}
