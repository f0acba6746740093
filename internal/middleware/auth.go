package middleware

import (
	"errors"
	"net/http"
	"strings"

	"userapi/internal/models"
	"userapi/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	ErrMissingAuthHeader     = errors.New("authorization header required")
	ErrMalformedAuthHeader   = errors.New("authorization header format must be Bearer <token>")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
)

// Authorize inspects a raw Authorization header value and returns the
// authenticated claims. It is a pure function of the header: the value must
// be exactly "Bearer <token>" with a token that verifies.
func Authorize(authHeader string, tokens *service.TokenService) (*models.Claims, error) {
	if authHeader == "" {
		return nil, ErrMissingAuthHeader
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, ErrMalformedAuthHeader
	}

	claims, err := tokens.Verify(parts[1])
	if err != nil {
		return nil, ErrInvalidOrExpiredToken
	}
	return claims, nil
}

// AuthMiddleware creates a Gin middleware for JWT authentication. It runs
// before any handler it guards and aborts the request on rejection.
func AuthMiddleware(tokens *service.TokenService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := Authorize(c.GetHeader("Authorization"), tokens)
		if err != nil {
			switch {
			case errors.Is(err, ErrMissingAuthHeader):
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			case errors.Is(err, ErrMalformedAuthHeader):
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer <token>"})
			default:
				logger.Debug("Rejected bearer token", zap.Error(err))
				c.JSON(http.StatusForbidden, gin.H{"error": "Invalid or expired token"})
			}
			c.Abort()
			return
		}

		// Set user claims in context
		c.Set("userID", claims.UserID)
		c.Set("email", claims.Email)

		c.Next()
	}
}
