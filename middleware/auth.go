package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const UserContextKey = "userID"

// OptionalAuth resolves the request principal from an optional bearer token.
// A missing or invalid token degrades to guest mode; the request is never
// aborted here. Guest orders carry their own contact block instead.
func OptionalAuth(jwtSecret string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.Next()
			return
		}

		claims, err := parseToken(strings.TrimPrefix(header, "Bearer "), jwtSecret)
		if err != nil {
			logger.Debug("bearer token rejected, continuing as guest", zap.Error(err))
			c.Next()
			return
		}

		if id, ok := claims["user_id"].(string); ok && id != "" {
			c.Set(UserContextKey, id)
		}
		c.Next()
	}
}

// GetUserID returns the authenticated principal, if any.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	val, ok := c.Get(UserContextKey)
	if !ok {
		return uuid.Nil, false
	}
	idStr, ok := val.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func parseToken(tokenStr, secret string) (jwt.MapClaims, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret not configured")
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || token == nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
