package middleware

import (
	"net/http"
	"strings"

	"busline/internal/shared/config"
	"busline/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// JWTAuth authenticates requests with the secret from the environment
func JWTAuth() gin.HandlerFunc {
	return JWTAuthWithConfig(config.Load())
}

// JWTAuthWithConfig validates a Bearer access token and stores the caller's
// identity (user_id, user_email, user_role) on the request context. Every
// claim is coerced to a string so downstream handlers can type-assert
// without caring how the token was minted.
func JWTAuthWithConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "Authorization header must be Bearer {token}")
			return
		}

		token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JWT.Secret), nil
		})
		if err != nil || !token.Valid {
			abort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || stringClaim(claims, "type") != "access" {
			abort(c, http.StatusUnauthorized, "Invalid token type")
			return
		}

		c.Set("user_id", stringClaim(claims, "user_id"))
		c.Set("user_email", stringClaim(claims, "email"))
		c.Set("user_role", stringClaim(claims, "role"))

		c.Next()
	}
}

// RequireRoles allows the request through only when the authenticated
// caller carries one of the given roles. Must run after JWTAuth.
func RequireRoles(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("user_role")
		role, _ := value.(string)
		if !exists || role == "" {
			abort(c, http.StatusUnauthorized, "User role not found in context")
			return
		}

		for _, required := range requiredRoles {
			if role == required {
				c.Next()
				return
			}
		}

		abort(c, http.StatusForbidden, "Insufficient permissions")
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if value, ok := claims[key].(string); ok {
		return value
	}
	return ""
}

func abort(c *gin.Context, code int, message string) {
	response.Error(c, code, message, nil)
	c.Abort()
}
