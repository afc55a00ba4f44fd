package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hackpsu/admin-console/internal/apiclient"
	"github.com/hackpsu/admin-console/internal/response"
	"github.com/hackpsu/admin-console/internal/service"
)

const (
	// ContextKeyClaims is the Gin context key for the staff token claims.
	ContextKeyClaims = "claims"
)

// RequireStaffJWT reads the staff token from the Authorization header, or
// from ?token= for WebSocket upgrades which cannot send headers. The token,
// request id and actor are put on the request context so every upstream
// call is made as the caller and every audit entry names them.
func RequireStaffJWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		claims, err := authService.ValidateToken(tokenStr)
		if err != nil {
			if errors.Is(err, service.ErrTokenMissing) {
				response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
				return
			}
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		ctx := apiclient.WithToken(c.Request.Context(), tokenStr)
		ctx = apiclient.WithRequestID(ctx, response.RequestID(c))
		ctx = service.WithActor(ctx, claims.Actor())
		c.Request = c.Request.WithContext(ctx)

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// GetClaims retrieves the staff claims from the Gin context.
func GetClaims(c *gin.Context) *service.Claims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}

func bearerToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return c.Query("token")
}
