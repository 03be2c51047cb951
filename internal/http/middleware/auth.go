package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/dsaquest-backend/internal/http/response"
	"github.com/yungbote/dsaquest-backend/internal/platform/apierr"
	"github.com/yungbote/dsaquest-backend/internal/platform/ctxutil"
	"github.com/yungbote/dsaquest-backend/internal/platform/logger"
	"github.com/yungbote/dsaquest-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), authService: authService}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, err := am.authService.SetContextFromToken(c.Request.Context(), bearerToken(c))
		if err != nil {
			response.AbortErr(c, err)
			return
		}
		rd := ctxutil.GetRequestData(ctx)
		if rd == nil || rd.UserID == uuid.Nil {
			response.AbortErr(c, fmt.Errorf("no caller on request: %w", apierr.ErrUnauthorized))
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func (am *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		if rd == nil || rd.Role != services.RoleAdmin {
			am.log.Warn("Admin route denied", "path", c.FullPath())
			response.AbortErr(c, fmt.Errorf("admin role required: %w", apierr.ErrForbidden))
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
