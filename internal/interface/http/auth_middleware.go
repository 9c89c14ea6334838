package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ymori/visafaq/internal/domain/auth"
)

// authMiddleware guards the admin routes with a bearer session token.
func authMiddleware(authSvc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing bearer token", nil))
			return
		}
		if err := authSvc.ValidateToken(strings.TrimSpace(token)); err != nil {
			abortWithError(c, domainError(err))
			return
		}
		c.Next()
	}
}
