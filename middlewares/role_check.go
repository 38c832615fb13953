package middlewares

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ronda-app/models"
	"github.com/yeremiapane/ronda-app/utils"
)

// RequireRoles lets the request through only when the authenticated role is
// one of roles. It must run after AuthMiddleware.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		allowed[string(r)] = struct{}{}
		names = append(names, string(r))
	}

	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			c.Abort()
			return
		}
		if _, ok := allowed[role]; !ok {
			utils.RespondError(c, http.StatusForbidden, fmt.Errorf("requires role %s", strings.Join(names, " or ")))
			c.Abort()
			return
		}
		c.Next()
	}
}
