package middlewares

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
)

// RequireRoles mengizinkan role yang disebut. Admin selalu lolos.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles)+1)
	for _, r := range roles {
		allowed[r] = true
	}
	allowed[models.RoleAdmin] = true
	label := strings.Join(append(append([]string{}, roles...), models.RoleAdmin), "/")

	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			c.Abort()
			return
		}

		if !allowed[role] {
			utils.RespondError(c, http.StatusForbidden, fmt.Errorf("%s access required", label))
			c.Abort()
			return
		}

		c.Next()
	}
}
