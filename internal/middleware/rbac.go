package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sakec/hms-backend/internal/model"
	"github.com/sakec/hms-backend/internal/response"
)

// RequireRole admits only identities whose role equals role exactly. It must
// run after Authenticate; without claims the request is rejected with 403.
func RequireRole(role model.Role) gin.HandlerFunc {
	denied := response.ErrForbidden
	switch role {
	case model.RoleAdmin:
		denied = response.ErrAdminAccessOnly
	case model.RoleStudent:
		denied = response.ErrStudentAccessOnly
	}

	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || claims.Role == "" {
			response.AbortFail(c, http.StatusForbidden, response.ErrRoleMissing)
			return
		}

		if claims.Role != role {
			response.AbortFail(c, http.StatusForbidden, denied)
			return
		}

		c.Next()
	}
}
