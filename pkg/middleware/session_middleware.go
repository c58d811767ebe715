package middleware

import (
	"net/http"
	"strings"

	"bizplan/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SessionAuthMiddleware requires a bearer session token issued for the
// session named in the :id path parameter.
func SessionAuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateSessionToken(secret, tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		if id := c.Param("id"); id != "" && id != claims.SessionID {
			utils.RespondError(c, http.StatusForbidden, "Token does not belong to this session")
			c.Abort()
			return
		}

		c.Set("session_id", claims.SessionID)
		c.Set("plan_type", claims.PlanType)
		c.Next()
	}
}
