package middleware

import (
	"net/http"

	"ironpress-terminal/internal/authz"
	"ironpress-terminal/internal/models"
	"ironpress-terminal/internal/session"

	"github.com/gin-gonic/gin"
)

// Gate protects a route with the authorization gate. The decision is
// recomputed on every request from the live session - store activation can
// flip between navigations, so nothing here is cached.
func Gate(sessions *session.Store, required ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := authz.Authorize(sessions.CurrentUser(), sessions.CurrentStore(), required...)
		switch decision {
		case authz.Allow:
			c.Next()
		case authz.RedirectLogin:
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
		case authz.RedirectDeactivated:
			c.Redirect(http.StatusFound, "/store-deactivated")
			c.Abort()
		case authz.RedirectDashboard:
			// Role mismatch is not an error the operator did anything about;
			// silently land them somewhere they are allowed to be.
			c.Redirect(http.StatusFound, "/dashboard")
			c.Abort()
		}
	}
}
