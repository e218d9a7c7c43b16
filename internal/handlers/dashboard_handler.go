package handlers

import (
	"net/http"
	"time"

	"ironpress-terminal/internal/models"

	"github.com/gin-gonic/gin"
)

// Dashboard renders the store dashboard, or the platform dashboard for
// super admins. The gate guarantees a principal exists by the time we get
// here.
func (h *Handler) Dashboard(c *gin.Context) {
	user := h.sessions.CurrentUser()
	if user == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	if user.Role == models.RoleSuperAdmin {
		h.superAdminDashboard(c)
		return
	}

	bills, err := h.bills.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if len(bills) > 4 {
		bills = bills[:4]
	}

	page := gin.H{
		"title":       "Dashboard",
		"user":        user,
		"stats":       h.bills.Stats(),
		"recentBills": bills,
	}
	if exp, ok := h.sessions.TokenExpiry(); ok {
		page["sessionExpiresAt"] = exp.Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, page)
}

// superAdminDashboard shows platform stats plus subscriptions about to
// expire. Both calls go out; either failing fails the page, matching the
// single load state the original screen had.
func (h *Handler) superAdminDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := h.api.Admin.Stats(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	expiring, err := h.api.Subscriptions.ExpiringSoon(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"title":                 "Super Admin Dashboard",
		"user":                  h.sessions.CurrentUser(),
		"stats":                 stats,
		"expiringSubscriptions": expiring,
	})
}
