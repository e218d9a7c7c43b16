package handlers

import (
	"ironpress-terminal/internal/middleware"
	"ironpress-terminal/internal/models"

	"github.com/gin-gonic/gin"
)

// Routes registers the full route surface. Role sets per page follow the
// original console; the gate re-evaluates them on every navigation.
func (h *Handler) Routes(r *gin.Engine) {
	// --- PUBLIC ROUTES ---
	r.GET("/", h.Index)
	r.GET("/login", h.LoginPage)
	r.POST("/login", h.Login)
	r.GET("/register", h.RegisterPage)
	r.POST("/register", h.Register)
	r.GET("/store-deactivated", h.StoreDeactivated)
	r.POST("/logout", h.Logout)

	// --- GATED PAGES ---
	// Any authenticated role may land on the dashboard; it is also the
	// target of every role-mismatch redirect, so it must never bounce.
	dashboard := r.Group("/dashboard", middleware.Gate(h.sessions))
	dashboard.GET("", h.Dashboard)

	staff := r.Group("/", middleware.Gate(h.sessions, models.RoleAdmin, models.RoleEmployee))
	{
		staff.GET("/new-bill", h.NewBillPage)
		staff.POST("/new-bill", h.CreateBill)
		staff.GET("/bills", h.ListBills)
		staff.GET("/bills/:id", h.BillDetail)
		staff.POST("/bills/:id/complete", h.CompleteBill)
		staff.POST("/bills/:id/notify", h.NotifyBill)
	}

	settings := r.Group("/settings", middleware.Gate(h.sessions))
	{
		settings.GET("", h.SettingsPage)
		settings.PUT("/notifications", h.UpdateNotifications)
		settings.PUT("/profile", h.UpdateProfile)
		settings.PUT("/password", h.ChangePassword)
		settings.POST("/categories", h.CreateCategory)
		settings.PUT("/categories/:id", h.UpdateCategory)
		settings.DELETE("/categories/:id", h.DeleteCategory)
	}

	// SUPER_ADMIN ONLY
	admin := r.Group("/", middleware.Gate(h.sessions, models.RoleSuperAdmin))
	{
		admin.GET("/stores-management", h.StoresPage)
		admin.POST("/stores-management/:id/approve", h.ApproveStore)
		admin.POST("/stores-management/:id/reject", h.RejectStore)
		admin.POST("/stores-management/:id/toggle-status", h.ToggleStoreStatus)

		admin.GET("/subscriptions", h.SubscriptionsPage)
		admin.POST("/subscriptions", h.CreateSubscription)
		admin.PATCH("/subscriptions/:id", h.UpdateSubscriptionStatus)
	}

	// ADMIN ONLY
	manage := r.Group("/employees", middleware.Gate(h.sessions, models.RoleAdmin))
	{
		manage.GET("", h.EmployeesPage)
		manage.POST("", h.CreateEmployee)
		manage.POST("/:id/toggle-status", h.ToggleEmployeeStatus)
		manage.DELETE("/:id", h.DeleteEmployee)
	}

	r.NoRoute(h.NotFound)
}
