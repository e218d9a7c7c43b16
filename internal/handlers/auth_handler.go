package handlers

import (
	"net/http"

	"ironpress-terminal/internal/apiclient"

	"github.com/gin-gonic/gin"
)

// Index sends the operator to the dashboard or the login page.
func (h *Handler) Index(c *gin.Context) {
	if h.sessions.IsAuthenticated() {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

// LoginPage is the login page model.
func (h *Handler) LoginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"title":         "Sign in to IronPress",
		"authenticated": h.sessions.IsAuthenticated(),
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates and, on success, lands on the dashboard.
func (h *Handler) Login(c *gin.Context) {
	var input loginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	ok, message := h.auth.Login(c.Request.Context(), input.Email, input.Password)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": message})
		return
	}

	// Warm the bill cache for the new session; a failure here just means
	// the dashboard loads it on first view.
	if err := h.bills.Refresh(c.Request.Context()); err != nil {
		h.log.WithError(err).Warn("could not prefetch bills after login")
	}

	c.Redirect(http.StatusFound, "/dashboard")
}

// Logout clears the session and returns to the login page. Always
// succeeds locally, whatever the server says.
func (h *Handler) Logout(c *gin.Context) {
	h.auth.Logout(c.Request.Context())
	h.bills.Invalidate()
	c.Redirect(http.StatusFound, "/login")
}

// RegisterPage is the public store-registration form model.
func (h *Handler) RegisterPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"title": "Store Registration",
		"note":  "Register your laundry shop with IronPress. New stores need approval before their first login.",
	})
}

type registerRequest struct {
	apiclient.StoreRegistration
	ConfirmPassword string `json:"confirmPassword"`
}

// Register submits the pending-approval registration flow.
func (h *Handler) Register(c *gin.Context) {
	var input registerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid registration form"})
		return
	}

	// Caught before any network call, like every other form check.
	if input.StoreName == "" || input.StoreEmail == "" || input.AdminName == "" ||
		input.AdminEmail == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill in all required fields"})
		return
	}
	if input.ConfirmPassword != "" && input.Password != input.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match"})
		return
	}

	if err := h.api.Stores.Register(c.Request.Context(), input.StoreRegistration); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Your store registration is pending approval.",
	})
}

// StoreDeactivated explains why the operator's store is locked.
func (h *Handler) StoreDeactivated(c *gin.Context) {
	page := gin.H{
		"title":   "Store Deactivated",
		"message": "Your store has been deactivated. Please contact support.",
	}
	if store := h.sessions.CurrentStore(); store != nil && store.DeactivationReason != nil {
		page["reason"] = *store.DeactivationReason
	}
	c.JSON(http.StatusOK, page)
}

// NotFound is the catch-all route.
func (h *Handler) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Page not found"})
}
