package handlers

import (
	"net/http"
	"time"

	"ironpress-terminal/internal/apiclient"
	"ironpress-terminal/internal/models"

	"github.com/gin-gonic/gin"
)

// SettingsPage gathers everything the settings screen shows: the profile,
// and for store-scoped roles also the store's settings (notification
// switches, activation, subscription summary) and the category list.
func (h *Handler) SettingsPage(c *gin.Context) {
	user := h.sessions.CurrentUser()
	page := gin.H{
		"title": "Settings",
		"user":  user,
	}
	if exp, ok := h.sessions.TokenExpiry(); ok {
		page["sessionExpiresAt"] = exp.Format(time.RFC3339)
	}

	if user != nil && user.Role != models.RoleSuperAdmin {
		ctx := c.Request.Context()

		settings, err := h.api.Stores.MySettings(ctx)
		if err != nil {
			h.fail(c, err)
			return
		}
		page["storeSettings"] = settings

		categories, err := h.api.Categories.List(ctx, true)
		if err != nil {
			h.fail(c, err)
			return
		}
		page["categories"] = categories
	}

	c.JSON(http.StatusOK, page)
}

type notificationToggle struct {
	Channel string `json:"channel" binding:"required"`
	Enabled bool   `json:"enabled"`
}

// UpdateNotifications flips one notification channel for the store. Only
// the toggled key is sent, so the other switches are left alone.
func (h *Handler) UpdateNotifications(c *gin.Context) {
	var input notificationToggle
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Notification channel is required"})
		return
	}

	var field string
	switch input.Channel {
	case "email":
		field = "emailNotificationsEnabled"
	case "sms":
		field = "smsNotificationsEnabled"
	case "whatsapp":
		field = "whatsappNotificationsEnabled"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown notification channel"})
		return
	}

	updates := map[string]any{field: input.Enabled}
	if err := h.api.Stores.UpdateMySettings(c.Request.Context(), updates); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Settings updated"})
}

type profileUpdate struct {
	Name string `json:"name" binding:"required"`
}

// UpdateProfile changes the operator's display name.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var input profileUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}
	if err := h.api.Auth.UpdateProfile(c.Request.Context(), input.Name); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Your profile information has been updated successfully"})
}

type passwordChange struct {
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ChangePassword checks the confirmation locally before sending anything.
func (h *Handler) ChangePassword(c *gin.Context) {
	var input passwordChange
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid password form"})
		return
	}
	if input.NewPassword != input.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "New password and confirm password do not match"})
		return
	}
	if len(input.NewPassword) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters long"})
		return
	}

	if err := h.api.Auth.ChangePassword(c.Request.Context(), input.NewPassword); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Your password has been changed successfully"})
}

type categoryForm struct {
	Name  string  `json:"name" binding:"required"`
	Price float64 `json:"price" binding:"required"`
	Icon  string  `json:"icon"`
}

// CreateCategory adds a new priced service type.
func (h *Handler) CreateCategory(c *gin.Context) {
	var input categoryForm
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category name and price are required"})
		return
	}
	if input.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price cannot be negative"})
		return
	}

	category, err := h.api.Categories.Create(c.Request.Context(), apiclient.CategoryData{
		Name:  input.Name,
		Price: input.Price,
		Icon:  input.Icon,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Category added", "category": category})
}

// UpdateCategory changes a category's name, price, icon, or active flag.
func (h *Handler) UpdateCategory(c *gin.Context) {
	var input apiclient.CategoryData
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category form"})
		return
	}
	if input.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price cannot be negative"})
		return
	}

	if err := h.api.Categories.Update(c.Request.Context(), c.Param("id"), input); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category updated"})
}

// DeleteCategory removes a category.
func (h *Handler) DeleteCategory(c *gin.Context) {
	if err := h.api.Categories.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "The category has been removed"})
}
