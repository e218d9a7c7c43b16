package handlers

import (
	"net/http"
	"strings"

	"ironpress-terminal/internal/apiclient"
	"ironpress-terminal/internal/models"

	"github.com/gin-gonic/gin"
)

// StoresPage lists every store on the platform, filterable with
// ?search= (name/email/city) and ?filter=pending|approved.
func (h *Handler) StoresPage(c *gin.Context) {
	stores, err := h.api.Stores.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	search := strings.ToLower(strings.TrimSpace(c.Query("search")))
	filter := c.Query("filter")

	out := make([]models.StoreAccount, 0, len(stores))
	for _, store := range stores {
		if search != "" {
			matches := strings.Contains(strings.ToLower(store.Name), search) ||
				strings.Contains(strings.ToLower(store.Email), search) ||
				strings.Contains(strings.ToLower(store.City), search)
			if !matches {
				continue
			}
		}
		switch filter {
		case "pending":
			if store.IsApproved {
				continue
			}
		case "approved":
			if !store.IsApproved {
				continue
			}
		}
		out = append(out, store)
	}

	c.JSON(http.StatusOK, gin.H{
		"title":  "Stores Management",
		"stores": out,
	})
}

// ApproveStore approves a pending registration.
func (h *Handler) ApproveStore(c *gin.Context) {
	if err := h.api.Stores.Approve(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Store approved"})
}

// RejectStore rejects a pending registration.
func (h *Handler) RejectStore(c *gin.Context) {
	if err := h.api.Stores.Reject(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Store rejected"})
}

type toggleStoreRequest struct {
	Reason string `json:"reason"`
}

// ToggleStoreStatus flips a store between active and deactivated. The
// reason is shown to the store's own users on the lockout page.
func (h *Handler) ToggleStoreStatus(c *gin.Context) {
	var input toggleStoreRequest
	// Body is optional when reactivating.
	_ = c.ShouldBindJSON(&input)

	if err := h.api.Stores.ToggleStatus(c.Request.Context(), c.Param("id"), input.Reason); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Store status updated"})
}

// SubscriptionsPage lists subscriptions plus the stores needed by the
// assignment form.
func (h *Handler) SubscriptionsPage(c *gin.Context) {
	ctx := c.Request.Context()

	subscriptions, err := h.api.Subscriptions.List(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	stores, err := h.api.Stores.List(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"title":         "Subscription Management",
		"subscriptions": subscriptions,
		"stores":        stores,
	})
}

// CreateSubscription assigns a plan to a store.
func (h *Handler) CreateSubscription(c *gin.Context) {
	var input apiclient.SubscriptionCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription form"})
		return
	}
	if input.StoreID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill in all required fields"})
		return
	}
	// FREE plans run to an explicit end date; paid plans derive theirs
	// from the billing cycle server-side.
	if input.Plan != models.PlanFree {
		input.EndDate = ""
	}

	if err := h.api.Subscriptions.Create(c.Request.Context(), input); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Subscription created successfully"})
}

type subscriptionStatusRequest struct {
	Status       string `json:"status" binding:"required"`
	CancelReason string `json:"cancelReason"`
}

// UpdateSubscriptionStatus changes a subscription's status; cancellations
// carry the operator's reason.
func (h *Handler) UpdateSubscriptionStatus(c *gin.Context) {
	var input subscriptionStatusRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}

	err := h.api.Subscriptions.UpdateStatus(c.Request.Context(), c.Param("id"), input.Status, input.CancelReason)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subscription updated"})
}
