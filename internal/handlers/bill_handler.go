package handlers

import (
	"fmt"
	"net/http"

	"ironpress-terminal/internal/billing"

	"github.com/gin-gonic/gin"
)

// NewBillPage serves the category snapshot the composer works against.
// The snapshot is fetched per visit, never cached across pages.
func (h *Handler) NewBillPage(c *gin.Context) {
	categories, err := h.api.Categories.List(c.Request.Context(), false)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"title":      "New Bill",
		"categories": categories,
	})
}

// CreateBill submits a composed draft. Validation happens before any
// network call; the created bill comes back with the server's
// authoritative totals.
func (h *Handler) CreateBill(c *gin.Context) {
	var draft billing.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bill form"})
		return
	}

	bill, err := h.bills.Create(c.Request.Context(), draft)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": fmt.Sprintf("Bill created successfully for ₹%.2f.", bill.TotalAmount),
		"bill":    bill,
	})
}

// ListBills serves the cached list, filtered by ?search= and ?status=.
func (h *Handler) ListBills(c *gin.Context) {
	bills, err := h.bills.Search(c.Request.Context(), c.Query("search"), c.Query("status"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"title": "All Bills",
		"bills": bills,
	})
}

// BillDetail always fetches fresh so the detail reflects the latest
// server state even when the list cache is stale.
func (h *Handler) BillDetail(c *gin.Context) {
	bill, err := h.bills.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bill": bill})
}

// CompleteBill marks a bill COMPLETED and refreshes list + stats.
func (h *Handler) CompleteBill(c *gin.Context) {
	if err := h.bills.MarkCompleted(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bill completed! Customer has been notified."})
}

type notifyRequest struct {
	Type string `json:"type" binding:"required"`
}

// NotifyBill asks the backend to send the customer a bill notification.
func (h *Handler) NotifyBill(c *gin.Context) {
	var input notifyRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Notification type is required"})
		return
	}
	if input.Type != "SMS" && input.Type != "EMAIL" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Notification type must be SMS or EMAIL"})
		return
	}

	if err := h.api.Notifications.SendBillNotification(c.Request.Context(), c.Param("id"), input.Type); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification sent"})
}
