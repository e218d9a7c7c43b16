// Package handlers renders the terminal's pages as JSON page models, one
// handler per page or action, backed by the session, the bill store, and
// the API client.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"ironpress-terminal/internal/apiclient"
	"ironpress-terminal/internal/auth"
	"ironpress-terminal/internal/billing"
	"ironpress-terminal/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Handler bundles the dependencies every page needs.
type Handler struct {
	sessions *session.Store
	auth     *auth.Service
	bills    *billing.Store
	api      *apiclient.Client
	log      *logrus.Logger
}

func New(sessions *session.Store, authSvc *auth.Service, bills *billing.Store, api *apiclient.Client, log *logrus.Logger) *Handler {
	return &Handler{sessions: sessions, auth: authSvc, bills: bills, api: api, log: log}
}

// fail translates an error into the right response: expired sessions
// redirect to login, validation errors come back 400 with the message,
// API errors surface the server's wording, and everything else gets a
// generic notice. In-memory state is never touched on the error path.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apiclient.ErrSessionExpired):
		h.bills.Invalidate()
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
	case errors.Is(err, billing.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
	default:
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) {
			status := apiErr.Status
			if status < 400 || status > 599 {
				status = http.StatusBadGateway
			}
			message := apiErr.Message
			if message == "" {
				message = "Something went wrong. Please try again."
			}
			c.JSON(status, gin.H{"error": message})
			return
		}
		h.log.WithError(err).Error("request failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Something went wrong. Please try again."})
	}
}

func validationMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), billing.ErrValidation.Error())
	return strings.TrimSpace(strings.TrimPrefix(msg, ":"))
}
