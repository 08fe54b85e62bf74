package billing

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"voicebridge-backend/internal/elders"
	"voicebridge-backend/pkg/logger"
)

// WebhookHandler verifies and processes Stripe events.
// Signature verification needs the raw, unparsed request body; this
// handler must be registered without any body-consuming middleware.
type WebhookHandler struct {
	Service       *Service
	WebhookSecret string
}

func (h WebhookHandler) HandleEvent(c *gin.Context) {
	log := logger.FromGin(c)

	sig := c.GetHeader("Stripe-Signature")
	if sig == "" {
		log.Warn("missing stripe signature")
		c.String(http.StatusBadRequest, "Missing Stripe signature")
		return
	}

	payload, err := c.GetRawData()
	if err != nil {
		log.Warn("stripe body read failed", "err", err)
		c.String(http.StatusBadRequest, "Webhook Error: unreadable body")
		return
	}

	event, err := webhook.ConstructEvent(payload, sig, h.WebhookSecret)
	if err != nil {
		log.Warn("stripe signature validation failed", "err", err)
		c.String(http.StatusBadRequest, "Webhook Error: "+err.Error())
		return
	}

	if event.Type != "checkout.session.completed" {
		// Gracefully ignore unrelated events.
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		log.Error("stripe session unmarshal failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	email := ""
	if session.CustomerDetails != nil {
		email = session.CustomerDetails.Email
	}

	tier, err := h.Service.ApplyCheckoutCompleted(c.Request.Context(), email, session.AmountTotal)
	if err != nil {
		if errors.Is(err, elders.ErrCaregiverNotFound) {
			log.Warn("caregiver not found for checkout", "email", email)
			c.JSON(http.StatusNotFound, gin.H{"error": "Caregiver not found"})
			return
		}
		log.Error("plan tier update failed", "email", email, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update plan tier"})
		return
	}

	log.Info("caregiver plan updated", "email", email, "plan_tier", tier)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
