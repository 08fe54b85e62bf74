package main

import (
	"github.com/gin-gonic/gin"

	"voicebridge-backend/internal/billing"
	"voicebridge-backend/internal/httpapi"
	"voicebridge-backend/internal/telephony"
)

type routeDeps struct {
	Webhooks telephony.WebhookHandler
	Stripe   billing.WebhookHandler
	API      httpapi.Handlers
}

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, deps routeDeps) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")
	{
		// Provider webhooks.
		// NOTE: these endpoints should be protected by provider signature
		// validation in production; Stripe already is, Twilio is not yet.
		webhooks := v1.Group("/webhooks")
		{
			webhooks.POST("/stripe", deps.Stripe.HandleEvent)
			webhooks.POST("/call-status", deps.Webhooks.HandleCallStatus)
			webhooks.POST("/recording", deps.Webhooks.HandleRecording)
			webhooks.POST("/voice", deps.Webhooks.HandleVoice)
			webhooks.POST("/call-hook", deps.Webhooks.HandleCallHook)
		}

		// Call control.
		call := v1.Group("/call")
		{
			call.POST("/initiate", deps.Webhooks.HandleInitiate)
			call.POST("/update-status", deps.API.UpdateCallStatus)
			call.POST("/missed-retry", deps.API.MissedRetry)
			call.POST("/voicemail", deps.API.Voicemail)
		}

		// CRUD surface.
		v1.POST("/calls", deps.API.CreateCall)
		v1.GET("/calls", deps.API.ListCalls)
		v1.GET("/calls/summary", deps.API.CallsSummary)
		v1.POST("/elders", deps.API.CreateElder)
		v1.GET("/elders", deps.API.ListElders)
		v1.GET("/caregivers", deps.API.ListCaregivers)

		// In-process simulation of the call-status callback.
		v1.POST("/test/webhook", deps.Webhooks.HandleSimulate)
	}
}
