package telephony

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"voicebridge-backend/internal/calls"
	"voicebridge-backend/internal/transcripts"
	"voicebridge-backend/pkg/logger"
	"voicebridge-backend/pkg/utils"
)

// RecordingAction is where the Record verbs post their results.
const RecordingAction = "/v1/webhooks/recording"

// WebhookHandler bridges provider callbacks to the call lifecycle service
// and the transcript store. Handlers stay thin: parse, delegate, respond.
type WebhookHandler struct {
	Calls       *calls.Service
	Transcripts transcripts.Repository
	Client      *Client

	// Redis bounds in-flight outbound calls per caller id. Nil disables
	// the cap (tests, local dev without redis).
	Redis              *redis.Client
	MaxConcurrentCalls int

	// CountryCode is used by E.164 normalization for bare national numbers.
	CountryCode string

	Now func() time.Time
}

func (h WebhookHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// HandleCallStatus processes the call-status callback and reports the
// derived status. Persistence failure is fatal here: the provider retries
// on 500, and a lost status update is worse than a duplicate callback.
func (h WebhookHandler) HandleCallStatus(c *gin.Context) {
	log := logger.FromGin(c)

	var payload CallStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Warn("call status parse failed", "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	ctx := logger.With(c.Request.Context(), log)
	res, err := h.Calls.RecordEvent(ctx, payload.ToCallEvent())
	if err != nil {
		log.Error("call status persistence failed", "call_sid", payload.CallSid, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Server Error"})
		return
	}

	c.JSON(http.StatusOK, res)
}

// HandleRecording stores a transcript stub for the recording and always
// acknowledges with the empty TwiML response. Losing a transcript row must
// never break the live call session, so a persistence error is logged and
// swallowed.
func (h WebhookHandler) HandleRecording(c *gin.Context) {
	log := logger.FromGin(c)

	form, err := ParseRecordingForm(c.Request)
	if err != nil {
		log.Warn("recording webhook parse failed", "err", err)
		c.Data(http.StatusOK, "text/xml", []byte(EmptyResponse))
		return
	}

	log.Info("recording received",
		"call_sid", form.CallSid,
		"recording_sid", form.RecordingSid,
		"recording_status", form.RecordingStatus,
	)

	_, err = h.Transcripts.Insert(c.Request.Context(), transcripts.Transcript{
		CallSid:         form.CallSid,
		Text:            transcripts.StubText(form.RecordingURL),
		ConfidenceScore: 0,
	})
	if err != nil {
		log.Error("recording transcript store failed", "call_sid", form.CallSid, "err", err)
	}

	c.Data(http.StatusOK, "text/xml", []byte(EmptyResponse))
}

// HandleVoice renders the check-in script for a newly connected call.
func (h WebhookHandler) HandleVoice(c *gin.Context) {
	h.renderScript(c, func() (string, error) { return CheckInScript(RecordingAction) })
}

// HandleCallHook renders the voicemail-style script for the inbound
// call-hook alias.
func (h WebhookHandler) HandleCallHook(c *gin.Context) {
	h.renderScript(c, func() (string, error) { return VoicemailScript(RecordingAction) })
}

func (h WebhookHandler) renderScript(c *gin.Context, render func() (string, error)) {
	log := logger.FromGin(c)
	twiml, err := render()
	if err != nil {
		log.Error("twiml render failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "twiml failed"})
		return
	}
	c.Data(http.StatusOK, "text/xml", []byte(twiml))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

type initiateRequest struct {
	ElderPhone string `json:"elderPhone"`
	CallerID   string `json:"callerId"`
}

// HandleInitiate originates an outbound call. Required-field validation
// happens before any provider traffic; a validation failure never reaches
// the network.
func (h WebhookHandler) HandleInitiate(c *gin.Context) {
	log := logger.FromGin(c)

	var req initiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid json"})
		return
	}

	log.Info("initiate call requested", "elder_phone_set", req.ElderPhone != "", "caller_id", orNA(req.CallerID))

	if req.ElderPhone == "" || req.CallerID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "elderPhone and callerId are required.",
		})
		return
	}

	if h.Redis != nil && h.MaxConcurrentCalls > 0 {
		ok, err := utils.AcquireConcurrencyCap(c.Request.Context(), h.Redis, "calls:active:"+req.CallerID, h.MaxConcurrentCalls, 10*time.Minute)
		if err != nil {
			log.Error("concurrency cap check failed", "caller_id", req.CallerID, "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server Error"})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "too many concurrent calls for this caller",
			})
			return
		}
	}

	to := NormalizeE164(req.ElderPhone, h.CountryCode)

	res, err := h.Client.CreateCall(c.Request.Context(), to)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			log.Error("twilio call failed",
				"code", apiErr.Code,
				"message", apiErr.Message,
				"more_info", apiErr.MoreInfo,
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success":   false,
				"message":   "Call failed: " + apiErr.Message,
				"errorCode": apiErr.Code,
			})
			return
		}
		log.Error("twilio call failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Call failed: " + err.Error(),
		})
		return
	}

	log.Info("call initiated", "call_sid", res.Sid, "status", res.Status)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"callSid": res.Sid,
		"status":  res.Status,
	})
}

type simulateRequest struct {
	CallSid   string `json:"CallSid"`
	ElderID   string `json:"elder_id"`
	Direction string `json:"direction"`
	Answered  *bool  `json:"answered"`
	Timestamp string `json:"timestamp"`
}

// HandleSimulate exercises the call-status path in-process with defaults
// filled in, so the webhook can be verified without a live call session.
// It invokes the lifecycle service through its real interface.
func (h WebhookHandler) HandleSimulate(c *gin.Context) {
	log := logger.FromGin(c)

	var req simulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	now := h.now().UTC()

	payload := CallStatusPayload{
		CallSid:   req.CallSid,
		ElderID:   req.ElderID,
		Direction: req.Direction,
		Answered:  req.Answered,
		Timestamp: req.Timestamp,
	}
	if payload.CallSid == "" {
		payload.CallSid = "test_" + uuid.NewString()
	}
	if payload.ElderID == "" {
		payload.ElderID = "550e8400-e29b-41d4-a716-446655440000"
	}
	if payload.Direction == "" {
		payload.Direction = "outbound"
	}
	if payload.Answered == nil {
		answered := true
		payload.Answered = &answered
	}
	if payload.Timestamp == "" {
		payload.Timestamp = now.Format(time.RFC3339)
	}

	ctx := logger.With(c.Request.Context(), log)
	res, err := h.Calls.RecordEvent(ctx, payload.ToCallEvent())
	if err != nil {
		log.Error("simulated webhook failed", "call_sid", payload.CallSid, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Server Error"})
		return
	}

	log.Info("simulated webhook processed", "call_id", res.CallID, "status", res.Status)
	c.JSON(http.StatusOK, gin.H{
		"message":   "Test webhook processed successfully",
		"payload":   payload,
		"timestamp": now.Format(time.RFC3339),
	})
}
