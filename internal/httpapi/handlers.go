package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voicebridge-backend/internal/calls"
	"voicebridge-backend/internal/elders"
	"voicebridge-backend/pkg/logger"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
type Handlers struct {
	Calls  *calls.Service
	Elders elders.Repository
}

// --- Calls CRUD ---

type createCallRequest struct {
	ElderID     string `json:"elder_id"`
	CaregiverID string `json:"caregiver_id"`
}

// CreateCall inserts a call row directly, bypassing lifecycle logic.
func (h Handlers) CreateCall(c *gin.Context) {
	if h.Calls == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "calls not configured"})
		return
	}
	var req createCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	row, err := h.Calls.Create(c.Request.Context(), req.ElderID, req.CaregiverID)
	if err != nil {
		logger.FromGin(c).Error("call insert failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h Handlers) ListCalls(c *gin.Context) {
	if h.Calls == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "calls not configured"})
		return
	}
	rows, err := h.Calls.List(c.Request.Context())
	if err != nil {
		logger.FromGin(c).Error("call list failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rows == nil {
		rows = []calls.Call{}
	}
	c.JSON(http.StatusOK, rows)
}

func (h Handlers) CallsSummary(c *gin.Context) {
	if h.Calls == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "calls not configured"})
		return
	}
	out, err := h.Calls.Summarize(c.Request.Context())
	if err != nil {
		logger.FromGin(c).Error("call summary failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

// --- Elders CRUD ---

type createElderRequest struct {
	FullName        string `json:"full_name"`
	PhoneNumber     string `json:"phone_number"`
	Timezone        string `json:"timezone"`
	VoicePreference string `json:"voice_preference"`
}

func (h Handlers) CreateElder(c *gin.Context) {
	if h.Elders == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "elders not configured"})
		return
	}
	var req createElderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.FullName == "" || req.PhoneNumber == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "full_name and phone_number are required"})
		return
	}

	row, err := h.Elders.InsertElder(c.Request.Context(), elders.Elder{
		FullName:        req.FullName,
		PhoneNumber:     req.PhoneNumber,
		Timezone:        req.Timezone,
		VoicePreference: req.VoicePreference,
	})
	if err != nil {
		logger.FromGin(c).Error("elder insert failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h Handlers) ListElders(c *gin.Context) {
	if h.Elders == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "elders not configured"})
		return
	}
	rows, err := h.Elders.ListElders(c.Request.Context())
	if err != nil {
		logger.FromGin(c).Error("elder list failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rows == nil {
		rows = []elders.Elder{}
	}
	c.JSON(http.StatusOK, rows)
}

func (h Handlers) ListCaregivers(c *gin.Context) {
	if h.Elders == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "elders not configured"})
		return
	}
	rows, err := h.Elders.ListCaregivers(c.Request.Context())
	if err != nil {
		logger.FromGin(c).Error("caregiver list failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rows == nil {
		rows = []elders.Caregiver{}
	}
	c.JSON(http.StatusOK, rows)
}

// --- Call control placeholders ---
// These validate required fields and log, but carry no state transitions
// yet. The response bodies are placeholders, not a contract to optimize.

type updateCallStatusRequest struct {
	CallSid string `json:"callSid"`
	Status  string `json:"status"`
}

func (h Handlers) UpdateCallStatus(c *gin.Context) {
	var req updateCallStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid json"})
		return
	}
	if req.CallSid == "" || req.Status == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "callSid and status are required."})
		return
	}
	logger.FromGin(c).Info("update call status requested", "call_sid", req.CallSid, "status", req.Status)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type missedRetryRequest struct {
	CallSid    string `json:"callSid"`
	ElderID    string `json:"elderId"`
	RetryCount *int   `json:"retryCount"`
}

func (h Handlers) MissedRetry(c *gin.Context) {
	var req missedRetryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid json"})
		return
	}
	if req.CallSid == "" || req.ElderID == "" || req.RetryCount == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "callSid, elderId, and retryCount are required."})
		return
	}
	logger.FromGin(c).Info("missed retry requested", "call_sid", req.CallSid, "elder_id", req.ElderID, "retry_count", *req.RetryCount)
	c.JSON(http.StatusOK, gin.H{"success": true, "nextRetryTime": "2025-06-30T15:30:00Z"})
}

type voicemailRequest struct {
	CallSid string `json:"callSid"`
	ElderID string `json:"elderId"`
}

func (h Handlers) Voicemail(c *gin.Context) {
	var req voicemailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid json"})
		return
	}
	if req.CallSid == "" || req.ElderID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "callSid and elderId are required."})
		return
	}
	logger.FromGin(c).Info("voicemail requested", "call_sid", req.CallSid, "elder_id", req.ElderID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
