package billing

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"voicebridge-backend/internal/elders"
)

const testWebhookSecret = "whsec_test"

func newBillingRouter(repo *elders.MemoryRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := WebhookHandler{Service: NewService(repo), WebhookSecret: testWebhookSecret}
	r.POST("/v1/webhooks/stripe", h.HandleEvent)
	return r
}

func signedEvent(t *testing.T, eventType string, obj map[string]any) (string, string) {
	t.Helper()
	raw, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshal object: %v", err)
	}
	payload, err := json.Marshal(map[string]any{
		"id":          "evt_test",
		"type":        eventType,
		"api_version": stripe.APIVersion,
		"data":        map[string]any{"object": json.RawMessage(raw)},
	})
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}

	now := time.Now()
	sig := webhook.ComputeSignature(now, payload, testWebhookSecret)
	header := fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(sig))
	return string(payload), header
}

func postEvent(r *gin.Engine, body, sigHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/stripe", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if sigHeader != "" {
		req.Header.Set("Stripe-Signature", sigHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleEvent_MissingSignature(t *testing.T) {
	r := newBillingRouter(elders.NewMemoryRepo())
	w := postEvent(r, `{}`, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHandleEvent_BadSignature(t *testing.T) {
	r := newBillingRouter(elders.NewMemoryRepo())
	w := postEvent(r, `{"type":"checkout.session.completed"}`, "t=1,v1=deadbeef")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHandleEvent_CheckoutCompletedMapsTier(t *testing.T) {
	repo := elders.NewMemoryRepo()
	repo.AddCaregiver(elders.Caregiver{Email: "carer@example.com"})
	r := newBillingRouter(repo)

	body, sig := signedEvent(t, "checkout.session.completed", map[string]any{
		"amount_total":     1999,
		"customer_details": map[string]any{"email": "carer@example.com"},
	})
	w := postEvent(r, body, sig)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	cgs, _ := repo.ListCaregivers(context.Background())
	if cgs[0].PlanTier != elders.PlanTierSilver {
		t.Fatalf("expected silver tier, got %q", cgs[0].PlanTier)
	}
}

func TestHandleEvent_UnknownCaregiverIs404(t *testing.T) {
	r := newBillingRouter(elders.NewMemoryRepo())

	body, sig := signedEvent(t, "checkout.session.completed", map[string]any{
		"amount_total":     4999,
		"customer_details": map[string]any{"email": "nobody@example.com"},
	})
	w := postEvent(r, body, sig)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHandleEvent_UnrelatedEventAcknowledged(t *testing.T) {
	r := newBillingRouter(elders.NewMemoryRepo())

	body, sig := signedEvent(t, "invoice.paid", map[string]any{"id": "in_test"})
	w := postEvent(r, body, sig)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"received":true`) {
		t.Fatalf("expected received ack, got %q", w.Body.String())
	}
}
