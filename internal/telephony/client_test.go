package telephony

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"voicebridge-backend/internal/config"
)

func testTwilioConfig() config.TwilioConfig {
	return config.TwilioConfig{
		AccountSID:  "AC123",
		AuthToken:   "token",
		PhoneNumber: "+15550001111",
		WebhookURL:  "https://example.com/v1/webhooks/voice",
		CountryCode: "1",
	}
}

func TestCreateCall_PassesThroughProviderResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Accounts/AC123/Calls.json" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostFormValue("To"); got != "+15551234567" {
			t.Errorf("expected To=+15551234567, got %q", got)
		}
		if got := r.PostFormValue("From"); got != "+15550001111" {
			t.Errorf("expected From to be the service number, got %q", got)
		}
		if got := r.PostFormValue("Url"); got == "" {
			t.Errorf("expected TwiML url to be sent")
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"sid": "CA999", "status": "queued"})
	}))
	defer srv.Close()

	c := NewClient(testTwilioConfig())
	c.SetBaseURL(srv.URL)

	res, err := c.CreateCall(context.Background(), "+15551234567")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Sid != "CA999" || res.Status != "queued" {
		t.Fatalf("expected provider result passthrough, got %+v", res)
	}
}

func TestCreateCall_SurfacesProviderErrorDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"code":      21211,
			"message":   "The 'To' number is not a valid phone number.",
			"more_info": "https://www.twilio.com/docs/errors/21211",
		})
	}))
	defer srv.Close()

	c := NewClient(testTwilioConfig())
	c.SetBaseURL(srv.URL)

	_, err := c.CreateCall(context.Background(), "bogus")
	if err == nil {
		t.Fatalf("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Code != 21211 {
		t.Fatalf("expected provider error code 21211, got %d", apiErr.Code)
	}
	if apiErr.Message == "" {
		t.Fatalf("expected provider error message")
	}
}
