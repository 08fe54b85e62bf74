package telephony

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"voicebridge-backend/internal/config"
)

const defaultAPIBaseURL = "https://api.twilio.com/2010-04-01"

// Client is a thin Twilio REST adapter. It only covers call origination;
// inbound traffic arrives via webhooks.
type Client struct {
	http       *resty.Client
	accountSID string

	// From and TwiMLURL are fixed per deployment: calls originate from the
	// service's own number and fetch the check-in script.
	From     string
	TwiMLURL string
}

// APIError carries the provider's own error code and message so handlers
// can report dependency failures with provider detail.
type APIError struct {
	StatusCode int    `json:"status"`
	Code       int    `json:"code"`
	Message    string `json:"message"`
	MoreInfo   string `json:"more_info,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telephony: twilio error %d: %s", e.Code, e.Message)
}

func NewClient(cfg config.TwilioConfig) *Client {
	h := resty.New().
		SetBaseURL(defaultAPIBaseURL).
		SetBasicAuth(cfg.AccountSID, cfg.AuthToken).
		SetTimeout(15 * time.Second)

	return &Client{
		http:       h,
		accountSID: cfg.AccountSID,
		From:       cfg.PhoneNumber,
		TwiMLURL:   cfg.WebhookURL,
	}
}

// SetBaseURL overrides the API endpoint. Test hook.
func (c *Client) SetBaseURL(u string) { c.http.SetBaseURL(u) }

// CreateCallResult is the provider-reported outcome of call origination,
// passed through unchanged (no local status derivation here).
type CreateCallResult struct {
	Sid    string `json:"sid"`
	Status string `json:"status"`
}

// CreateCall originates an outbound call to an E.164 number. The connected
// call fetches TwiML from c.TwiMLURL.
func (c *Client) CreateCall(ctx context.Context, to string) (CreateCallResult, error) {
	var out CreateCallResult
	var apiErr APIError

	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"To":   to,
			"From": c.From,
			"Url":  c.TwiMLURL,
		}).
		SetResult(&out).
		SetError(&apiErr).
		Post(fmt.Sprintf("/Accounts/%s/Calls.json", c.accountSID))
	if err != nil {
		return CreateCallResult{}, fmt.Errorf("telephony: create call: %w", err)
	}
	if resp.IsError() {
		apiErr.StatusCode = resp.StatusCode()
		return CreateCallResult{}, &apiErr
	}
	return out, nil
}
