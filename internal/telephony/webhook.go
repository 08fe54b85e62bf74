package telephony

import (
	"net/http"
	"time"

	"voicebridge-backend/internal/calls"
)

// CallStatusPayload is the call-status callback body. Field names follow
// the provider's mixed convention: provider-assigned fields are CamelCase,
// ours are snake_case.
//
// Answered is tri-state; a missing key means the call was merely initiated.
type CallStatusPayload struct {
	CallSid   string `json:"CallSid"`
	ElderID   string `json:"elder_id"`
	Direction string `json:"direction"`
	Answered  *bool  `json:"answered"`
	Timestamp string `json:"timestamp"`
}

// ToCallEvent normalizes the payload. A timestamp that does not parse as
// RFC 3339 is treated as absent rather than rejecting the callback.
func (p CallStatusPayload) ToCallEvent() calls.CallEvent {
	ev := calls.CallEvent{
		CallSid:   p.CallSid,
		ElderID:   p.ElderID,
		Direction: p.Direction,
		Answered:  p.Answered,
	}
	if p.Timestamp != "" {
		if t, err := time.Parse(time.RFC3339, p.Timestamp); err == nil {
			ev.Timestamp = &t
		}
	}
	return ev
}

// RecordingForm captures the subset of recording-callback fields we care
// about. Twilio sends application/x-www-form-urlencoded by default.
// Duration and channel metadata are accepted but not persisted.
type RecordingForm struct {
	CallSid           string
	RecordingSid      string
	RecordingURL      string
	RecordingDuration string
	RecordingChannels string
	RecordingStatus   string
}

func ParseRecordingForm(r *http.Request) (RecordingForm, error) {
	if err := r.ParseForm(); err != nil {
		return RecordingForm{}, err
	}
	return RecordingForm{
		CallSid:           r.PostFormValue("CallSid"),
		RecordingSid:      r.PostFormValue("RecordingSid"),
		RecordingURL:      r.PostFormValue("RecordingUrl"),
		RecordingDuration: r.PostFormValue("RecordingDuration"),
		RecordingChannels: r.PostFormValue("RecordingChannels"),
		RecordingStatus:   r.PostFormValue("RecordingStatus"),
	}, nil
}
