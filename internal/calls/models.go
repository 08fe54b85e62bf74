package calls

import "time"

// Call represents one telephony session for an elder check-in.
//
// Identity invariant: CallSid is the provider-assigned call identifier and
// is unique per row. All webhook-driven writes are upserts keyed on it, so
// repeated status callbacks for the same call mutate a single row.
//
// EndTime, DurationSeconds and LatencyMs are reserved for call-teardown
// processing; the lifecycle webhook never sets them.
type Call struct {
	ID          string `json:"id" db:"id"`
	CallSid     string `json:"call_sid" db:"call_sid"`
	ElderID     string `json:"elder_id" db:"elder_id"`
	CaregiverID string `json:"caregiver_id,omitempty" db:"caregiver_id"`

	Status CallStatus `json:"status" db:"status"`

	StartTime       *time.Time `json:"start_time,omitempty" db:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty" db:"end_time"`
	DurationSeconds *int       `json:"duration_seconds,omitempty" db:"duration_seconds"`
	LatencyMs       *int       `json:"latency_ms,omitempty" db:"latency_ms"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CallStatus is the persisted lifecycle vocabulary. The exact strings are
// part of the wire contract with downstream consumers; do not rename.
type CallStatus string

const (
	CallStatusInitiated  CallStatus = "initiated"
	CallStatusInProgress CallStatus = "in-progress"
	CallStatusNoAnswer   CallStatus = "no-answer"
)

// DeriveStatus maps the tri-state answered signal from a call-status
// callback to a lifecycle status. It is total: any input produces a status.
func DeriveStatus(answered *bool) CallStatus {
	switch {
	case answered == nil:
		return CallStatusInitiated
	case *answered:
		return CallStatusInProgress
	default:
		return CallStatusNoAnswer
	}
}

// rank orders statuses for the optional monotonic guard. Higher rank wins.
func (s CallStatus) rank() int {
	switch s {
	case CallStatusInitiated:
		return 0
	case CallStatusNoAnswer:
		return 1
	case CallStatusInProgress:
		return 2
	default:
		return -1
	}
}
