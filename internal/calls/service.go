package calls

import (
	"context"
	"errors"
	"time"

	"voicebridge-backend/pkg/logger"
)

// Repository abstracts call persistence.
//
// UpsertEvent must be atomic per call_sid: concurrent callbacks for the same
// call may race, and correctness relies on the store resolving the conflict
// key, not on handler-side locking.
type Repository interface {
	UpsertEvent(ctx context.Context, call Call) (Call, error)
	GetBySid(ctx context.Context, callSid string) (Call, bool, error)
	Insert(ctx context.Context, call Call) (Call, error)
	List(ctx context.Context) ([]Call, error)
}

// CallEvent is a normalized call-status callback from the telephony gateway.
//
// Answered is tri-state: nil means the provider reported the call as merely
// initiated, true/false report the pickup outcome.
type CallEvent struct {
	CallSid   string
	ElderID   string
	Direction string
	Answered  *bool
	Timestamp *time.Time
}

// EventResult is what the webhook reports back to the telephony gateway.
type EventResult struct {
	CallID string     `json:"call_id"`
	Status CallStatus `json:"status"`
}

type Service struct {
	repo Repository
	now  func() time.Time

	// monotonicGuard, when set, drops events that would regress the stored
	// status (e.g. a late no-answer callback after in-progress).
	monotonicGuard bool
}

type Option func(*Service)

// WithMonotonicGuard enables out-of-order callback protection. Off by
// default: the upsert is a full-row overwrite and a late event replaces
// whatever was stored, matching provider callback ordering assumptions.
func WithMonotonicGuard() Option {
	return func(s *Service) { s.monotonicGuard = true }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// RecordEvent converts a call-status callback into a durable, idempotent
// call row and reports the derived status.
//
// Start-time policy: only an answered call gets a start time (the supplied
// event timestamp, else now). Initiated and no-answer events store NULL,
// and because the write is a full-row upsert they also null out any
// previously stored start time.
func (s *Service) RecordEvent(ctx context.Context, ev CallEvent) (EventResult, error) {
	if s.repo == nil {
		return EventResult{}, errors.New("calls: repository not configured")
	}

	log := logger.From(ctx)
	log.Info("call event received",
		"call_sid", orNA(ev.CallSid),
		"elder_id", orNA(ev.ElderID),
		"direction", orNA(ev.Direction),
		"answered", answeredString(ev.Answered),
	)

	status := DeriveStatus(ev.Answered)

	var startTime *time.Time
	if ev.Answered != nil && *ev.Answered {
		if ev.Timestamp != nil {
			startTime = ev.Timestamp
		} else {
			t := s.now()
			startTime = &t
		}
	}

	if s.monotonicGuard {
		existing, ok, err := s.repo.GetBySid(ctx, ev.CallSid)
		if err != nil {
			return EventResult{}, err
		}
		if ok && existing.Status.rank() > status.rank() {
			log.Info("call event ignored by monotonic guard",
				"call_sid", ev.CallSid,
				"stored_status", existing.Status,
				"event_status", status,
			)
			return EventResult{CallID: existing.ID, Status: existing.Status}, nil
		}
	}

	row, err := s.repo.UpsertEvent(ctx, Call{
		CallSid:   ev.CallSid,
		ElderID:   ev.ElderID,
		Status:    status,
		StartTime: startTime,
	})
	if err != nil {
		return EventResult{}, err
	}

	res := EventResult{CallID: row.ID, Status: status}
	log.Info("call status updated", "call_id", res.CallID, "status", res.Status)
	return res, nil
}

// Create inserts a call row directly, bypassing lifecycle derivation.
// Used by the plain CRUD surface.
func (s *Service) Create(ctx context.Context, elderID, caregiverID string) (Call, error) {
	if s.repo == nil {
		return Call{}, errors.New("calls: repository not configured")
	}
	return s.repo.Insert(ctx, Call{ElderID: elderID, CaregiverID: caregiverID})
}

func (s *Service) List(ctx context.Context) ([]Call, error) {
	if s.repo == nil {
		return nil, errors.New("calls: repository not configured")
	}
	return s.repo.List(ctx)
}

// Summary aggregates stored calls by lifecycle status.
type Summary struct {
	TotalCalls      int `json:"total_calls"`
	InitiatedCalls  int `json:"initiated_calls"`
	InProgressCalls int `json:"in_progress_calls"`
	NoAnswerCalls   int `json:"no_answer_calls"`
	AnsweredCalls   int `json:"answered_calls"`
}

func (s *Service) Summarize(ctx context.Context) (Summary, error) {
	rows, err := s.List(ctx)
	if err != nil {
		return Summary{}, err
	}
	out := Summary{}
	for _, c := range rows {
		out.TotalCalls++
		switch c.Status {
		case CallStatusInitiated:
			out.InitiatedCalls++
		case CallStatusInProgress:
			out.InProgressCalls++
		case CallStatusNoAnswer:
			out.NoAnswerCalls++
		}
		if c.StartTime != nil {
			out.AnsweredCalls++
		}
	}
	return out, nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func answeredString(b *bool) string {
	if b == nil {
		return "undefined"
	}
	if *b {
		return "true"
	}
	return "false"
}
