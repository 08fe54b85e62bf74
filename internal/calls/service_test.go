package calls

import (
	"context"
	"errors"
	"testing"
	"time"
)

func boolPtr(b bool) *bool { return &b }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestRecordEvent_StatusDerivation(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()

	cases := []struct {
		name       string
		answered   *bool
		wantStatus CallStatus
		wantStart  bool
	}{
		{"absent answered maps to initiated", nil, CallStatusInitiated, false},
		{"answered true maps to in-progress", boolPtr(true), CallStatusInProgress, true},
		{"answered false maps to no-answer", boolPtr(false), CallStatusNoAnswer, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := NewMemoryRepo()
			svc := NewService(repo, WithClock(fixedClock(now)))

			res, err := svc.RecordEvent(context.Background(), CallEvent{CallSid: "CA1", ElderID: "E1", Answered: tc.answered})
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if res.Status != tc.wantStatus {
				t.Fatalf("expected status %q, got %q", tc.wantStatus, res.Status)
			}
			if res.CallID == "" {
				t.Fatalf("expected call_id from affected row")
			}

			row, ok, err := repo.GetBySid(context.Background(), "CA1")
			if err != nil || !ok {
				t.Fatalf("expected stored row, ok=%v err=%v", ok, err)
			}
			if tc.wantStart && row.StartTime == nil {
				t.Fatalf("expected start time to be set")
			}
			if !tc.wantStart && row.StartTime != nil {
				t.Fatalf("expected start time to be null, got %v", row.StartTime)
			}
		})
	}
}

func TestRecordEvent_StartTimeUsesSuppliedTimestamp(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.RecordEvent(context.Background(), CallEvent{CallSid: "CA1", ElderID: "E1", Answered: boolPtr(true), Timestamp: &ts})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	row, _, _ := repo.GetBySid(context.Background(), "CA1")
	if row.StartTime == nil || !row.StartTime.Equal(ts) {
		t.Fatalf("expected start time %v, got %v", ts, row.StartTime)
	}
}

func TestRecordEvent_StartTimeFallsBackToClock(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()
	repo := NewMemoryRepo()
	svc := NewService(repo, WithClock(fixedClock(now)))

	_, err := svc.RecordEvent(context.Background(), CallEvent{CallSid: "CA1", ElderID: "E1", Answered: boolPtr(true)})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	row, _, _ := repo.GetBySid(context.Background(), "CA1")
	if row.StartTime == nil || !row.StartTime.Equal(now) {
		t.Fatalf("expected start time %v, got %v", now, row.StartTime)
	}
}

func TestRecordEvent_IdempotentUpsertKeepsOneRow(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	// First callback: not answered.
	first, err := svc.RecordEvent(context.Background(), CallEvent{CallSid: "CA1", ElderID: "E1", Answered: boolPtr(false)})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	// Second callback for the same call: answered with timestamp.
	second, err := svc.RecordEvent(context.Background(), CallEvent{CallSid: "CA1", ElderID: "E1", Answered: boolPtr(true), Timestamp: &ts})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if first.CallID != second.CallID {
		t.Fatalf("expected same row id across callbacks, got %q then %q", first.CallID, second.CallID)
	}

	rows, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected exactly one row for CA1, got %d", len(rows))
	}
	if rows[0].Status != CallStatusInProgress {
		t.Fatalf("expected final status in-progress, got %q", rows[0].Status)
	}
	if rows[0].StartTime == nil || !rows[0].StartTime.Equal(ts) {
		t.Fatalf("expected final start time %v, got %v", ts, rows[0].StartTime)
	}
}

func TestRecordEvent_FullRowUpsertNullsStartTime(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.RecordEvent(context.Background(), CallEvent{CallSid: "CA1", ElderID: "E1", Answered: boolPtr(true), Timestamp: &ts}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	// Late no-answer callback overwrites the whole row.
	if _, err := svc.RecordEvent(context.Background(), CallEvent{CallSid: "CA1", ElderID: "E1", Answered: boolPtr(false)}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	row, _, _ := repo.GetBySid(context.Background(), "CA1")
	if row.Status != CallStatusNoAnswer {
		t.Fatalf("expected no-answer, got %q", row.Status)
	}
	if row.StartTime != nil {
		t.Fatalf("expected start time nulled by full-row upsert, got %v", row.StartTime)
	}
}

func TestRecordEvent_MonotonicGuardIgnoresRegression(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, WithMonotonicGuard())

	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.RecordEvent(context.Background(), CallEvent{CallSid: "CA1", ElderID: "E1", Answered: boolPtr(true), Timestamp: &ts}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	res, err := svc.RecordEvent(context.Background(), CallEvent{CallSid: "CA1", ElderID: "E1", Answered: boolPtr(false)})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Status != CallStatusInProgress {
		t.Fatalf("expected guard to report stored status, got %q", res.Status)
	}

	row, _, _ := repo.GetBySid(context.Background(), "CA1")
	if row.Status != CallStatusInProgress || row.StartTime == nil {
		t.Fatalf("expected stored row untouched, got status=%q start=%v", row.Status, row.StartTime)
	}
}

func TestRecordEvent_PersistenceErrorSurfaces(t *testing.T) {
	repo := NewMemoryRepo()
	repo.FailWrites = errors.New("connection refused")
	svc := NewService(repo)

	_, err := svc.RecordEvent(context.Background(), CallEvent{CallSid: "CA1", ElderID: "E1"})
	if err == nil {
		t.Fatalf("expected persistence error to surface")
	}
}

func TestSummarize_CountsByStatus(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	_, _ = svc.RecordEvent(context.Background(), CallEvent{CallSid: "CA1", ElderID: "E1", Answered: boolPtr(true), Timestamp: &ts})
	_, _ = svc.RecordEvent(context.Background(), CallEvent{CallSid: "CA2", ElderID: "E1", Answered: boolPtr(false)})
	_, _ = svc.RecordEvent(context.Background(), CallEvent{CallSid: "CA3", ElderID: "E2"})

	out, err := svc.Summarize(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.TotalCalls != 3 || out.InProgressCalls != 1 || out.NoAnswerCalls != 1 || out.InitiatedCalls != 1 {
		t.Fatalf("unexpected summary: %+v", out)
	}
	if out.AnsweredCalls != 1 {
		t.Fatalf("expected 1 answered call, got %d", out.AnsweredCalls)
	}
}
