package transcripts

import (
	"context"
	"testing"
)

func TestStubText(t *testing.T) {
	got := StubText("https://api.twilio.com/rec/RE1")
	want := "Recording available at: https://api.twilio.com/rec/RE1"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestInsert_AccumulatesRowsPerCall(t *testing.T) {
	repo := NewMemoryRepo()

	// No conflict key: every recording callback for the same call adds a row.
	for i := 0; i < 3; i++ {
		if _, err := repo.Insert(context.Background(), Transcript{CallSid: "CA1", Text: "x"}); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
	}

	rows, err := repo.ListByCallSid(context.Background(), "CA1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows for CA1, got %d", len(rows))
	}
	for _, r := range rows {
		if r.ID == "" || r.CreatedAt.IsZero() {
			t.Fatalf("expected id and created_at set, got %+v", r)
		}
	}
}
