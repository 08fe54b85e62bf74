package transcripts

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-memory transcript repository for tests.
type MemoryRepo struct {
	mu   sync.Mutex
	rows []Transcript

	// FailWrites forces insert errors, for dependency-failure tests.
	FailWrites error
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (r *MemoryRepo) Insert(ctx context.Context, tr Transcript) (Transcript, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWrites != nil {
		return Transcript{}, r.FailWrites
	}
	tr.ID = uuid.NewString()
	tr.CreatedAt = time.Now().UTC()
	r.rows = append(r.rows, tr)
	return tr, nil
}

func (r *MemoryRepo) ListByCallSid(ctx context.Context, callSid string) ([]Transcript, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Transcript, 0)
	for _, tr := range r.rows {
		if tr.CallSid == callSid {
			out = append(out, tr)
		}
	}
	return out, nil
}
