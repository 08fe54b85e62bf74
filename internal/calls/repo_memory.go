package calls

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is a simple in-memory call repository for tests and early
// development. It mirrors the Postgres upsert contract: one row per
// call_sid, full-row overwrite on conflict.
type MemoryRepo struct {
	mu sync.Mutex

	bySid map[string]*Call
	rows  []*Call

	// FailWrites forces write errors, for dependency-failure tests.
	FailWrites error
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{bySid: map[string]*Call{}}
}

func (r *MemoryRepo) UpsertEvent(ctx context.Context, call Call) (Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWrites != nil {
		return Call{}, r.FailWrites
	}

	now := time.Now().UTC()
	if existing, ok := r.bySid[call.CallSid]; ok {
		existing.ElderID = call.ElderID
		existing.Status = call.Status
		existing.StartTime = call.StartTime
		existing.EndTime = nil
		existing.DurationSeconds = nil
		existing.LatencyMs = nil
		existing.UpdatedAt = now
		return *existing, nil
	}

	row := call
	row.ID = uuid.NewString()
	row.CreatedAt = now
	row.UpdatedAt = now
	r.bySid[call.CallSid] = &row
	r.rows = append(r.rows, &row)
	return row, nil
}

func (r *MemoryRepo) GetBySid(ctx context.Context, callSid string) (Call, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.bySid[callSid]; ok {
		return *c, true, nil
	}
	return Call{}, false, nil
}

func (r *MemoryRepo) Insert(ctx context.Context, call Call) (Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWrites != nil {
		return Call{}, r.FailWrites
	}

	row := call
	if row.Status == "" {
		row.Status = CallStatusInitiated
	}
	row.ID = uuid.NewString()
	now := time.Now().UTC()
	row.CreatedAt = now
	row.UpdatedAt = now
	r.rows = append(r.rows, &row)
	if row.CallSid != "" {
		r.bySid[row.CallSid] = &row
	}
	return row, nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, 0, len(r.rows))
	for _, c := range r.rows {
		out = append(out, *c)
	}
	return out, nil
}
