package elders

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-memory elder/caregiver repository for tests.
type MemoryRepo struct {
	mu         sync.Mutex
	elders     []Elder
	caregivers []Caregiver
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (r *MemoryRepo) InsertElder(ctx context.Context, e Elder) (Elder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = uuid.NewString()
	e.CreatedAt = time.Now().UTC()
	r.elders = append(r.elders, e)
	return e, nil
}

func (r *MemoryRepo) ListElders(ctx context.Context) ([]Elder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Elder, len(r.elders))
	copy(out, r.elders)
	return out, nil
}

// AddCaregiver seeds a caregiver row for tests.
func (r *MemoryRepo) AddCaregiver(cg Caregiver) Caregiver {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cg.ID == "" {
		cg.ID = uuid.NewString()
	}
	cg.CreatedAt = time.Now().UTC()
	r.caregivers = append(r.caregivers, cg)
	return cg
}

func (r *MemoryRepo) ListCaregivers(ctx context.Context) ([]Caregiver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Caregiver, len(r.caregivers))
	copy(out, r.caregivers)
	return out, nil
}

func (r *MemoryRepo) UpdateCaregiverPlanTierByEmail(ctx context.Context, email, planTier string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.caregivers {
		if r.caregivers[i].Email == email {
			r.caregivers[i].PlanTier = planTier
			return nil
		}
	}
	return ErrCaregiverNotFound
}
