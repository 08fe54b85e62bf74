package billing

import (
	"context"
	"errors"
	"fmt"

	"voicebridge-backend/internal/elders"
)

// silverAmountCents is the checkout amount (in cents) for the silver plan.
// Any other amount maps to gold.
const silverAmountCents = 1999

// PlanTierForAmount maps a checkout total to a caregiver plan tier.
func PlanTierForAmount(amountTotalCents int64) string {
	if amountTotalCents == silverAmountCents {
		return elders.PlanTierSilver
	}
	return elders.PlanTierGold
}

// CaregiverStore is the subset of caregiver persistence billing needs.
type CaregiverStore interface {
	UpdateCaregiverPlanTierByEmail(ctx context.Context, email, planTier string) error
}

type Service struct {
	store CaregiverStore
}

func NewService(store CaregiverStore) *Service {
	return &Service{store: store}
}

// ApplyCheckoutCompleted records a completed checkout: the amount decides
// the tier and the caregiver is matched by the checkout email.
// Returns elders.ErrCaregiverNotFound (wrapped) when no caregiver matches.
func (s *Service) ApplyCheckoutCompleted(ctx context.Context, customerEmail string, amountTotalCents int64) (string, error) {
	if s.store == nil {
		return "", errors.New("billing: caregiver store not configured")
	}
	if customerEmail == "" {
		return "", errors.New("billing: customer email required")
	}

	tier := PlanTierForAmount(amountTotalCents)
	if err := s.store.UpdateCaregiverPlanTierByEmail(ctx, customerEmail, tier); err != nil {
		return "", fmt.Errorf("billing: update plan tier: %w", err)
	}
	return tier, nil
}
