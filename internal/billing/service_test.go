package billing

import (
	"context"
	"errors"
	"testing"

	"voicebridge-backend/internal/elders"
)

func TestPlanTierForAmount(t *testing.T) {
	cases := []struct {
		amount int64
		want   string
	}{
		{1999, elders.PlanTierSilver},
		{4999, elders.PlanTierGold},
		{0, elders.PlanTierGold},
		{2000, elders.PlanTierGold},
	}
	for _, tc := range cases {
		if got := PlanTierForAmount(tc.amount); got != tc.want {
			t.Fatalf("PlanTierForAmount(%d) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}

func TestApplyCheckoutCompleted_UpdatesCaregiver(t *testing.T) {
	repo := elders.NewMemoryRepo()
	repo.AddCaregiver(elders.Caregiver{Email: "carer@example.com"})
	svc := NewService(repo)

	tier, err := svc.ApplyCheckoutCompleted(context.Background(), "carer@example.com", 1999)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if tier != elders.PlanTierSilver {
		t.Fatalf("expected silver, got %q", tier)
	}

	cgs, _ := repo.ListCaregivers(context.Background())
	if len(cgs) != 1 || cgs[0].PlanTier != elders.PlanTierSilver {
		t.Fatalf("expected caregiver updated to silver, got %+v", cgs)
	}
}

func TestApplyCheckoutCompleted_UnknownCaregiver(t *testing.T) {
	svc := NewService(elders.NewMemoryRepo())

	_, err := svc.ApplyCheckoutCompleted(context.Background(), "nobody@example.com", 4999)
	if !errors.Is(err, elders.ErrCaregiverNotFound) {
		t.Fatalf("expected ErrCaregiverNotFound, got %v", err)
	}
}

func TestApplyCheckoutCompleted_RequiresEmail(t *testing.T) {
	svc := NewService(elders.NewMemoryRepo())
	if _, err := svc.ApplyCheckoutCompleted(context.Background(), "", 1999); err == nil {
		t.Fatalf("expected error for empty email")
	}
}
