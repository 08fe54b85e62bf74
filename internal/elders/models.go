package elders

import "time"

// Elder is the person receiving check-in calls.
type Elder struct {
	ID              string    `json:"id" db:"id"`
	FullName        string    `json:"full_name" db:"full_name"`
	PhoneNumber     string    `json:"phone_number" db:"phone_number"`
	Timezone        string    `json:"timezone" db:"timezone"`
	VoicePreference string    `json:"voice_preference" db:"voice_preference"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// Caregiver subscribes to the service on behalf of one or more elders.
// PlanTier is derived from the checkout amount by the billing webhook.
type Caregiver struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FullName  string    `json:"full_name" db:"full_name"`
	PlanTier  string    `json:"plan_tier" db:"plan_tier"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

const (
	PlanTierSilver = "silver"
	PlanTierGold   = "gold"
)
