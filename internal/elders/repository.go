package elders

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"voicebridge-backend/pkg/utils"
)

var ErrCaregiverNotFound = errors.New("elders: caregiver not found")

// Repository abstracts elder and caregiver persistence.
type Repository interface {
	InsertElder(ctx context.Context, e Elder) (Elder, error)
	ListElders(ctx context.Context) ([]Elder, error)

	ListCaregivers(ctx context.Context) ([]Caregiver, error)
	// UpdateCaregiverPlanTierByEmail atomically looks up the caregiver and
	// updates plan_tier. Returns ErrCaregiverNotFound when no row matches.
	UpdateCaregiverPlanTierByEmail(ctx context.Context, email, planTier string) error
}

// NOTE: This repository assumes the following tables exist:
//
// CREATE TABLE elders (
//   id               UUID PRIMARY KEY,
//   full_name        TEXT NOT NULL,
//   phone_number     TEXT NOT NULL,
//   timezone         TEXT,
//   voice_preference TEXT,
//   created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
// );
//
// CREATE TABLE caregivers (
//   id         UUID PRIMARY KEY,
//   email      TEXT UNIQUE NOT NULL,
//   full_name  TEXT,
//   plan_tier  TEXT,
//   created_at TIMESTAMPTZ NOT NULL DEFAULT now()
// );

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) InsertElder(ctx context.Context, e Elder) (Elder, error) {
	const q = `
INSERT INTO elders (id, full_name, phone_number, timezone, voice_preference, created_at)
VALUES ($1, $2, $3, $4, $5, now())
RETURNING id, full_name, phone_number, COALESCE(timezone, ''), COALESCE(voice_preference, ''), created_at
`
	var out Elder
	err := r.db.QueryRowContext(ctx, q,
		uuid.NewString(),
		e.FullName,
		e.PhoneNumber,
		e.Timezone,
		e.VoicePreference,
	).Scan(
		&out.ID,
		&out.FullName,
		&out.PhoneNumber,
		&out.Timezone,
		&out.VoicePreference,
		&out.CreatedAt,
	)
	if err != nil {
		return Elder{}, err
	}
	return out, nil
}

func (r *PostgresRepository) ListElders(ctx context.Context) ([]Elder, error) {
	const q = `
SELECT id, full_name, phone_number, COALESCE(timezone, ''), COALESCE(voice_preference, ''), created_at
FROM elders
ORDER BY created_at DESC
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Elder
	for rows.Next() {
		var e Elder
		if err := rows.Scan(&e.ID, &e.FullName, &e.PhoneNumber, &e.Timezone, &e.VoicePreference, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) ListCaregivers(ctx context.Context) ([]Caregiver, error) {
	const q = `
SELECT id, email, COALESCE(full_name, ''), COALESCE(plan_tier, ''), created_at
FROM caregivers
ORDER BY created_at DESC
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Caregiver
	for rows.Next() {
		var cg Caregiver
		if err := rows.Scan(&cg.ID, &cg.Email, &cg.FullName, &cg.PlanTier, &cg.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, cg)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) UpdateCaregiverPlanTierByEmail(ctx context.Context, email, planTier string) error {
	// Lookup and update run in one transaction so a concurrent delete
	// cannot slip between them.
	return utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		const lookup = `SELECT id FROM caregivers WHERE email = $1`
		var id string
		if err := tx.QueryRowContext(ctx, lookup, email).Scan(&id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrCaregiverNotFound
			}
			return err
		}

		const update = `UPDATE caregivers SET plan_tier = $1 WHERE id = $2`
		_, err := tx.ExecContext(ctx, update, planTier, id)
		return err
	})
}
