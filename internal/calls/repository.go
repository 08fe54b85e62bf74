package calls

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// NOTE: This repository assumes the following table exists:
//
// CREATE TABLE calls (
//   id               UUID PRIMARY KEY,
//   call_sid         TEXT UNIQUE,
//   elder_id         TEXT,
//   caregiver_id     TEXT,
//   status           TEXT NOT NULL,
//   start_time       TIMESTAMPTZ,
//   end_time         TIMESTAMPTZ,
//   duration_seconds INT,
//   latency_ms       INT,
//   created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
//   updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
// );
//
// The UNIQUE constraint on call_sid is what makes UpsertEvent atomic per
// call identifier.

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// UpsertEvent inserts or fully overwrites the row matching call_sid.
// Fields the lifecycle webhook never sets (end_time, duration, latency)
// are written as NULL on every event; this mirrors the full-row contract
// of the callback, not a patch.
func (r *PostgresRepository) UpsertEvent(ctx context.Context, call Call) (Call, error) {
	const q = `
INSERT INTO calls (id, call_sid, elder_id, status, start_time, end_time, duration_seconds, latency_ms, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, NULL, NULL, NULL, now(), now())
ON CONFLICT (call_sid) DO UPDATE SET
    elder_id         = EXCLUDED.elder_id,
    status           = EXCLUDED.status,
    start_time       = EXCLUDED.start_time,
    end_time         = EXCLUDED.end_time,
    duration_seconds = EXCLUDED.duration_seconds,
    latency_ms       = EXCLUDED.latency_ms,
    updated_at       = now()
RETURNING id, call_sid, elder_id, COALESCE(caregiver_id, ''), status, start_time, created_at, updated_at
`
	var out Call
	err := r.db.QueryRowContext(ctx, q,
		uuid.NewString(),
		call.CallSid,
		call.ElderID,
		string(call.Status),
		call.StartTime,
	).Scan(
		&out.ID,
		&out.CallSid,
		&out.ElderID,
		&out.CaregiverID,
		&out.Status,
		&out.StartTime,
		&out.CreatedAt,
		&out.UpdatedAt,
	)
	if err != nil {
		return Call{}, err
	}
	return out, nil
}

func (r *PostgresRepository) GetBySid(ctx context.Context, callSid string) (Call, bool, error) {
	const q = `
SELECT id, call_sid, elder_id, COALESCE(caregiver_id, ''), status, start_time, end_time, duration_seconds, latency_ms, created_at, updated_at
FROM calls
WHERE call_sid = $1
`
	var c Call
	err := r.db.QueryRowContext(ctx, q, callSid).Scan(
		&c.ID,
		&c.CallSid,
		&c.ElderID,
		&c.CaregiverID,
		&c.Status,
		&c.StartTime,
		&c.EndTime,
		&c.DurationSeconds,
		&c.LatencyMs,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Call{}, false, nil
	}
	if err != nil {
		return Call{}, false, err
	}
	return c, true, nil
}

// Insert creates a call row directly (CRUD path, no call_sid yet).
func (r *PostgresRepository) Insert(ctx context.Context, call Call) (Call, error) {
	const q = `
INSERT INTO calls (id, elder_id, caregiver_id, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())
RETURNING id, elder_id, COALESCE(caregiver_id, ''), status, created_at, updated_at
`
	status := call.Status
	if status == "" {
		status = CallStatusInitiated
	}
	var out Call
	err := r.db.QueryRowContext(ctx, q,
		uuid.NewString(),
		call.ElderID,
		nullIfEmpty(call.CaregiverID),
		string(status),
	).Scan(
		&out.ID,
		&out.ElderID,
		&out.CaregiverID,
		&out.Status,
		&out.CreatedAt,
		&out.UpdatedAt,
	)
	if err != nil {
		return Call{}, err
	}
	return out, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]Call, error) {
	const q = `
SELECT id, COALESCE(call_sid, ''), elder_id, COALESCE(caregiver_id, ''), status, start_time, end_time, duration_seconds, latency_ms, created_at, updated_at
FROM calls
ORDER BY created_at DESC
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Call
	for rows.Next() {
		var c Call
		if err := rows.Scan(
			&c.ID,
			&c.CallSid,
			&c.ElderID,
			&c.CaregiverID,
			&c.Status,
			&c.StartTime,
			&c.EndTime,
			&c.DurationSeconds,
			&c.LatencyMs,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
