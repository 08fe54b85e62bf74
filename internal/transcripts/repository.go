package transcripts

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// Repository abstracts transcript persistence.
type Repository interface {
	Insert(ctx context.Context, tr Transcript) (Transcript, error)
	ListByCallSid(ctx context.Context, callSid string) ([]Transcript, error)
}

// NOTE: This repository assumes the following table exists:
//
// CREATE TABLE transcripts (
//   id               UUID PRIMARY KEY,
//   call_sid         TEXT NOT NULL,
//   transcript_text  TEXT NOT NULL,
//   confidence_score DOUBLE PRECISION NOT NULL DEFAULT 0,
//   created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
// );

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, tr Transcript) (Transcript, error) {
	const q = `
INSERT INTO transcripts (id, call_sid, transcript_text, confidence_score, created_at)
VALUES ($1, $2, $3, $4, now())
RETURNING id, call_sid, transcript_text, confidence_score, created_at
`
	var out Transcript
	err := r.db.QueryRowContext(ctx, q,
		uuid.NewString(),
		tr.CallSid,
		tr.Text,
		tr.ConfidenceScore,
	).Scan(
		&out.ID,
		&out.CallSid,
		&out.Text,
		&out.ConfidenceScore,
		&out.CreatedAt,
	)
	if err != nil {
		return Transcript{}, err
	}
	return out, nil
}

func (r *PostgresRepository) ListByCallSid(ctx context.Context, callSid string) ([]Transcript, error) {
	const q = `
SELECT id, call_sid, transcript_text, confidence_score, created_at
FROM transcripts
WHERE call_sid = $1
ORDER BY created_at
`
	rows, err := r.db.QueryContext(ctx, q, callSid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transcript
	for rows.Next() {
		var tr Transcript
		if err := rows.Scan(&tr.ID, &tr.CallSid, &tr.Text, &tr.ConfidenceScore, &tr.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, tr)
	}
	return out, rows.Err()
}
