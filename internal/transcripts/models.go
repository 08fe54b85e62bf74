package transcripts

import "time"

// Transcript is the durable trace of a recording. Until real transcription
// runs, Text holds a human-readable pointer to the audio location and
// ConfidenceScore stays at zero.
//
// Known limitation: rows are plain inserts with no conflict key, so a call
// that produces several recording callbacks accumulates several rows.
// Keying by (call_sid, recording_sid) would give exactly-once semantics if
// that is ever wanted.
type Transcript struct {
	ID              string    `json:"id" db:"id"`
	CallSid         string    `json:"call_sid" db:"call_sid"`
	Text            string    `json:"transcript_text" db:"transcript_text"`
	ConfidenceScore float64   `json:"confidence_score" db:"confidence_score"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// StubText renders the placeholder transcript body for a recording URL.
func StubText(recordingURL string) string {
	return "Recording available at: " + recordingURL
}
