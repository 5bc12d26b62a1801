package models

import "time"

// AuditLog is the database representation of one audit ledger row. Details is
// the raw JSONB payload; the mapping layer handles (un)marshalling so older
// stringified payloads remain readable.
type AuditLog struct {
	AuditID   string    `db:"audit_id"`
	CDTID     string    `db:"cdt_id"`
	Action    string    `db:"action"`
	Details   []byte    `db:"details"`
	CreatedAt time.Time `db:"created_at"`
}
