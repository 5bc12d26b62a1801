package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditAction tags the lifecycle action an audit entry records.
type AuditAction string

const (
	ActionCreated            AuditAction = "created"
	ActionSubmittedForReview AuditAction = "submitted_for_review"
	ActionApproved           AuditAction = "approved"
	ActionRejected           AuditAction = "rejected"
	ActionCancelled          AuditAction = "cancelled"
	ActionCompleted          AuditAction = "completed"
	ActionStatusChanged      AuditAction = "status_changed"
)

// SystemActorID identifies scheduler-driven actions (e.g. term completion)
// that have no human actor.
const SystemActorID = "system"

// AuditDetails is the structured payload of an audit entry. Only the fields
// relevant to the recorded action are set; the payload is persisted as JSON,
// so older stringified rows stay readable and unknown fields are ignored.
type AuditDetails struct {
	ActorID        string           `json:"actorId,omitempty"`
	PreviousStatus CDTStatus        `json:"previousStatus,omitempty"`
	NewStatus      CDTStatus        `json:"newStatus,omitempty"`
	Reason         string           `json:"reason,omitempty"`
	AdminNotes     string           `json:"adminNotes,omitempty"`
	Amount         *decimal.Decimal `json:"amount,omitempty"`
	FinalAmount    *decimal.Decimal `json:"finalAmount,omitempty"`
}

// AuditLog is one immutable record of a lifecycle action taken on a
// certificate. Entries are append-only: they are written in the same
// transaction as the state change they record and are never updated or
// deleted.
type AuditLog struct {
	AuditID   string       `json:"auditID"` // Primary Key (UUID)
	CDTID     string       `json:"cdtID"`
	Action    AuditAction  `json:"action"`
	Details   AuditDetails `json:"details"`
	CreatedAt time.Time    `json:"createdAt"`
}
