package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CDTStatus indicates where a certificate is in its lifecycle.
type CDTStatus string

const (
	StatusDraft     CDTStatus = "DRAFT"
	StatusPending   CDTStatus = "PENDING"
	StatusActive    CDTStatus = "ACTIVE"
	StatusRejected  CDTStatus = "REJECTED"
	StatusCompleted CDTStatus = "COMPLETED"
	StatusCancelled CDTStatus = "CANCELLED"
)

// IsTerminal reports whether the status has no outgoing transitions.
func (s CDTStatus) IsTerminal() bool {
	switch s {
	case StatusRejected, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsValid reports whether s is one of the known lifecycle statuses.
func (s CDTStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusActive, StatusRejected, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// RenovationOption controls what happens with the funds at term end.
type RenovationOption string

const (
	RenovationNone            RenovationOption = "NONE"
	RenovationCapital         RenovationOption = "CAPITAL"
	RenovationCapitalInterest RenovationOption = "CAPITAL_INTEREST"
)

// IsValid reports whether o is a known renovation option.
func (o RenovationOption) IsValid() bool {
	switch o {
	case RenovationNone, RenovationCapital, RenovationCapitalInterest:
		return true
	}
	return false
}

// CDT represents a fixed-term deposit certificate.
type CDT struct {
	CDTID            string           `json:"cdtID"`  // Primary Key (UUID), immutable
	UserID           string           `json:"userID"` // Owner, immutable
	Amount           decimal.Decimal  `json:"amount"` // Principal, positive
	TermDays         int              `json:"termDays"`
	InterestRate     decimal.Decimal  `json:"interestRate"` // Annual percentage, fixed at creation
	StartDate        time.Time        `json:"startDate"`
	EndDate          time.Time        `json:"endDate"` // StartDate + TermDays
	EstimatedReturn  decimal.Decimal  `json:"estimatedReturn"`
	Status           CDTStatus        `json:"status"`
	RenovationOption RenovationOption `json:"renovationOption"`
	SubmittedAt      *time.Time       `json:"submittedAt,omitempty"`
	ReviewedBy       *string          `json:"reviewedBy,omitempty"` // Admin UserID
	ReviewedAt       *time.Time       `json:"reviewedAt,omitempty"`
	AdminNotes       *string          `json:"adminNotes,omitempty"`
	AuditFields
}

// StatusPatch carries the field changes applied together with a status
// transition. Nil pointer fields are left untouched by the store.
type StatusPatch struct {
	NewStatus   CDTStatus
	SubmittedAt *time.Time
	ReviewedBy  *string
	ReviewedAt  *time.Time
	AdminNotes  *string
	UpdatedAt   time.Time
	UpdatedBy   string
}

// Apply returns a copy of the certificate with the patch applied, mirroring
// what the conditional update writes to the store.
func (p StatusPatch) Apply(cdt CDT) CDT {
	cdt.Status = p.NewStatus
	if p.SubmittedAt != nil {
		cdt.SubmittedAt = p.SubmittedAt
	}
	if p.ReviewedBy != nil {
		cdt.ReviewedBy = p.ReviewedBy
	}
	if p.ReviewedAt != nil {
		cdt.ReviewedAt = p.ReviewedAt
	}
	if p.AdminNotes != nil {
		cdt.AdminNotes = p.AdminNotes
	}
	cdt.LastUpdatedAt = p.UpdatedAt
	cdt.LastUpdatedBy = p.UpdatedBy
	return cdt
}
