package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CDT is the database representation of a certificate row.
type CDT struct {
	CDTID            string          `db:"cdt_id"`
	UserID           string          `db:"user_id"`
	Amount           decimal.Decimal `db:"amount"`
	TermDays         int             `db:"term_days"`
	InterestRate     decimal.Decimal `db:"interest_rate"`
	StartDate        time.Time       `db:"start_date"`
	EndDate          time.Time       `db:"end_date"`
	EstimatedReturn  decimal.Decimal `db:"estimated_return"`
	Status           string          `db:"status"`
	RenovationOption string          `db:"renovation_option"`
	SubmittedAt      *time.Time      `db:"submitted_at"`
	ReviewedBy       *string         `db:"reviewed_by"`
	ReviewedAt       *time.Time      `db:"reviewed_at"`
	AdminNotes       *string         `db:"admin_notes"`
	AuditFields
}
