package domain

import "github.com/shopspring/decimal"

// AdminStats aggregates certificate counts per status plus a financial summary
// over active certificates. It is a derived, cache-backed projection.
type AdminStats struct {
	StatusCounts         map[CDTStatus]int64 `json:"statusCounts"`
	TotalCount           int64               `json:"totalCount"`
	TotalInvested        decimal.Decimal     `json:"totalInvested"`        // Sum of active principals
	TotalEstimatedReturn decimal.Decimal     `json:"totalEstimatedReturn"` // Sum of active estimated returns
}
