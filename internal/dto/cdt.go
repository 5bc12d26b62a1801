package dto

import (
	"time"

	"github.com/SscSPs/cdt_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCDTRequest defines the payload for opening a new certificate.
// Exactly one of TermDays/TermMonths must be provided; months are converted
// at 30 days per month.
type CreateCDTRequest struct {
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	InterestRate     decimal.Decimal `json:"interestRate" binding:"required"`
	TermDays         *int            `json:"termDays,omitempty"`
	TermMonths       *int            `json:"termMonths,omitempty"`
	RenovationOption string          `json:"renovationOption,omitempty"`
	StartDate        *time.Time      `json:"startDate,omitempty"` // Defaults to now
}

// ApproveCDTRequest carries optional review notes for an approval.
type ApproveCDTRequest struct {
	Notes string `json:"notes,omitempty"`
}

// RejectCDTRequest carries the mandatory rejection reason.
type RejectCDTRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CancelCDTRequest carries the mandatory cancellation reason.
type CancelCDTRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ChangeStatusRequest carries the target status for a free-form transition.
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListCDTsParams are the query parameters for certificate listings.
type ListCDTsParams struct {
	Status string `form:"status"`
	UserID string `form:"userID"`
	Limit  int    `form:"limit,default=20"`
	Offset int    `form:"offset,default=0"`
}

// CDTResponse defines the data returned for a certificate.
type CDTResponse struct {
	CDTID            string          `json:"cdtID"`
	UserID           string          `json:"userID"`
	Amount           decimal.Decimal `json:"amount"`
	TermDays         int             `json:"termDays"`
	InterestRate     decimal.Decimal `json:"interestRate"`
	StartDate        time.Time       `json:"startDate"`
	EndDate          time.Time       `json:"endDate"`
	EstimatedReturn  decimal.Decimal `json:"estimatedReturn"`
	Status           string          `json:"status"`
	RenovationOption string          `json:"renovationOption"`
	SubmittedAt      *time.Time      `json:"submittedAt,omitempty"`
	ReviewedBy       *string         `json:"reviewedBy,omitempty"`
	ReviewedAt       *time.Time      `json:"reviewedAt,omitempty"`
	AdminNotes       *string         `json:"adminNotes,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// ListCDTsResponse is a page of certificates plus pagination metadata.
type ListCDTsResponse struct {
	CDTs       []CDTResponse `json:"cdts"`
	Total      int64         `json:"total"`
	Limit      int           `json:"limit"`
	Offset     int           `json:"offset"`
	TotalPages int64         `json:"totalPages"`
}

// AuditLogResponse defines the data returned for one audit entry.
type AuditLogResponse struct {
	AuditID   string              `json:"auditID"`
	CDTID     string              `json:"cdtID"`
	Action    string              `json:"action"`
	Details   domain.AuditDetails `json:"details"`
	CreatedAt time.Time           `json:"createdAt"`
}

// ToCDTResponse converts a domain.CDT to its response DTO.
func ToCDTResponse(cdt *domain.CDT) CDTResponse {
	return CDTResponse{
		CDTID:            cdt.CDTID,
		UserID:           cdt.UserID,
		Amount:           cdt.Amount,
		TermDays:         cdt.TermDays,
		InterestRate:     cdt.InterestRate,
		StartDate:        cdt.StartDate,
		EndDate:          cdt.EndDate,
		EstimatedReturn:  cdt.EstimatedReturn,
		Status:           string(cdt.Status),
		RenovationOption: string(cdt.RenovationOption),
		SubmittedAt:      cdt.SubmittedAt,
		ReviewedBy:       cdt.ReviewedBy,
		ReviewedAt:       cdt.ReviewedAt,
		AdminNotes:       cdt.AdminNotes,
		CreatedAt:        cdt.CreatedAt,
		UpdatedAt:        cdt.LastUpdatedAt,
	}
}

// ToCDTResponses converts a slice of domain.CDT to []CDTResponse.
func ToCDTResponses(cdts []domain.CDT) []CDTResponse {
	responses := make([]CDTResponse, len(cdts))
	for i := range cdts {
		responses[i] = ToCDTResponse(&cdts[i])
	}
	return responses
}

// ToAuditLogResponse converts a domain.AuditLog to its response DTO.
func ToAuditLogResponse(entry *domain.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		AuditID:   entry.AuditID,
		CDTID:     entry.CDTID,
		Action:    string(entry.Action),
		Details:   entry.Details,
		CreatedAt: entry.CreatedAt,
	}
}

// ToAuditLogResponses converts a slice of domain.AuditLog to []AuditLogResponse.
func ToAuditLogResponses(entries []domain.AuditLog) []AuditLogResponse {
	responses := make([]AuditLogResponse, len(entries))
	for i := range entries {
		responses[i] = ToAuditLogResponse(&entries[i])
	}
	return responses
}
