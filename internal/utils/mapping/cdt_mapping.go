package mapping

import (
	"github.com/SscSPs/cdt_management_app/internal/core/domain"
	"github.com/SscSPs/cdt_management_app/internal/models"
)

// ToModelCDT converts a domain certificate to its database model.
func ToModelCDT(cdt domain.CDT) models.CDT {
	return models.CDT{
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
		AuditFields:      ToModelAuditFields(cdt.AuditFields),
	}
}

// ToDomainCDT converts a database model to the domain certificate.
func ToDomainCDT(m models.CDT) domain.CDT {
	return domain.CDT{
		CDTID:            m.CDTID,
		UserID:           m.UserID,
		Amount:           m.Amount,
		TermDays:         m.TermDays,
		InterestRate:     m.InterestRate,
		StartDate:        m.StartDate,
		EndDate:          m.EndDate,
		EstimatedReturn:  m.EstimatedReturn,
		Status:           domain.CDTStatus(m.Status),
		RenovationOption: domain.RenovationOption(m.RenovationOption),
		SubmittedAt:      m.SubmittedAt,
		ReviewedBy:       m.ReviewedBy,
		ReviewedAt:       m.ReviewedAt,
		AdminNotes:       m.AdminNotes,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCDTSlice converts a slice of models to domain certificates.
func ToDomainCDTSlice(ms []models.CDT) []domain.CDT {
	out := make([]domain.CDT, len(ms))
	for i, m := range ms {
		out[i] = ToDomainCDT(m)
	}
	return out
}
