package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/cdt_management_app/internal/core/domain"
	"github.com/SscSPs/cdt_management_app/internal/models"
)

// ToModelAuditLog converts a domain audit entry to its database model,
// marshalling the structured details payload to JSON.
func ToModelAuditLog(entry domain.AuditLog) (models.AuditLog, error) {
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return models.AuditLog{}, fmt.Errorf("failed to marshal audit details for cdt %s: %w", entry.CDTID, err)
	}
	return models.AuditLog{
		AuditID:   entry.AuditID,
		CDTID:     entry.CDTID,
		Action:    string(entry.Action),
		Details:   details,
		CreatedAt: entry.CreatedAt,
	}, nil
}

// ToDomainAuditLog converts a database model to the domain audit entry.
// Unknown JSON fields in older rows are ignored.
func ToDomainAuditLog(m models.AuditLog) (domain.AuditLog, error) {
	var details domain.AuditDetails
	if len(m.Details) > 0 {
		if err := json.Unmarshal(m.Details, &details); err != nil {
			return domain.AuditLog{}, fmt.Errorf("failed to unmarshal audit details for entry %s: %w", m.AuditID, err)
		}
	}
	return domain.AuditLog{
		AuditID:   m.AuditID,
		CDTID:     m.CDTID,
		Action:    domain.AuditAction(m.Action),
		Details:   details,
		CreatedAt: m.CreatedAt,
	}, nil
}
