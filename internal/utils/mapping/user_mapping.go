package mapping

import (
	"github.com/SscSPs/cdt_management_app/internal/core/domain"
	"github.com/SscSPs/cdt_management_app/internal/models"
)

// ToModelUser converts a domain user to its database model.
func ToModelUser(user domain.User) models.User {
	return models.User{
		UserID:       user.UserID,
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		AuditFields:  ToModelAuditFields(user.AuditFields),
		DeletedAt:    user.DeletedAt,
	}
}

// ToDomainUser converts a database model to the domain user.
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:       m.UserID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         domain.UserRole(m.Role),
		AuditFields:  ToDomainAuditFields(m.AuditFields),
		DeletedAt:    m.DeletedAt,
	}
}
