package repositories

import (
	"context"

	"github.com/SscSPs/cdt_management_app/internal/core/domain"
)

// CDTRepositoryFacade defines the persistence operations for certificates.
type CDTRepositoryFacade interface {
	// SaveCDT inserts a new certificate and its creation audit entry in one
	// database transaction.
	SaveCDT(ctx context.Context, cdt domain.CDT, entry domain.AuditLog) error

	// FindCDTByID retrieves a certificate by ID, apperrors.ErrNotFound if missing.
	FindCDTByID(ctx context.Context, cdtID string) (*domain.CDT, error)

	// UpdateStatusWhere applies the patch only if the certificate currently has
	// the expected status, and appends the audit entry in the same transaction.
	// It returns the number of rows matched: 0 means the precondition no longer
	// holds (a concurrent writer won the race) and nothing was written,
	// including the audit entry.
	UpdateStatusWhere(ctx context.Context, cdtID string, expected domain.CDTStatus, patch domain.StatusPatch, entry domain.AuditLog) (int64, error)

	// ListCDTs returns a page of certificates matching the filters, newest first.
	ListCDTs(ctx context.Context, filters domain.ListFilters) ([]domain.CDT, error)

	// CountCDTs mirrors ListCDTs filters without pagination.
	CountCDTs(ctx context.Context, filters domain.ListFilters) (int64, error)

	// GetAdminStats aggregates per-status counts and the financial summary over
	// active certificates.
	GetAdminStats(ctx context.Context) (*domain.AdminStats, error)
}

// CDTRepositoryWithTx is the facade plus transaction management.
type CDTRepositoryWithTx interface {
	CDTRepositoryFacade
	TransactionManager
}
