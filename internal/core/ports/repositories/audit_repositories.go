package repositories

import (
	"context"

	"github.com/SscSPs/cdt_management_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// AuditRepositoryFacade defines the persistence operations for the append-only
// audit ledger. Entries are immutable: there are no update or delete methods.
type AuditRepositoryFacade interface {
	// AppendAuditLog writes one entry outside any caller transaction. A failure
	// must propagate; audit completeness is a compliance requirement.
	AppendAuditLog(ctx context.Context, entry domain.AuditLog) error

	// AppendAuditLogInTx writes one entry inside the caller's transaction so
	// the entry and its triggering state change commit or roll back together.
	AppendAuditLogInTx(ctx context.Context, tx pgx.Tx, entry domain.AuditLog) error

	// ListByCDTID returns all entries for a certificate, oldest first.
	ListByCDTID(ctx context.Context, cdtID string) ([]domain.AuditLog, error)
}
