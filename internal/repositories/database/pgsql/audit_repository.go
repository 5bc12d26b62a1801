package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/cdt_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/cdt_management_app/internal/core/ports/repositories"
	"github.com/SscSPs/cdt_management_app/internal/models"
	"github.com/SscSPs/cdt_management_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const appendAuditLogQuery = `
	INSERT INTO cdt_audit_logs (audit_id, cdt_id, action, details, created_at)
	VALUES ($1, $2, $3, $4, $5);
`

type PgxAuditRepository struct {
	BaseRepository
}

// newPgxAuditRepository creates a new repository for the append-only audit ledger.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepositoryFacade {
	return &PgxAuditRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxAuditRepository implements portsrepo.AuditRepositoryFacade
var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

// AppendAuditLog writes one entry outside any caller transaction.
func (r *PgxAuditRepository) AppendAuditLog(ctx context.Context, entry domain.AuditLog) error {
	modelEntry, err := mapping.ToModelAuditLog(entry)
	if err != nil {
		return err
	}
	_, err = r.Pool.Exec(ctx, appendAuditLogQuery,
		modelEntry.AuditID,
		modelEntry.CDTID,
		modelEntry.Action,
		modelEntry.Details,
		modelEntry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit entry for cdt %s: %w", entry.CDTID, err)
	}
	return nil
}

// AppendAuditLogInTx writes one entry inside the caller's transaction so the
// entry and its triggering state change commit or roll back together.
func (r *PgxAuditRepository) AppendAuditLogInTx(ctx context.Context, tx pgx.Tx, entry domain.AuditLog) error {
	modelEntry, err := mapping.ToModelAuditLog(entry)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, appendAuditLogQuery,
		modelEntry.AuditID,
		modelEntry.CDTID,
		modelEntry.Action,
		modelEntry.Details,
		modelEntry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit entry for cdt %s in tx: %w", entry.CDTID, err)
	}
	return nil
}

// ListByCDTID retrieves all audit entries for a certificate, oldest first.
func (r *PgxAuditRepository) ListByCDTID(ctx context.Context, cdtID string) ([]domain.AuditLog, error) {
	query := `
		SELECT audit_id, cdt_id, action, details, created_at
		FROM cdt_audit_logs
		WHERE cdt_id = $1
		ORDER BY created_at, audit_id;
	`
	rows, err := r.Pool.Query(ctx, query, cdtID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries for cdt %s: %w", cdtID, err)
	}
	defer rows.Close()

	entries := []domain.AuditLog{}
	for rows.Next() {
		var m models.AuditLog
		if err := rows.Scan(&m.AuditID, &m.CDTID, &m.Action, &m.Details, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit row for cdt %s: %w", cdtID, err)
		}
		entry, err := mapping.ToDomainAuditLog(m)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit rows for cdt %s: %w", cdtID, err)
	}

	return entries, nil
}
