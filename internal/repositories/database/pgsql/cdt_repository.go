package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/SscSPs/cdt_management_app/internal/apperrors"
	"github.com/SscSPs/cdt_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/cdt_management_app/internal/core/ports/repositories"
	"github.com/SscSPs/cdt_management_app/internal/models"
	"github.com/SscSPs/cdt_management_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const cdtColumns = `
	cdt_id, user_id, amount, term_days, interest_rate, start_date, end_date,
	estimated_return, status, renovation_option, submitted_at, reviewed_by,
	reviewed_at, admin_notes, created_at, created_by, last_updated_at, last_updated_by
`

type PgxCDTRepository struct {
	BaseRepository
	auditRepo portsrepo.AuditRepositoryFacade
}

// newPgxCDTRepository creates a new repository for certificate data. The audit
// repository is injected so lifecycle writes can append their ledger entry
// inside the same transaction.
func newPgxCDTRepository(pool *pgxpool.Pool, auditRepo portsrepo.AuditRepositoryFacade) portsrepo.CDTRepositoryWithTx {
	return &PgxCDTRepository{
		BaseRepository: BaseRepository{Pool: pool},
		auditRepo:      auditRepo,
	}
}

// Ensure PgxCDTRepository implements portsrepo.CDTRepositoryWithTx
var _ portsrepo.CDTRepositoryWithTx = (*PgxCDTRepository)(nil)

// SaveCDT inserts a new certificate and its creation audit entry in one
// database transaction.
func (r *PgxCDTRepository) SaveCDT(ctx context.Context, cdt domain.CDT, entry domain.AuditLog) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Ignored once the transaction is committed

	m := mapping.ToModelCDT(cdt)
	query := `
		INSERT INTO cdts (` + cdtColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err = tx.Exec(ctx, query,
		m.CDTID,
		m.UserID,
		m.Amount,
		m.TermDays,
		m.InterestRate,
		m.StartDate,
		m.EndDate,
		m.EstimatedReturn,
		m.Status,
		m.RenovationOption,
		m.SubmittedAt,
		m.ReviewedBy,
		m.ReviewedAt,
		m.AdminNotes,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert cdt %s: %w", m.CDTID, err)
	}

	if err := r.auditRepo.AppendAuditLogInTx(ctx, tx, entry); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// FindCDTByID retrieves a certificate by its ID.
func (r *PgxCDTRepository) FindCDTByID(ctx context.Context, cdtID string) (*domain.CDT, error) {
	query := `SELECT ` + cdtColumns + ` FROM cdts WHERE cdt_id = $1;`

	m, err := scanCDT(r.Pool.QueryRow(ctx, query, cdtID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find cdt by ID %s: %w", cdtID, err)
	}

	cdt := mapping.ToDomainCDT(*m)
	return &cdt, nil
}

// UpdateStatusWhere applies the patch only when the certificate still has the
// expected status, and appends the audit entry in the same transaction. Zero
// rows matched means a concurrent writer changed the status first; nothing is
// written in that case, including the audit entry.
func (r *PgxCDTRepository) UpdateStatusWhere(ctx context.Context, cdtID string, expected domain.CDTStatus, patch domain.StatusPatch, entry domain.AuditLog) (int64, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE cdts
		SET status = $3,
		    submitted_at = COALESCE($4, submitted_at),
		    reviewed_by = COALESCE($5, reviewed_by),
		    reviewed_at = COALESCE($6, reviewed_at),
		    admin_notes = COALESCE($7, admin_notes),
		    last_updated_at = $8,
		    last_updated_by = $9
		WHERE cdt_id = $1 AND status = $2;
	`
	cmdTag, err := tx.Exec(ctx, query,
		cdtID,
		string(expected),
		string(patch.NewStatus),
		patch.SubmittedAt,
		patch.ReviewedBy,
		patch.ReviewedAt,
		patch.AdminNotes,
		patch.UpdatedAt,
		patch.UpdatedBy,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update status for cdt %s: %w", cdtID, err)
	}

	rows := cmdTag.RowsAffected()
	if rows == 0 {
		// Lost the race; leave no trace.
		return 0, r.Rollback(ctx, tx)
	}

	if err := r.auditRepo.AppendAuditLogInTx(ctx, tx, entry); err != nil {
		return 0, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, err
	}
	return rows, nil
}

// ListCDTs retrieves a page of certificates matching the filters, newest first.
func (r *PgxCDTRepository) ListCDTs(ctx context.Context, filters domain.ListFilters) ([]domain.CDT, error) {
	filters = filters.Normalize()

	query := `SELECT ` + cdtColumns + ` FROM cdts`
	where, args := buildCDTFilterClause(filters)
	query += where
	query += ` ORDER BY created_at DESC, cdt_id DESC`
	query += ` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2) + `;`
	args = append(args, filters.Limit, filters.Offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cdts: %w", err)
	}
	defer rows.Close()

	modelCDTs := make([]models.CDT, 0, filters.Limit)
	for rows.Next() {
		m, err := scanCDT(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cdt row: %w", err)
		}
		modelCDTs = append(modelCDTs, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cdt rows: %w", err)
	}

	return mapping.ToDomainCDTSlice(modelCDTs), nil
}

// CountCDTs mirrors ListCDTs filters without pagination.
func (r *PgxCDTRepository) CountCDTs(ctx context.Context, filters domain.ListFilters) (int64, error) {
	query := `SELECT COUNT(*) FROM cdts`
	where, args := buildCDTFilterClause(filters)
	query += where + `;`

	var count int64
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cdts: %w", err)
	}
	return count, nil
}

// GetAdminStats aggregates per-status counts plus the financial summary over
// active certificates in two queries.
func (r *PgxCDTRepository) GetAdminStats(ctx context.Context) (*domain.AdminStats, error) {
	stats := &domain.AdminStats{
		StatusCounts:         make(map[domain.CDTStatus]int64),
		TotalInvested:        decimal.Zero,
		TotalEstimatedReturn: decimal.Zero,
	}

	countRows, err := r.Pool.Query(ctx, `SELECT status, COUNT(*) FROM cdts GROUP BY status;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query status counts: %w", err)
	}
	defer countRows.Close()

	for countRows.Next() {
		var status string
		var count int64
		if err := countRows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count row: %w", err)
		}
		stats.StatusCounts[domain.CDTStatus(status)] = count
		stats.TotalCount += count
	}
	if err := countRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status count rows: %w", err)
	}

	sumQuery := `
		SELECT COALESCE(SUM(amount), 0), COALESCE(SUM(estimated_return), 0)
		FROM cdts
		WHERE status = $1;
	`
	err = r.Pool.QueryRow(ctx, sumQuery, string(domain.StatusActive)).
		Scan(&stats.TotalInvested, &stats.TotalEstimatedReturn)
	if err != nil {
		return nil, fmt.Errorf("failed to query financial summary: %w", err)
	}

	return stats, nil
}

// buildCDTFilterClause turns ListFilters into a WHERE clause with positional args.
func buildCDTFilterClause(filters domain.ListFilters) (string, []interface{}) {
	clause := ""
	args := []interface{}{}

	appendCond := func(cond string, value interface{}) {
		if clause == "" {
			clause = " WHERE "
		} else {
			clause += " AND "
		}
		args = append(args, value)
		clause += cond + "$" + strconv.Itoa(len(args))
	}

	if filters.Status != nil {
		appendCond("status = ", string(*filters.Status))
	}
	if filters.UserID != nil {
		appendCond("user_id = ", *filters.UserID)
	}

	return clause, args
}

// scanCDT scans one certificate row from either a pgx.Row or pgx.Rows.
func scanCDT(row pgx.Row) (*models.CDT, error) {
	var m models.CDT
	err := row.Scan(
		&m.CDTID,
		&m.UserID,
		&m.Amount,
		&m.TermDays,
		&m.InterestRate,
		&m.StartDate,
		&m.EndDate,
		&m.EstimatedReturn,
		&m.Status,
		&m.RenovationOption,
		&m.SubmittedAt,
		&m.ReviewedBy,
		&m.ReviewedAt,
		&m.AdminNotes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
