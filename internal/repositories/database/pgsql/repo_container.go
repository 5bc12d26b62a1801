package pgsql

import (
	portsrepo "github.com/SscSPs/cdt_management_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	auditRepo := newPgxAuditRepository(dbPool)
	cdtRepo := newPgxCDTRepository(dbPool, auditRepo)
	userRepo := newPgxUserRepository(dbPool)

	return portsrepo.RepositoryProvider{
		CDTRepo:   cdtRepo,
		AuditRepo: auditRepo,
		UserRepo:  userRepo,
	}
}
