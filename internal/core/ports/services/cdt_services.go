package services

import (
	"context"

	"github.com/SscSPs/cdt_management_app/internal/core/domain"
	"github.com/SscSPs/cdt_management_app/internal/dto"
)

// CDTReaderSvc defines read operations over certificates. Reads consult the
// cache first and repopulate it on miss.
type CDTReaderSvc interface {
	// GetCDTByID retrieves one certificate. Non-admin requesters must own it.
	GetCDTByID(ctx context.Context, cdtID string, requestingUserID string, requestingRole domain.UserRole) (*domain.CDT, error)

	// ListCDTs retrieves a paginated, filtered list across all users (admin view).
	ListCDTs(ctx context.Context, params dto.ListCDTsParams) (*dto.ListCDTsResponse, error)

	// ListCDTsByUser retrieves a paginated list of one user's certificates.
	ListCDTsByUser(ctx context.Context, userID string, params dto.ListCDTsParams) (*dto.ListCDTsResponse, error)

	// GetPendingCDTs retrieves the certificates awaiting review.
	GetPendingCDTs(ctx context.Context) ([]domain.CDT, error)

	// GetAdminStats retrieves the aggregate status counts and financial summary.
	GetAdminStats(ctx context.Context) (*domain.AdminStats, error)

	// ListAuditTrail retrieves the audit entries for a certificate, oldest
	// first. Non-admin requesters must own the certificate.
	ListAuditTrail(ctx context.Context, cdtID string, requestingUserID string, requestingRole domain.UserRole) ([]domain.AuditLog, error)
}

// CDTLifecycleSvc defines the state-changing operations. Every successful call
// writes exactly one audit entry in the same transaction as the status write
// and invalidates the affected cache keys before returning.
type CDTLifecycleSvc interface {
	// CreateCDT opens a new certificate in DRAFT for the given owner.
	CreateCDT(ctx context.Context, userID string, req dto.CreateCDTRequest) (*domain.CDT, error)

	// SubmitForReview moves an owner's DRAFT certificate to PENDING.
	SubmitForReview(ctx context.Context, cdtID string, userID string) (*domain.CDT, error)

	// Approve moves a PENDING certificate to ACTIVE, recording the reviewer.
	Approve(ctx context.Context, cdtID string, adminID string, notes string) (*domain.CDT, error)

	// Reject moves a PENDING certificate to REJECTED; reason is mandatory.
	Reject(ctx context.Context, cdtID string, adminID string, reason string) (*domain.CDT, error)

	// Cancel moves a PENDING or ACTIVE certificate to CANCELLED. Non-admin
	// actors must own the certificate and may only cancel while it is PENDING.
	Cancel(ctx context.Context, cdtID string, actorID string, actorRole domain.UserRole, reason string) (*domain.CDT, error)

	// Complete moves an ACTIVE certificate to COMPLETED. Invoked by an external
	// scheduler at term end, not by a human actor.
	Complete(ctx context.Context, cdtID string) (*domain.CDT, error)

	// ChangeStatus performs a free-form transition validated only against the
	// generic lifecycle table. The dedicated operations above are stricter and
	// should be preferred.
	ChangeStatus(ctx context.Context, cdtID string, to domain.CDTStatus, actorID string) (*domain.CDT, error)
}

// CDTSvcFacade combines all certificate service interfaces.
type CDTSvcFacade interface {
	CDTReaderSvc
	CDTLifecycleSvc
}
