package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/cdt_management_app/internal/apperrors"
	"github.com/SscSPs/cdt_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/cdt_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cdt_management_app/internal/core/ports/services"
	"github.com/SscSPs/cdt_management_app/internal/dto"
	"github.com/SscSPs/cdt_management_app/internal/middleware"
	"github.com/SscSPs/cdt_management_app/internal/utils/interest"
)

// daysPerMonth converts month-based terms to the canonical day count.
const daysPerMonth = 30

// Cache keys. Per-entity and list keys embed their parameters; the two
// aggregates are single keys with short TTLs.
const (
	cacheKeyPendingCDTs = "pending_cdts"
	cacheKeyAdminStats  = "admin_stats"
)

func cdtCacheKey(cdtID string) string {
	return "cdt:" + cdtID
}

func userListCacheKey(userID string, f domain.ListFilters) string {
	return "cdts:user:" + userID + ":" + listKeySuffix(f)
}

func allListCacheKey(f domain.ListFilters) string {
	return "cdts:all:" + listKeySuffix(f)
}

func listKeySuffix(f domain.ListFilters) string {
	status := "ANY"
	if f.Status != nil {
		status = string(*f.Status)
	}
	user := "ANY"
	if f.UserID != nil {
		user = *f.UserID
	}
	return status + ":" + user + ":" + strconv.Itoa(f.Limit) + ":" + strconv.Itoa(f.Offset)
}

// CacheTTLs configures how long each class of read stays cached. Volatile
// aggregates (pending queue, admin stats) get the shortest TTL.
type CacheTTLs struct {
	Entity time.Duration
	List   time.Duration
	Stats  time.Duration
}

// DefaultCacheTTLs returns the TTLs used when configuration does not override them.
func DefaultCacheTTLs() CacheTTLs {
	return CacheTTLs{
		Entity: 5 * time.Minute,
		List:   time.Minute,
		Stats:  30 * time.Second,
	}
}

// cdtService implements the certificate lifecycle engine and its cache-backed
// query facade.
type cdtService struct {
	cdtRepo   portsrepo.CDTRepositoryWithTx
	auditRepo portsrepo.AuditRepositoryFacade
	cache     portsrepo.Cache
	ttls      CacheTTLs
}

// NewCDTService creates a new certificate service.
func NewCDTService(cdtRepo portsrepo.CDTRepositoryWithTx, auditRepo portsrepo.AuditRepositoryFacade, cache portsrepo.Cache, ttls CacheTTLs) portssvc.CDTSvcFacade {
	return &cdtService{
		cdtRepo:   cdtRepo,
		auditRepo: auditRepo,
		cache:     cache,
		ttls:      ttls,
	}
}

// Ensure cdtService implements the portssvc.CDTSvcFacade interface
var _ portssvc.CDTSvcFacade = (*cdtService)(nil)

// --- Lifecycle operations ---

// CreateCDT opens a new certificate in DRAFT for the given owner.
func (s *cdtService) CreateCDT(ctx context.Context, userID string, req dto.CreateCDTRequest) (*domain.CDT, error) {
	if req.Amount.IsNegative() || req.Amount.IsZero() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if req.InterestRate.IsNegative() || req.InterestRate.IsZero() {
		return nil, fmt.Errorf("%w: interest rate must be positive", apperrors.ErrValidation)
	}

	termDays, err := resolveTermDays(req)
	if err != nil {
		return nil, err
	}

	renovation := domain.RenovationNone
	if req.RenovationOption != "" {
		renovation = domain.RenovationOption(strings.ToUpper(req.RenovationOption))
		if !renovation.IsValid() {
			return nil, fmt.Errorf("%w: unknown renovation option %q", apperrors.ErrValidation, req.RenovationOption)
		}
	}

	now := time.Now().UTC()
	startDate := now
	if req.StartDate != nil {
		startDate = req.StartDate.UTC()
	}

	cdt := domain.CDT{
		CDTID:            uuid.NewString(),
		UserID:           userID,
		Amount:           req.Amount,
		TermDays:         termDays,
		InterestRate:     req.InterestRate,
		StartDate:        startDate,
		EndDate:          startDate.AddDate(0, 0, termDays),
		EstimatedReturn:  interest.CalculateReturn(req.Amount, req.InterestRate, termDays),
		Status:           domain.StatusDraft,
		RenovationOption: renovation,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	amount := cdt.Amount
	entry := domain.AuditLog{
		AuditID: uuid.NewString(),
		CDTID:   cdt.CDTID,
		Action:  domain.ActionCreated,
		Details: domain.AuditDetails{
			ActorID:   userID,
			NewStatus: domain.StatusDraft,
			Amount:    &amount,
		},
		CreatedAt: now,
	}

	if err := s.cdtRepo.SaveCDT(ctx, cdt, entry); err != nil {
		return nil, err
	}

	s.invalidateAfterWrite(ctx, cdt.CDTID, cdt.UserID)
	return &cdt, nil
}

// SubmitForReview moves an owner's DRAFT certificate to PENDING.
func (s *cdtService) SubmitForReview(ctx context.Context, cdtID string, userID string) (*domain.CDT, error) {
	cdt, err := s.cdtRepo.FindCDTByID(ctx, cdtID)
	if err != nil {
		return nil, err
	}
	if cdt.UserID != userID {
		return nil, fmt.Errorf("%w: user %s does not own cdt %s", apperrors.ErrPermissionDenied, userID, cdtID)
	}
	if cdt.Status != domain.StatusDraft {
		return nil, fmt.Errorf("%w: cdt %s is %s, only DRAFT certificates can be submitted for review", apperrors.ErrPreconditionFailed, cdtID, cdt.Status)
	}

	now := time.Now().UTC()
	patch := domain.StatusPatch{
		NewStatus:   domain.StatusPending,
		SubmittedAt: &now,
		UpdatedAt:   now,
		UpdatedBy:   userID,
	}
	details := domain.AuditDetails{
		ActorID:        userID,
		PreviousStatus: domain.StatusDraft,
		NewStatus:      domain.StatusPending,
	}
	return s.applyTransition(ctx, cdt, domain.StatusDraft, patch, domain.ActionSubmittedForReview, details)
}

// Approve moves a PENDING certificate to ACTIVE, recording the reviewer.
func (s *cdtService) Approve(ctx context.Context, cdtID string, adminID string, notes string) (*domain.CDT, error) {
	cdt, err := s.cdtRepo.FindCDTByID(ctx, cdtID)
	if err != nil {
		return nil, err
	}
	if cdt.Status != domain.StatusPending {
		return nil, fmt.Errorf("%w: cdt %s is %s, only PENDING certificates can be approved", apperrors.ErrPreconditionFailed, cdtID, cdt.Status)
	}

	now := time.Now().UTC()
	patch := domain.StatusPatch{
		NewStatus:  domain.StatusActive,
		ReviewedBy: &adminID,
		ReviewedAt: &now,
		UpdatedAt:  now,
		UpdatedBy:  adminID,
	}
	notes = strings.TrimSpace(notes)
	if notes != "" {
		patch.AdminNotes = &notes
	}
	details := domain.AuditDetails{
		ActorID:        adminID,
		PreviousStatus: domain.StatusPending,
		NewStatus:      domain.StatusActive,
		AdminNotes:     notes,
	}
	return s.applyTransition(ctx, cdt, domain.StatusPending, patch, domain.ActionApproved, details)
}

// Reject moves a PENDING certificate to REJECTED; the reason is mandatory.
func (s *cdtService) Reject(ctx context.Context, cdtID string, adminID string, reason string) (*domain.CDT, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", apperrors.ErrPreconditionFailed)
	}

	cdt, err := s.cdtRepo.FindCDTByID(ctx, cdtID)
	if err != nil {
		return nil, err
	}
	if cdt.Status != domain.StatusPending {
		return nil, fmt.Errorf("%w: cdt %s is %s, only PENDING certificates can be rejected", apperrors.ErrPreconditionFailed, cdtID, cdt.Status)
	}

	now := time.Now().UTC()
	patch := domain.StatusPatch{
		NewStatus:  domain.StatusRejected,
		ReviewedBy: &adminID,
		ReviewedAt: &now,
		AdminNotes: &reason,
		UpdatedAt:  now,
		UpdatedBy:  adminID,
	}
	details := domain.AuditDetails{
		ActorID:        adminID,
		PreviousStatus: domain.StatusPending,
		NewStatus:      domain.StatusRejected,
		Reason:         reason,
	}
	return s.applyTransition(ctx, cdt, domain.StatusPending, patch, domain.ActionRejected, details)
}

// Cancel moves a PENDING or ACTIVE certificate to CANCELLED. Non-admin actors
// must own the certificate and may only cancel while it is PENDING.
func (s *cdtService) Cancel(ctx context.Context, cdtID string, actorID string, actorRole domain.UserRole, reason string) (*domain.CDT, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: cancellation reason is required", apperrors.ErrPreconditionFailed)
	}

	cdt, err := s.cdtRepo.FindCDTByID(ctx, cdtID)
	if err != nil {
		return nil, err
	}
	if !actorRole.IsAdmin() && cdt.UserID != actorID {
		return nil, fmt.Errorf("%w: user %s does not own cdt %s", apperrors.ErrPermissionDenied, actorID, cdtID)
	}

	switch cdt.Status {
	case domain.StatusPending:
		// Owner or admin may cancel.
	case domain.StatusActive:
		if !actorRole.IsAdmin() {
			return nil, fmt.Errorf("%w: only an admin can cancel an ACTIVE certificate", apperrors.ErrPermissionDenied)
		}
	case domain.StatusDraft:
		return nil, fmt.Errorf("%w: cdt %s is still DRAFT and has not been submitted", apperrors.ErrPreconditionFailed, cdtID)
	default:
		return nil, fmt.Errorf("%w: cdt %s is already %s", apperrors.ErrPreconditionFailed, cdtID, cdt.Status)
	}

	now := time.Now().UTC()
	patch := domain.StatusPatch{
		NewStatus:  domain.StatusCancelled,
		AdminNotes: &reason,
		UpdatedAt:  now,
		UpdatedBy:  actorID,
	}
	details := domain.AuditDetails{
		ActorID:        actorID,
		PreviousStatus: cdt.Status,
		NewStatus:      domain.StatusCancelled,
		Reason:         reason,
	}
	return s.applyTransition(ctx, cdt, cdt.Status, patch, domain.ActionCancelled, details)
}

// Complete moves an ACTIVE certificate to COMPLETED at term end. Invoked by an
// external scheduler, so the recorded actor is the system.
func (s *cdtService) Complete(ctx context.Context, cdtID string) (*domain.CDT, error) {
	cdt, err := s.cdtRepo.FindCDTByID(ctx, cdtID)
	if err != nil {
		return nil, err
	}
	if cdt.Status != domain.StatusActive {
		return nil, fmt.Errorf("%w: cdt %s is %s, only ACTIVE certificates can be completed", apperrors.ErrPreconditionFailed, cdtID, cdt.Status)
	}

	now := time.Now().UTC()
	finalAmount := cdt.Amount.Add(cdt.EstimatedReturn)
	patch := domain.StatusPatch{
		NewStatus: domain.StatusCompleted,
		UpdatedAt: now,
		UpdatedBy: domain.SystemActorID,
	}
	details := domain.AuditDetails{
		ActorID:        domain.SystemActorID,
		PreviousStatus: domain.StatusActive,
		NewStatus:      domain.StatusCompleted,
		FinalAmount:    &finalAmount,
	}
	return s.applyTransition(ctx, cdt, domain.StatusActive, patch, domain.ActionCompleted, details)
}

// ChangeStatus performs a free-form transition validated only against the
// generic lifecycle table.
func (s *cdtService) ChangeStatus(ctx context.Context, cdtID string, to domain.CDTStatus, actorID string) (*domain.CDT, error) {
	if !to.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, to)
	}

	cdt, err := s.cdtRepo.FindCDTByID(ctx, cdtID)
	if err != nil {
		return nil, err
	}
	if !domain.ValidateTransition(cdt.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, cdt.Status, to)
	}

	now := time.Now().UTC()
	patch := domain.StatusPatch{
		NewStatus: to,
		UpdatedAt: now,
		UpdatedBy: actorID,
	}
	details := domain.AuditDetails{
		ActorID:        actorID,
		PreviousStatus: cdt.Status,
		NewStatus:      to,
	}
	return s.applyTransition(ctx, cdt, cdt.Status, patch, domain.ActionStatusChanged, details)
}

// applyTransition performs the conditional status write plus audit append, and
// maps a zero-row update to a conflict after a fresh read. The returned
// certificate mirrors what the store now holds.
func (s *cdtService) applyTransition(ctx context.Context, cdt *domain.CDT, expected domain.CDTStatus, patch domain.StatusPatch, action domain.AuditAction, details domain.AuditDetails) (*domain.CDT, error) {
	entry := domain.AuditLog{
		AuditID:   uuid.NewString(),
		CDTID:     cdt.CDTID,
		Action:    action,
		Details:   details,
		CreatedAt: patch.UpdatedAt,
	}

	rows, err := s.cdtRepo.UpdateStatusWhere(ctx, cdt.CDTID, expected, patch, entry)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// Lost a concurrent race: the row no longer has the status we
		// validated against. Re-read so the error names the actual status.
		current, rerr := s.cdtRepo.FindCDTByID(ctx, cdt.CDTID)
		if rerr != nil {
			return nil, rerr
		}
		return nil, fmt.Errorf("%w: cdt %s is now %s, expected %s", apperrors.ErrConflict, cdt.CDTID, current.Status, expected)
	}

	updated := patch.Apply(*cdt)
	s.invalidateAfterWrite(ctx, updated.CDTID, updated.UserID)
	return &updated, nil
}

// --- Query facade ---

// GetCDTByID retrieves one certificate, cache first. Non-admin requesters must
// own it.
func (s *cdtService) GetCDTByID(ctx context.Context, cdtID string, requestingUserID string, requestingRole domain.UserRole) (*domain.CDT, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	key := cdtCacheKey(cdtID)

	var cdt domain.CDT
	hit, err := s.cache.Get(ctx, key, &cdt)
	if err != nil {
		logger.Warn("Cache read failed, falling back to store", slog.String("key", key), slog.String("error", err.Error()))
		hit = false
	}
	if !hit {
		found, err := s.cdtRepo.FindCDTByID(ctx, cdtID)
		if err != nil {
			return nil, err
		}
		cdt = *found
		if err := s.cache.Set(ctx, key, cdt, s.ttls.Entity); err != nil {
			logger.Warn("Cache write failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}

	if !requestingRole.IsAdmin() && cdt.UserID != requestingUserID {
		return nil, fmt.Errorf("%w: user %s does not own cdt %s", apperrors.ErrPermissionDenied, requestingUserID, cdtID)
	}
	return &cdt, nil
}

// ListCDTs retrieves a paginated, filtered list across all users (admin view).
func (s *cdtService) ListCDTs(ctx context.Context, params dto.ListCDTsParams) (*dto.ListCDTsResponse, error) {
	filters, err := filtersFromParams(params)
	if err != nil {
		return nil, err
	}
	return s.listWithCache(ctx, allListCacheKey(filters), filters)
}

// ListCDTsByUser retrieves a paginated list of one user's certificates.
func (s *cdtService) ListCDTsByUser(ctx context.Context, userID string, params dto.ListCDTsParams) (*dto.ListCDTsResponse, error) {
	filters, err := filtersFromParams(params)
	if err != nil {
		return nil, err
	}
	filters.UserID = &userID
	return s.listWithCache(ctx, userListCacheKey(userID, filters), filters)
}

// GetPendingCDTs retrieves the review queue, cache first with a short TTL.
func (s *cdtService) GetPendingCDTs(ctx context.Context) ([]domain.CDT, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var cdts []domain.CDT
	hit, err := s.cache.Get(ctx, cacheKeyPendingCDTs, &cdts)
	if err != nil {
		logger.Warn("Cache read failed, falling back to store", slog.String("key", cacheKeyPendingCDTs), slog.String("error", err.Error()))
		hit = false
	}
	if hit {
		return cdts, nil
	}

	// The review queue is an internal listing, not a client page: walk the
	// store until a short page so a deep backlog is never truncated.
	pending := domain.StatusPending
	cdts = nil
	for offset := 0; ; offset += domain.MaxListLimit {
		page, err := s.cdtRepo.ListCDTs(ctx, domain.ListFilters{Status: &pending, Limit: domain.MaxListLimit, Offset: offset})
		if err != nil {
			return nil, err
		}
		cdts = append(cdts, page...)
		if len(page) < domain.MaxListLimit {
			break
		}
	}
	if err := s.cache.Set(ctx, cacheKeyPendingCDTs, cdts, s.ttls.Stats); err != nil {
		logger.Warn("Cache write failed", slog.String("key", cacheKeyPendingCDTs), slog.String("error", err.Error()))
	}
	return cdts, nil
}

// GetAdminStats retrieves the aggregate status counts and financial summary,
// cache first with a short TTL.
func (s *cdtService) GetAdminStats(ctx context.Context) (*domain.AdminStats, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var stats domain.AdminStats
	hit, err := s.cache.Get(ctx, cacheKeyAdminStats, &stats)
	if err != nil {
		logger.Warn("Cache read failed, falling back to store", slog.String("key", cacheKeyAdminStats), slog.String("error", err.Error()))
		hit = false
	}
	if hit {
		return &stats, nil
	}

	fresh, err := s.cdtRepo.GetAdminStats(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, cacheKeyAdminStats, fresh, s.ttls.Stats); err != nil {
		logger.Warn("Cache write failed", slog.String("key", cacheKeyAdminStats), slog.String("error", err.Error()))
	}
	return fresh, nil
}

// ListAuditTrail retrieves the audit entries for a certificate, oldest first.
// Served straight from the store: compliance reviews must never see a stale
// ledger.
func (s *cdtService) ListAuditTrail(ctx context.Context, cdtID string, requestingUserID string, requestingRole domain.UserRole) ([]domain.AuditLog, error) {
	cdt, err := s.cdtRepo.FindCDTByID(ctx, cdtID)
	if err != nil {
		return nil, err
	}
	if !requestingRole.IsAdmin() && cdt.UserID != requestingUserID {
		return nil, fmt.Errorf("%w: user %s does not own cdt %s", apperrors.ErrPermissionDenied, requestingUserID, cdtID)
	}
	return s.auditRepo.ListByCDTID(ctx, cdtID)
}

// listWithCache serves a listing from cache or builds it from the store:
// page query plus a count sharing the same filters.
func (s *cdtService) listWithCache(ctx context.Context, key string, filters domain.ListFilters) (*dto.ListCDTsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var cached dto.ListCDTsResponse
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("Cache read failed, falling back to store", slog.String("key", key), slog.String("error", err.Error()))
		hit = false
	}
	if hit {
		return &cached, nil
	}

	cdts, err := s.cdtRepo.ListCDTs(ctx, filters)
	if err != nil {
		return nil, err
	}
	total, err := s.cdtRepo.CountCDTs(ctx, filters.WithoutPagination())
	if err != nil {
		return nil, err
	}

	resp := &dto.ListCDTsResponse{
		CDTs:       dto.ToCDTResponses(cdts),
		Total:      total,
		Limit:      filters.Limit,
		Offset:     filters.Offset,
		TotalPages: totalPages(total, filters.Limit),
	}
	if err := s.cache.Set(ctx, key, resp, s.ttls.List); err != nil {
		logger.Warn("Cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return resp, nil
}

// invalidateAfterWrite removes the per-entity key and every list/aggregate key
// that could contain the certificate. Cache failures are logged and swallowed:
// correctness depends on the store, not the cache.
func (s *cdtService) invalidateAfterWrite(ctx context.Context, cdtID string, ownerID string) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.cache.Delete(ctx, cdtCacheKey(cdtID)); err != nil {
		logger.Warn("Cache invalidation failed", slog.String("key", cdtCacheKey(cdtID)), slog.String("error", err.Error()))
	}
	if _, err := s.cache.InvalidatePattern(ctx, "cdts:user:"+ownerID+":"); err != nil {
		logger.Warn("Cache invalidation failed", slog.String("pattern", "cdts:user:"+ownerID+":*"), slog.String("error", err.Error()))
	}
	if _, err := s.cache.InvalidatePattern(ctx, "cdts:all:"); err != nil {
		logger.Warn("Cache invalidation failed", slog.String("pattern", "cdts:all:*"), slog.String("error", err.Error()))
	}
	if err := s.cache.Delete(ctx, cacheKeyPendingCDTs); err != nil {
		logger.Warn("Cache invalidation failed", slog.String("key", cacheKeyPendingCDTs), slog.String("error", err.Error()))
	}
	if err := s.cache.Delete(ctx, cacheKeyAdminStats); err != nil {
		logger.Warn("Cache invalidation failed", slog.String("key", cacheKeyAdminStats), slog.String("error", err.Error()))
	}
}

// resolveTermDays converts the request's term into days. Exactly one of
// termDays/termMonths must be provided.
func resolveTermDays(req dto.CreateCDTRequest) (int, error) {
	switch {
	case req.TermDays != nil && req.TermMonths != nil:
		return 0, fmt.Errorf("%w: provide termDays or termMonths, not both", apperrors.ErrValidation)
	case req.TermDays != nil:
		if *req.TermDays <= 0 {
			return 0, fmt.Errorf("%w: termDays must be positive", apperrors.ErrValidation)
		}
		return *req.TermDays, nil
	case req.TermMonths != nil:
		if *req.TermMonths <= 0 {
			return 0, fmt.Errorf("%w: termMonths must be positive", apperrors.ErrValidation)
		}
		return *req.TermMonths * daysPerMonth, nil
	default:
		return 0, fmt.Errorf("%w: a term is required", apperrors.ErrValidation)
	}
}

// filtersFromParams validates the optional status filter and normalizes
// limit/offset.
func filtersFromParams(params dto.ListCDTsParams) (domain.ListFilters, error) {
	filters := domain.ListFilters{
		Limit:  params.Limit,
		Offset: params.Offset,
	}
	if params.Status != "" {
		status := domain.CDTStatus(strings.ToUpper(params.Status))
		if !status.IsValid() {
			return domain.ListFilters{}, fmt.Errorf("%w: unknown status filter %q", apperrors.ErrValidation, params.Status)
		}
		filters.Status = &status
	}
	if params.UserID != "" {
		userID := params.UserID
		filters.UserID = &userID
	}
	return filters.Normalize(), nil
}

// totalPages computes ceil(total/limit) for pagination metadata.
func totalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
