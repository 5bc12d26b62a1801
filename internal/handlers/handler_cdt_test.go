package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/cdt_management_app/internal/apperrors"
	"github.com/SscSPs/cdt_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/cdt_management_app/internal/core/ports/services"
	"github.com/SscSPs/cdt_management_app/internal/dto"
	"github.com/SscSPs/cdt_management_app/internal/handlers"
	"github.com/SscSPs/cdt_management_app/internal/platform/config"
	"github.com/SscSPs/cdt_management_app/internal/utils"
)

// --- Mock CDTService ---
type MockCDTService struct {
	mock.Mock
}

var _ portssvc.CDTSvcFacade = (*MockCDTService)(nil)

func (m *MockCDTService) CreateCDT(ctx context.Context, userID string, req dto.CreateCDTRequest) (*domain.CDT, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CDT), args.Error(1)
}

func (m *MockCDTService) SubmitForReview(ctx context.Context, cdtID string, userID string) (*domain.CDT, error) {
	args := m.Called(ctx, cdtID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CDT), args.Error(1)
}

func (m *MockCDTService) Approve(ctx context.Context, cdtID string, adminID string, notes string) (*domain.CDT, error) {
	args := m.Called(ctx, cdtID, adminID, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CDT), args.Error(1)
}

func (m *MockCDTService) Reject(ctx context.Context, cdtID string, adminID string, reason string) (*domain.CDT, error) {
	args := m.Called(ctx, cdtID, adminID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CDT), args.Error(1)
}

func (m *MockCDTService) Cancel(ctx context.Context, cdtID string, actorID string, actorRole domain.UserRole, reason string) (*domain.CDT, error) {
	args := m.Called(ctx, cdtID, actorID, actorRole, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CDT), args.Error(1)
}

func (m *MockCDTService) Complete(ctx context.Context, cdtID string) (*domain.CDT, error) {
	args := m.Called(ctx, cdtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CDT), args.Error(1)
}

func (m *MockCDTService) ChangeStatus(ctx context.Context, cdtID string, to domain.CDTStatus, actorID string) (*domain.CDT, error) {
	args := m.Called(ctx, cdtID, to, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CDT), args.Error(1)
}

func (m *MockCDTService) GetCDTByID(ctx context.Context, cdtID string, requestingUserID string, requestingRole domain.UserRole) (*domain.CDT, error) {
	args := m.Called(ctx, cdtID, requestingUserID, requestingRole)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CDT), args.Error(1)
}

func (m *MockCDTService) ListCDTs(ctx context.Context, params dto.ListCDTsParams) (*dto.ListCDTsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListCDTsResponse), args.Error(1)
}

func (m *MockCDTService) ListCDTsByUser(ctx context.Context, userID string, params dto.ListCDTsParams) (*dto.ListCDTsResponse, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListCDTsResponse), args.Error(1)
}

func (m *MockCDTService) GetPendingCDTs(ctx context.Context) ([]domain.CDT, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CDT), args.Error(1)
}

func (m *MockCDTService) GetAdminStats(ctx context.Context) (*domain.AdminStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminStats), args.Error(1)
}

func (m *MockCDTService) ListAuditTrail(ctx context.Context, cdtID string, requestingUserID string, requestingRole domain.UserRole) ([]domain.AuditLog, error) {
	args := m.Called(ctx, cdtID, requestingUserID, requestingRole)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditLog), args.Error(1)
}

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

func (m *MockUserService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, email string, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- Test Suite ---

type CDTHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockCDTService  *MockCDTService
	mockUserService *MockUserService
	jwtSecret       string

	userID  string
	adminID string
}

func (s *CDTHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.jwtSecret = "test-secret-key-that-is-long-enough"
	s.userID = uuid.NewString()
	s.adminID = uuid.NewString()

	s.mockCDTService = new(MockCDTService)
	s.mockUserService = new(MockUserService)

	cfg := &config.Config{
		JWTSecret:         s.jwtSecret,
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "cdt-test",
	}
	handlers.RegisterRoutes(s.router, cfg, &portssvc.ServiceContainer{
		CDT:  s.mockCDTService,
		User: s.mockUserService,
	})
}

func (s *CDTHandlerTestSuite) tokenFor(userID string, role domain.UserRole) string {
	token, err := utils.GenerateJWT(userID, string(role), s.jwtSecret, time.Hour, "cdt-test")
	s.Require().NoError(err)
	return token
}

func (s *CDTHandlerTestSuite) doJSON(method, url, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *CDTHandlerTestSuite) sampleCDT(status domain.CDTStatus) *domain.CDT {
	now := time.Now().UTC()
	return &domain.CDT{
		CDTID:            uuid.NewString(),
		UserID:           s.userID,
		Amount:           decimal.NewFromInt(10000000),
		TermDays:         360,
		InterestRate:     decimal.NewFromInt(12),
		StartDate:        now,
		EndDate:          now.AddDate(0, 0, 360),
		EstimatedReturn:  decimal.NewFromFloat(1256230.59),
		Status:           status,
		RenovationOption: domain.RenovationNone,
	}
}

// --- Test Cases ---

func (s *CDTHandlerTestSuite) TestCreateCDT_Success() {
	expected := s.sampleCDT(domain.StatusDraft)
	s.mockCDTService.On("CreateCDT", mock.Anything, s.userID, mock.AnythingOfType("dto.CreateCDTRequest")).
		Return(expected, nil).Once()

	termDays := 360
	w := s.doJSON(http.MethodPost, "/api/v1/cdts", s.tokenFor(s.userID, domain.RoleUser), dto.CreateCDTRequest{
		Amount:       decimal.NewFromInt(10000000),
		InterestRate: decimal.NewFromInt(12),
		TermDays:     &termDays,
	})

	s.Equal(http.StatusCreated, w.Code)
	var resp dto.CDTResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(expected.CDTID, resp.CDTID)
	s.Equal(string(domain.StatusDraft), resp.Status)
	s.mockCDTService.AssertExpectations(s.T())
}

func (s *CDTHandlerTestSuite) TestCreateCDT_Unauthenticated() {
	w := s.doJSON(http.MethodPost, "/api/v1/cdts", "", dto.CreateCDTRequest{})

	s.Equal(http.StatusUnauthorized, w.Code)
	s.mockCDTService.AssertNotCalled(s.T(), "CreateCDT", mock.Anything, mock.Anything, mock.Anything)
}

func (s *CDTHandlerTestSuite) TestGetCDT_NotFound() {
	cdtID := uuid.NewString()
	s.mockCDTService.On("GetCDTByID", mock.Anything, cdtID, s.userID, domain.RoleUser).
		Return(nil, fmt.Errorf("%w: cdt %s", apperrors.ErrNotFound, cdtID)).Once()

	w := s.doJSON(http.MethodGet, "/api/v1/cdts/"+cdtID, s.tokenFor(s.userID, domain.RoleUser), nil)

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *CDTHandlerTestSuite) TestSubmitCDT_PreconditionFailed() {
	cdtID := uuid.NewString()
	s.mockCDTService.On("SubmitForReview", mock.Anything, cdtID, s.userID).
		Return(nil, fmt.Errorf("%w: cdt %s is ACTIVE", apperrors.ErrPreconditionFailed, cdtID)).Once()

	w := s.doJSON(http.MethodPost, "/api/v1/cdts/"+cdtID+"/submit", s.tokenFor(s.userID, domain.RoleUser), nil)

	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Contains(w.Body.String(), "ACTIVE")
}

func (s *CDTHandlerTestSuite) TestCancelCDT_MissingReason() {
	w := s.doJSON(http.MethodPost, "/api/v1/cdts/"+uuid.NewString()+"/cancel", s.tokenFor(s.userID, domain.RoleUser), gin.H{})

	s.Equal(http.StatusBadRequest, w.Code)
	s.mockCDTService.AssertNotCalled(s.T(), "Cancel", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *CDTHandlerTestSuite) TestApproveCDT_RequiresAdmin() {
	w := s.doJSON(http.MethodPost, "/api/v1/admin/cdts/"+uuid.NewString()+"/approve", s.tokenFor(s.userID, domain.RoleUser), dto.ApproveCDTRequest{})

	s.Equal(http.StatusForbidden, w.Code)
	s.mockCDTService.AssertNotCalled(s.T(), "Approve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *CDTHandlerTestSuite) TestApproveCDT_Success() {
	expected := s.sampleCDT(domain.StatusActive)
	s.mockCDTService.On("Approve", mock.Anything, expected.CDTID, s.adminID, "ok").
		Return(expected, nil).Once()

	w := s.doJSON(http.MethodPost, "/api/v1/admin/cdts/"+expected.CDTID+"/approve", s.tokenFor(s.adminID, domain.RoleAdmin), dto.ApproveCDTRequest{Notes: "ok"})

	s.Equal(http.StatusOK, w.Code)
	var resp dto.CDTResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(string(domain.StatusActive), resp.Status)
}

func (s *CDTHandlerTestSuite) TestApproveCDT_ConflictFromConcurrentReview() {
	cdtID := uuid.NewString()
	s.mockCDTService.On("Approve", mock.Anything, cdtID, s.adminID, "").
		Return(nil, fmt.Errorf("%w: cdt %s is now ACTIVE", apperrors.ErrConflict, cdtID)).Once()

	w := s.doJSON(http.MethodPost, "/api/v1/admin/cdts/"+cdtID+"/approve", s.tokenFor(s.adminID, domain.RoleAdmin), dto.ApproveCDTRequest{})

	s.Equal(http.StatusConflict, w.Code)
}

func (s *CDTHandlerTestSuite) TestRejectCDT_MissingReason() {
	w := s.doJSON(http.MethodPost, "/api/v1/admin/cdts/"+uuid.NewString()+"/reject", s.tokenFor(s.adminID, domain.RoleAdmin), gin.H{})

	s.Equal(http.StatusBadRequest, w.Code)
	s.mockCDTService.AssertNotCalled(s.T(), "Reject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *CDTHandlerTestSuite) TestListMyCDTs_Success() {
	expected := &dto.ListCDTsResponse{
		CDTs:       dto.ToCDTResponses([]domain.CDT{*s.sampleCDT(domain.StatusDraft)}),
		Total:      1,
		Limit:      20,
		TotalPages: 1,
	}
	s.mockCDTService.On("ListCDTsByUser", mock.Anything, s.userID, mock.AnythingOfType("dto.ListCDTsParams")).
		Return(expected, nil).Once()

	w := s.doJSON(http.MethodGet, "/api/v1/cdts?limit=20", s.tokenFor(s.userID, domain.RoleUser), nil)

	s.Equal(http.StatusOK, w.Code)
	var resp dto.ListCDTsResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(int64(1), resp.Total)
	s.Len(resp.CDTs, 1)
}

func (s *CDTHandlerTestSuite) TestGetStats_Success() {
	s.mockCDTService.On("GetAdminStats", mock.Anything).Return(&domain.AdminStats{
		StatusCounts: map[domain.CDTStatus]int64{domain.StatusActive: 2},
		TotalCount:   2,
	}, nil).Once()

	w := s.doJSON(http.MethodGet, "/api/v1/admin/stats", s.tokenFor(s.adminID, domain.RoleAdmin), nil)

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "totalCount")
}

func (s *CDTHandlerTestSuite) TestLogin_Success() {
	user := &domain.User{
		UserID: s.userID,
		Name:   "Ana Perez",
		Email:  "ana@example.com",
		Role:   domain.RoleUser,
	}
	s.mockUserService.On("Authenticate", mock.Anything, user.Email, "s3cret-enough").
		Return(user, nil).Once()

	w := s.doJSON(http.MethodPost, "/auth/login", "", dto.LoginRequest{
		Email:    user.Email,
		Password: "s3cret-enough",
	})

	s.Equal(http.StatusOK, w.Code)
	var resp dto.LoginResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.NotEmpty(resp.Token)
	s.Equal(user.UserID, resp.User.UserID)
}

func (s *CDTHandlerTestSuite) TestLogin_InvalidCredentials() {
	s.mockUserService.On("Authenticate", mock.Anything, "ana@example.com", "wrong").
		Return(nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrPermissionDenied)).Once()

	w := s.doJSON(http.MethodPost, "/auth/login", "", dto.LoginRequest{
		Email:    "ana@example.com",
		Password: "wrong",
	})

	s.Equal(http.StatusUnauthorized, w.Code)
}

func TestCDTHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(CDTHandlerTestSuite))
}
