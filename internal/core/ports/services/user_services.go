package services

import (
	"context"

	"github.com/SscSPs/cdt_management_app/internal/core/domain"
	"github.com/SscSPs/cdt_management_app/internal/dto"
)

// UserSvcFacade defines the user operations the engine needs: account
// creation, actor lookup for ownership/role checks, and credential
// verification for the login handler.
type UserSvcFacade interface {
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	Authenticate(ctx context.Context, email string, password string) (*domain.User, error)
}
