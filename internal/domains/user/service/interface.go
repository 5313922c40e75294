package service

import (
	"context"

	"libreria-backend/internal/domains/user/model"
)

// Service handles account creation and credential-based token issuance.
type Service interface {
	// Register creates a user with the default role and returns it with a
	// fresh token.
	Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error)

	// Login verifies credentials and issues a token. Unknown username and
	// wrong password are indistinguishable to the caller.
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)

	// GetByID fetches the user behind an authenticated request.
	GetByID(ctx context.Context, id int64) (*model.User, error)
}
