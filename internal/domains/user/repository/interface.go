package repository

import (
	"context"

	"libreria-backend/internal/domains/user/model"
)

// Repository is the data-access contract for users.
type Repository interface {
	// Create inserts a new user. Returns model.ErrUserExists when the
	// username or email is already taken.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	// GetByID returns model.ErrUserNotFound if the row does not exist.
	GetByID(ctx context.Context, id int64) (*model.User, error)

	// GetByUsername returns model.ErrUserNotFound if the row does not exist.
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}
