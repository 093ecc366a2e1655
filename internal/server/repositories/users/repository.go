package users

import (
	"context"

	"github.com/dmitrijs2005/flashnest/internal/server/models"
)

// Repository persists user accounts. Lookups return common.ErrorNotFound
// when no row matches.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, id int64, hashedPassword string) error
	Activate(ctx context.Context, id int64) error
	// Delete removes the user; tokens and sets go with it via ON DELETE CASCADE.
	Delete(ctx context.Context, id int64) (bool, error)
}
