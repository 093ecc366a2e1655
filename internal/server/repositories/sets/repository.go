// Package sets persists card sets and their cards. Every set lookup is
// scoped to an owner; card lookups are scoped to a set.
package sets

import (
	"context"

	"github.com/dmitrijs2005/flashnest/internal/server/models"
)

type Repository interface {
	// Create inserts set and all its cards, filling in storage keys.
	Create(ctx context.Context, set *models.Set) (*models.Set, error)

	// Get returns the owner's set with the given user-facing id, cards
	// included, or common.ErrorNotFound.
	Get(ctx context.Context, ownerID, id int64) (*models.Set, error)

	// List returns a page of the owner's sets, cards included.
	List(ctx context.Context, ownerID int64, offset, limit int) ([]*models.Set, error)

	// Delete removes the owner's set (cards cascade) and reports whether it existed.
	Delete(ctx context.Context, ownerID, id int64) (bool, error)

	// GetCard returns the card with the given user-facing id inside the set
	// identified by setUID, or common.ErrorNotFound.
	GetCard(ctx context.Context, setUID, id int64) (*models.Card, error)
}
