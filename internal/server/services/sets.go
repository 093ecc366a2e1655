package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/flashnest/internal/common"
	"github.com/dmitrijs2005/flashnest/internal/dbx"
	"github.com/dmitrijs2005/flashnest/internal/logging"
	"github.com/dmitrijs2005/flashnest/internal/server/models"
	"github.com/dmitrijs2005/flashnest/internal/server/repositories/repomanager"
)

// SetService gives owners access to their own sets and cards. Sets of other
// users are indistinguishable from missing ones.
type SetService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewSetService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *SetService {
	return &SetService{
		db:          db,
		repomanager: m,
		log:         log.With("module", "sets"),
	}
}

// AddOrReplaceSet stores set for ownerID, replacing any set with the same
// id in full. Duplicate card ids are rejected before anything is written.
func (s *SetService) AddOrReplaceSet(ctx context.Context, ownerID int64, set *models.Set) (*models.Set, error) {
	if id, dup := set.DuplicateCardID(); dup {
		return nil, fmt.Errorf("%w: %d", common.ErrDuplicateCardID, id)
	}
	set.OwnerID = ownerID

	var created *models.Set
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Sets(tx)

		replaced, err := repo.Delete(ctx, ownerID, set.ID)
		if err != nil {
			return err
		}
		if replaced {
			s.log.Debug(ctx, "replacing set", "owner_id", ownerID, "set_id", set.ID)
		}

		created, err = repo.Create(ctx, set)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error saving set: %w", err)
	}
	return created, nil
}

// ListSets pages through the owner's sets ordered by storage key. A
// non-positive or oversized limit falls back to the maximum.
func (s *SetService) ListSets(ctx context.Context, ownerID int64, offset, limit int) ([]*models.Set, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = common.DefaultListLimit
	}
	if limit > common.MaxListLimit {
		limit = common.MaxListLimit
	}

	sets, err := s.repomanager.Sets(s.db).List(ctx, ownerID, offset, limit)
	if err != nil {
		return nil, err
	}
	if sets == nil {
		sets = []*models.Set{}
	}
	return sets, nil
}

func (s *SetService) GetSet(ctx context.Context, ownerID, id int64) (*models.Set, error) {
	return s.repomanager.Sets(s.db).Get(ctx, ownerID, id)
}

// DeleteSet reports whether an owned set was removed. Deleting a missing
// set is not an error.
func (s *SetService) DeleteSet(ctx context.Context, ownerID, id int64) (bool, error) {
	return s.repomanager.Sets(s.db).Delete(ctx, ownerID, id)
}

// GetCard looks up a card inside an already resolved set.
func (s *SetService) GetCard(ctx context.Context, set *models.Set, id int64) (*models.Card, error) {
	return s.repomanager.Sets(s.db).GetCard(ctx, set.UID, id)
}
