package tokens

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/flashnest/internal/dbx"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, userID int64, token string) error {
	query := `
		INSERT INTO tokens (token, owner_id)
		VALUES ($1, $2)
	`
	if _, err := r.db.ExecContext(ctx, query, token, userID); err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Exists(ctx context.Context, userID int64, token string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM tokens
			WHERE owner_id = $1 AND token = $2
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, token).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// Delete removes every row holding token for userID. Normally there is at
// most one; duplicates are cleared together.
func (r *PostgresRepository) Delete(ctx context.Context, userID int64, token string) (bool, error) {
	query := `
		DELETE FROM tokens
		WHERE owner_id = $1 AND token = $2
	`
	res, err := r.db.ExecContext(ctx, query, userID, token)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}
