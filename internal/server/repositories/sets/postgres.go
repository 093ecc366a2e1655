package sets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/flashnest/internal/common"
	"github.com/dmitrijs2005/flashnest/internal/dbx"
	"github.com/dmitrijs2005/flashnest/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX. Create issues
// several statements; run it on a transaction handle to keep it atomic.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, set *models.Set) (*models.Set, error) {
	query := `
		INSERT INTO sets (id, name, type, max_question, question_time, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING uid
	`
	err := r.db.QueryRowContext(ctx, query,
		set.ID, set.Name, set.Type, set.MaxQuestion, set.QuestionTime, set.OwnerID).Scan(&set.UID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	cardQuery := `
		INSERT INTO cards (id, question, answer, voice_address, picture_address, set_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING uid
	`
	for _, c := range set.Cards {
		c.SetUID = set.UID
		err := r.db.QueryRowContext(ctx, cardQuery,
			c.ID, c.Question, c.Answer, c.VoiceAddress, c.PictureAddress, c.SetUID).Scan(&c.UID)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
	}

	return set, nil
}

func (r *PostgresRepository) Get(ctx context.Context, ownerID, id int64) (*models.Set, error) {
	query := `
		SELECT uid, id, name, type, max_question, question_time, owner_id
		FROM sets
		WHERE owner_id = $1 AND id = $2
	`
	set := &models.Set{}
	err := r.db.QueryRowContext(ctx, query, ownerID, id).Scan(
		&set.UID, &set.ID, &set.Name, &set.Type, &set.MaxQuestion, &set.QuestionTime, &set.OwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	set.Cards, err = r.cards(ctx, set.UID)
	if err != nil {
		return nil, err
	}
	return set, nil
}

func (r *PostgresRepository) List(ctx context.Context, ownerID int64, offset, limit int) ([]*models.Set, error) {
	query := `
		SELECT uid, id, name, type, max_question, question_time, owner_id
		FROM sets
		WHERE owner_id = $1
		ORDER BY uid
		OFFSET $2 LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select sets: %w", err)
	}
	defer rows.Close()

	var result []*models.Set
	for rows.Next() {
		var item models.Set
		if err := rows.Scan(
			&item.UID, &item.ID, &item.Name, &item.Type, &item.MaxQuestion, &item.QuestionTime, &item.OwnerID,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for _, s := range result {
		if s.Cards, err = r.cards(ctx, s.UID); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id int64) (bool, error) {
	query := `
		DELETE FROM sets
		WHERE owner_id = $1 AND id = $2
	`
	res, err := r.db.ExecContext(ctx, query, ownerID, id)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) GetCard(ctx context.Context, setUID, id int64) (*models.Card, error) {
	query := `
		SELECT uid, id, question, answer, voice_address, picture_address, set_id
		FROM cards
		WHERE set_id = $1 AND id = $2
	`
	c := &models.Card{}
	err := r.db.QueryRowContext(ctx, query, setUID, id).Scan(
		&c.UID, &c.ID, &c.Question, &c.Answer, &c.VoiceAddress, &c.PictureAddress, &c.SetUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) cards(ctx context.Context, setUID int64) ([]*models.Card, error) {
	query := `
		SELECT uid, id, question, answer, voice_address, picture_address, set_id
		FROM cards
		WHERE set_id = $1
		ORDER BY uid
	`
	rows, err := r.db.QueryContext(ctx, query, setUID)
	if err != nil {
		return nil, fmt.Errorf("failed to select cards: %w", err)
	}
	defer rows.Close()

	result := []*models.Card{}
	for rows.Next() {
		var c models.Card
		if err := rows.Scan(&c.UID, &c.ID, &c.Question, &c.Answer, &c.VoiceAddress, &c.PictureAddress, &c.SetUID); err != nil {
			return nil, err
		}
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
