package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// PairRepository handles the partner link stored on the users table
type PairRepository struct {
	db DBTX
}

// NewPairRepository creates a new pair repository
func NewPairRepository(db DBTX) *PairRepository {
	return &PairRepository{db: db}
}

// Link points userID and partnerID at each other. Both rows are updated in
// one transaction and each update only applies while the row is unlinked or
// already linked to the same user, so concurrent links to one partner cannot
// leave a one-directional link.
func (r *PairRepository) Link(ctx context.Context, userID, partnerID string) error {
	query := `UPDATE users SET partner_id = $1 WHERE id = $2 AND (partner_id IS NULL OR partner_id = $1)`

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		for _, pair := range [][2]string{{partnerID, userID}, {userID, partnerID}} {
			result, err := tx.Exec(ctx, query, pair[0], pair[1])
			if err != nil {
				return err
			}
			if result.RowsAffected() > 0 {
				continue
			}

			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, pair[1]).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return &DBError{Sentinel: ErrNotFound, Cause: fmt.Errorf("user %s", pair[1])}
			}
			return &DBError{Sentinel: ErrConflict, Cause: fmt.Errorf("user %s is linked with someone else", pair[1])}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to link partners: %w", mapError(err))
	}
	return nil
}
