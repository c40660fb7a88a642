package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/draft-league/draftroom/internal/domain/roster"
)

// RosterStore persists roster entries. Apply runs in a serializable
// transaction with guarded inserts so every ownership invariant is
// re-checked against committed state; a losing race surfaces as
// roster.ErrConflict.
type RosterStore struct {
	db     *sqlx.DB
	limits roster.Limits
}

func NewRosterStore(db *sqlx.DB, limits roster.Limits) *RosterStore {
	return &RosterStore{db: db, limits: limits}
}

type rosterEntryRow struct {
	UserID     string    `db:"user_id"`
	PlayerID   string    `db:"player_public_id"`
	AcquiredAt time.Time `db:"acquired_at"`
}

func (r *RosterStore) OwnedBy(ctx context.Context, userID string) ([]roster.Entry, error) {
	const query = `
SELECT user_id, player_public_id, acquired_at
FROM roster_entries
WHERE user_id = $1
ORDER BY acquired_at`

	var rows []rosterEntryRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("list roster entries: %w", err)
	}

	out := make([]roster.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, roster.Entry{
			UserID:     row.UserID,
			PlayerID:   row.PlayerID,
			AcquiredAt: row.AcquiredAt,
		})
	}

	return out, nil
}

func (r *RosterStore) OwnerCount(ctx context.Context, playerID string) (int, error) {
	const query = `
SELECT COUNT(*)
FROM roster_entries
WHERE player_public_id = $1`

	var count int
	if err := r.db.GetContext(ctx, &count, query, playerID); err != nil {
		return 0, fmt.Errorf("count owners: %w", err)
	}

	return count, nil
}

func (r *RosterStore) OwnerCounts(ctx context.Context, playerIDs []string) (map[string]int, error) {
	out := make(map[string]int, len(playerIDs))
	if len(playerIDs) == 0 {
		return out, nil
	}

	const query = `
SELECT player_public_id, COUNT(*) AS owner_count
FROM roster_entries
WHERE player_public_id = ANY($1)
GROUP BY player_public_id`

	var rows []struct {
		PlayerID   string `db:"player_public_id"`
		OwnerCount int    `db:"owner_count"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(playerIDs)); err != nil {
		return nil, fmt.Errorf("count owners: %w", err)
	}

	for _, id := range playerIDs {
		out[id] = 0
	}
	for _, row := range rows {
		out[row.PlayerID] = row.OwnerCount
	}

	return out, nil
}

func (r *RosterStore) Apply(ctx context.Context, tx roster.Tx) error {
	dbTx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin roster tx: %w", err)
	}
	defer func() {
		_ = dbTx.Rollback()
	}()

	for _, d := range tx.Deletes {
		if err := r.applyDelete(ctx, dbTx, d); err != nil {
			return err
		}
	}
	for _, ins := range tx.Inserts {
		if err := r.applyInsert(ctx, dbTx, ins); err != nil {
			return err
		}
	}

	if err := dbTx.Commit(); err != nil {
		if isRetryableConflict(err) {
			return fmt.Errorf("%w: %v", roster.ErrConflict, err)
		}
		return fmt.Errorf("commit roster tx: %w", err)
	}

	return nil
}

func (r *RosterStore) applyDelete(ctx context.Context, dbTx *sqlx.Tx, d roster.Delete) error {
	const query = `
DELETE FROM roster_entries
WHERE user_id = $1
  AND player_public_id = $2`

	res, err := dbTx.ExecContext(ctx, query, d.UserID, d.PlayerID)
	if err != nil {
		if isRetryableConflict(err) {
			return fmt.Errorf("%w: %v", roster.ErrConflict, err)
		}
		return fmt.Errorf("delete roster entry: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete roster entry rowcount: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: entry %s/%s no longer exists", roster.ErrConflict, d.UserID, d.PlayerID)
	}

	return nil
}

// applyInsert inserts one entry only if every count-based invariant still
// holds inside the transaction. An empty rowcount means another commit
// consumed the headroom since the caller's reads.
func (r *RosterStore) applyInsert(ctx context.Context, dbTx *sqlx.Tx, ins roster.Insert) error {
	const query = `
INSERT INTO roster_entries (user_id, player_public_id, position, acquired_at)
SELECT :user_id, :player_public_id, :position, :acquired_at
WHERE (SELECT COUNT(*) FROM roster_entries WHERE player_public_id = :player_public_id) < :max_owners
  AND (SELECT COUNT(*) FROM roster_entries WHERE user_id = :user_id) < :max_squad
  AND (SELECT COUNT(*) FROM roster_entries WHERE user_id = :user_id AND position = :position) < :position_cap`

	insertSQL, args, err := sqlx.Named(query, map[string]any{
		"user_id":          ins.Entry.UserID,
		"player_public_id": ins.Entry.PlayerID,
		"position":         string(ins.Position),
		"acquired_at":      ins.Entry.AcquiredAt,
		"max_owners":       r.limits.MaxOwnersPerPlayer,
		"max_squad":        r.limits.MaxSquadSize,
		"position_cap":     r.limits.PositionCap(ins.Position),
	})
	if err != nil {
		return fmt.Errorf("bind insert roster entry query: %w", err)
	}
	insertSQL = dbTx.Rebind(insertSQL)

	res, err := dbTx.ExecContext(ctx, insertSQL, args...)
	if err != nil {
		if isRetryableConflict(err) {
			return fmt.Errorf("%w: %v", roster.ErrConflict, err)
		}
		return fmt.Errorf("insert roster entry: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert roster entry rowcount: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: invariant headroom for player %s is gone", roster.ErrConflict, ins.Entry.PlayerID)
	}

	return nil
}
