package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/draft-league/draftroom/internal/domain/player"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

type playerRow struct {
	PublicID string `db:"public_id"`
	Name     string `db:"name"`
	Position string `db:"position"`
	Team     string `db:"team"`
}

func (row playerRow) toDomain() player.Player {
	return player.Player{
		ID:       row.PublicID,
		Name:     row.Name,
		Position: player.Position(row.Position),
		Team:     row.Team,
	}
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	const query = `
SELECT public_id, name, position, team
FROM players
WHERE public_id = $1
  AND deleted_at IS NULL`

	var row playerRow
	if err := r.db.GetContext(ctx, &row, query, playerID); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *PlayerRepository) List(ctx context.Context, filter player.Filter) ([]player.Player, error) {
	const query = `
SELECT public_id, name, position, team
FROM players
WHERE deleted_at IS NULL
  AND (:team = '' OR team = :team)
  AND (:position = '' OR position = :position)
ORDER BY name`

	listSQL, args, err := sqlx.Named(query, map[string]any{
		"team":     filter.Team,
		"position": string(filter.Position),
	})
	if err != nil {
		return nil, fmt.Errorf("bind list players query: %w", err)
	}
	listSQL = r.db.Rebind(listSQL)

	var rows []playerRow
	if err := r.db.SelectContext(ctx, &rows, listSQL, args...); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}
