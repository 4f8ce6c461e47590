package testutils

import (
	"context"
	"fmt"

	standingsdb "github.com/majiang-league/majiang-stats/app/modules/standings/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// CreateSchema creates the tables the standings queries read. Production
// databases are owned elsewhere; this exists only for tests.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	for _, model := range standingsdb.Models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table for %T: %w", model, err)
		}
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS sessions_tournament_id_idx ON sessions (tournament_id)`,
		`CREATE INDEX IF NOT EXISTS games_session_id_idx ON games (session_id)`,
		`CREATE INDEX IF NOT EXISTS game_results_game_id_idx ON game_results (game_id)`,
		`CREATE INDEX IF NOT EXISTS game_results_player_id_idx ON game_results (player_id)`,
	}
	for _, stmt := range indexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

// TruncateTables empties the given tables.
func TruncateTables(ctx context.Context, db bun.IDB, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}

	query := "TRUNCATE TABLE "
	for i, table := range tables {
		query += fmt.Sprintf(`"%s"`, table)
		if i < len(tables)-1 {
			query += ", "
		}
	}
	query += " RESTART IDENTITY CASCADE"

	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate tables %v: %w", tables, err)
	}
	return nil
}

// CleanStandingsTables empties every standings table.
func CleanStandingsTables(ctx context.Context, db bun.IDB) error {
	return TruncateTables(ctx, db, "game_results", "games", "sessions", "tournaments", "players")
}
