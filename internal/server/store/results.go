// Package store persists match results to Postgres. The server runs fine
// without it; persistence is enabled only when a DSN is configured.
package store

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS match_results (
	id          SERIAL PRIMARY KEY,
	match_id    TEXT NOT NULL,
	player_id   TEXT NOT NULL,
	player_name TEXT NOT NULL,
	score       INTEGER NOT NULL,
	lines       INTEGER NOT NULL,
	won         BOOLEAN NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// MatchResult is one player's outcome in one match.
type MatchResult struct {
	MatchID    string
	PlayerID   string
	PlayerName string
	Score      int
	Lines      int
	Won        bool
}

// Results is a repository over a Postgres connection pool.
type Results struct {
	db *sql.DB
}

// Open connects, verifies the connection, and ensures the schema exists.
func Open(dsn string) (*Results, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Results{db: db}, nil
}

func (r *Results) Close() error {
	return r.db.Close()
}

func (r *Results) Save(ctx context.Context, result MatchResult) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO match_results (match_id, player_id, player_name, score, lines, won)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		result.MatchID, result.PlayerID, result.PlayerName,
		result.Score, result.Lines, result.Won,
	)
	return err
}

// TopScores returns the best results, highest score first.
func (r *Results) TopScores(ctx context.Context, limit int) ([]MatchResult, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT match_id, player_id, player_name, score, lines, won
		 FROM match_results
		 ORDER BY score DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []MatchResult
	for rows.Next() {
		var m MatchResult
		if err := rows.Scan(&m.MatchID, &m.PlayerID, &m.PlayerName,
			&m.Score, &m.Lines, &m.Won); err != nil {
			return nil, err
		}
		results = append(results, m)
	}
	return results, rows.Err()
}
