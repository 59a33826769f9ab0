package indexdb

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"scrumcraft.ai/internal/protocol"
)

// SQLiteIndex is the queryable results index beside the compressed tick
// logs. One row per finished match.
type SQLiteIndex struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteIndex{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS matches (
			match_id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			home_team TEXT NOT NULL,
			away_team TEXT NOT NULL,
			home_score INTEGER NOT NULL,
			away_score INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			stats_json TEXT NOT NULL,
			timeline_json TEXT NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_matches_recorded_at ON matches(recorded_at);`,
		`CREATE TABLE IF NOT EXISTS scores (
			match_id TEXT NOT NULL,
			tick INTEGER NOT NULL,
			minute INTEGER NOT NULL,
			team TEXT NOT NULL,
			kind TEXT NOT NULL,
			points INTEGER NOT NULL,
			PRIMARY KEY (match_id, tick)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error { return s.db.Close() }

// RecordResult upserts a finished match and its score timeline.
func (s *SQLiteIndex) RecordResult(res protocol.MatchResult) error {
	stats, err := json.Marshal(res.Stats)
	if err != nil {
		return err
	}
	timeline, err := json.Marshal(res.Timeline)
	if err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT OR REPLACE INTO matches
		(match_id, seed, home_team, away_team, home_score, away_score, ticks, stats_json, timeline_json, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.MatchID, res.Seed, res.HomeTeam, res.AwayTeam,
		res.HomeScore, res.AwayScore, res.Ticks,
		string(stats), string(timeline),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return err
	}
	for _, e := range res.Timeline {
		if _, err := tx.Exec(`INSERT OR REPLACE INTO scores
			(match_id, tick, minute, team, kind, points) VALUES (?, ?, ?, ?, ?, ?)`,
			res.MatchID, e.Tick, e.Minute, e.Team, e.Kind, e.Points); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetResult loads one match row back into a MatchResult.
func (s *SQLiteIndex) GetResult(matchID string) (protocol.MatchResult, error) {
	var res protocol.MatchResult
	var stats, timeline string
	err := s.db.QueryRow(`SELECT match_id, seed, home_team, away_team,
		home_score, away_score, ticks, stats_json, timeline_json
		FROM matches WHERE match_id = ?`, matchID).Scan(
		&res.MatchID, &res.Seed, &res.HomeTeam, &res.AwayTeam,
		&res.HomeScore, &res.AwayScore, &res.Ticks, &stats, &timeline,
	)
	if err != nil {
		return res, err
	}
	if err := json.Unmarshal([]byte(stats), &res.Stats); err != nil {
		return res, err
	}
	if err := json.Unmarshal([]byte(timeline), &res.Timeline); err != nil {
		return res, err
	}
	return res, nil
}

// ListResults returns the most recent matches, newest first.
func (s *SQLiteIndex) ListResults(limit int) ([]protocol.MatchResult, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`SELECT match_id FROM matches
		ORDER BY recorded_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]protocol.MatchResult, 0, len(ids))
	for _, id := range ids {
		res, err := s.GetResult(id)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}
