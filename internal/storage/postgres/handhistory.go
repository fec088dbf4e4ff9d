// Package postgres is the host's optional durable archive for completed
// hands (SPEC_FULL.md's "Persisted state" note: the engine itself stays
// in-memory, this is the host's archive on top). Grounded on the teacher's
// SessionPostgresStorage: same database/sql+lib/pq, CREATE TABLE IF NOT
// EXISTS, and NullString/NullTime scan-helper shape, repointed at one
// hand_history row per finished hand instead of a player session.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/lib/pq"
)

// HandHistoryRecord is one archived hand: enough to reconstruct who played,
// who won, and how the stacks moved, without re-running the interpreter.
type HandHistoryRecord struct {
	HandID      string
	TableID     string
	GameType    string
	NumPlayers  int
	TotalPot    int64
	SidePots    int
	WasShowdown bool
	StackDeltas map[string]int
	PlayedAt    time.Time
}

// HandHistoryStore archives completed hands to PostgreSQL.
type HandHistoryStore struct {
	db *sql.DB
}

// NewHandHistoryStore wraps an already-opened *sql.DB.
func NewHandHistoryStore(db *sql.DB) *HandHistoryStore {
	return &HandHistoryStore{db: db}
}

// CreateTable creates hand_history if it doesn't already exist.
func (s *HandHistoryStore) CreateTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS hand_history (
			hand_id VARCHAR(64) PRIMARY KEY,
			table_id VARCHAR(64) NOT NULL,
			game_type VARCHAR(64) NOT NULL,
			num_players INTEGER NOT NULL,
			total_pot BIGINT NOT NULL,
			side_pots INTEGER NOT NULL DEFAULT 0,
			was_showdown BOOLEAN NOT NULL,
			stack_deltas JSONB NOT NULL,
			played_at TIMESTAMP NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_hand_history_table_id ON hand_history(table_id);
		CREATE INDEX IF NOT EXISTS idx_hand_history_played_at ON hand_history(played_at);
	`)
	return err
}

// RecordHand inserts one archived hand. A hand_id collision (a re-sent
// event for a hand already recorded) is treated as a no-op, not an error.
func (s *HandHistoryStore) RecordHand(ctx context.Context, rec HandHistoryRecord) error {
	deltas, err := json.Marshal(rec.StackDeltas)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO hand_history (
			hand_id, table_id, game_type, num_players, total_pot,
			side_pots, was_showdown, stack_deltas, played_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (hand_id) DO NOTHING
	`,
		rec.HandID, rec.TableID, rec.GameType, rec.NumPlayers, rec.TotalPot,
		rec.SidePots, rec.WasShowdown, deltas, rec.PlayedAt,
	)
	return err
}

// GetHandsByTable returns a table's archived hands, most recent first.
func (s *HandHistoryStore) GetHandsByTable(ctx context.Context, tableID string, limit int) ([]HandHistoryRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT hand_id, table_id, game_type, num_players, total_pot,
			   side_pots, was_showdown, stack_deltas, played_at
		FROM hand_history
		WHERE table_id = $1
		ORDER BY played_at DESC
		LIMIT $2
	`, tableID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHandHistory(rows)
}

// GetHandsForPlayer returns the hands a player's stack delta appears in
// between startTime and endTime, most recent first. Filtering by a key
// inside a JSONB column rather than a normalized table is the one
// deliberate deviation from the teacher's fully-columnar session rows;
// hand_history has no fixed player-count schema to normalize against.
func (s *HandHistoryStore) GetHandsForPlayer(ctx context.Context, playerID string, startTime, endTime time.Time) ([]HandHistoryRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT hand_id, table_id, game_type, num_players, total_pot,
			   side_pots, was_showdown, stack_deltas, played_at
		FROM hand_history
		WHERE stack_deltas ? $1 AND played_at BETWEEN $2 AND $3
		ORDER BY played_at DESC
	`, playerID, startTime, endTime)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHandHistory(rows)
}

// DeleteOldHands removes archived hands older than the given time, for
// retention policies; returns the number of rows removed.
func (s *HandHistoryStore) DeleteOldHands(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM hand_history WHERE played_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanHandHistory(rows *sql.Rows) ([]HandHistoryRecord, error) {
	var out []HandHistoryRecord
	for rows.Next() {
		var rec HandHistoryRecord
		var deltas []byte
		if err := rows.Scan(&rec.HandID, &rec.TableID, &rec.GameType, &rec.NumPlayers,
			&rec.TotalPot, &rec.SidePots, &rec.WasShowdown, &deltas, &rec.PlayedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(deltas, &rec.StackDeltas); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
