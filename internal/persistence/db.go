// Package persistence records committed price points and event instances in
// SQLite so finished and running games can be inspected after the fact.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/pixil98/go-tycoon/internal/economy"
	"github.com/pixil98/go-tycoon/internal/events"
	"github.com/pixil98/go-tycoon/internal/game"
)

// DB wraps a SQLite connection.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// SQLite allows one writer at a time.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS price_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_id TEXT NOT NULL,
		resource TEXT NOT NULL,
		recorded_at INTEGER NOT NULL,
		active_ns INTEGER NOT NULL,
		buy_price INTEGER NOT NULL,
		sell_price INTEGER NOT NULL,
		by_trade INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS event_instances (
		game_id TEXT NOT NULL,
		event_id INTEGER NOT NULL,
		type TEXT NOT NULL,
		status TEXT NOT NULL,
		severity INTEGER NOT NULL,
		instance_json TEXT NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (game_id, event_id)
	);

	CREATE INDEX IF NOT EXISTS idx_price_history_game ON price_history(game_id, resource);
	CREATE INDEX IF NOT EXISTS idx_event_instances_status ON event_instances(game_id, status);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// RecordPrices appends a batch of committed price points in one transaction.
func (db *DB) RecordPrices(ctx context.Context, gameID string, records []game.PriceRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `INSERT INTO price_history
		(game_id, resource, recorded_at, active_ns, buy_price, sell_price, by_trade)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.ExecContext(ctx,
			gameID, string(r.Resource), r.Point.Timestamp.UnixNano(), int64(r.Point.Active),
			r.Point.BuyPrice, r.Point.SellPrice, r.Point.TriggeredByTrade,
		)
		if err != nil {
			return fmt.Errorf("insert price %s: %w", r.Resource, err)
		}
	}

	return tx.Commit()
}

// RecordEvent stores the latest state of an event instance, replacing any
// earlier state of the same instance.
func (db *DB) RecordEvent(ctx context.Context, gameID string, inst *events.Instance) error {
	b, err := json.Marshal(inst)
	if err != nil {
		return fmt.Errorf("marshal event %d: %w", inst.ID, err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT OR REPLACE INTO event_instances
		(game_id, event_id, type, status, severity, instance_json, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		gameID, inst.ID, string(inst.Type), string(inst.Status), inst.Severity, string(b), time.Now().UnixNano(),
	)
	return err
}

type priceRow struct {
	RecordedAt int64 `db:"recorded_at"`
	ActiveNs   int64 `db:"active_ns"`
	BuyPrice   int   `db:"buy_price"`
	SellPrice  int   `db:"sell_price"`
	ByTrade    bool  `db:"by_trade"`
}

// PriceHistory returns up to limit of the most recent points of a resource,
// oldest first. A limit of zero or less returns every point.
func (db *DB) PriceHistory(ctx context.Context, gameID string, res economy.ResourceType, limit int) ([]economy.PricePoint, error) {
	if limit <= 0 {
		limit = -1
	}

	var rows []priceRow
	err := db.conn.SelectContext(ctx, &rows,
		`SELECT recorded_at, active_ns, buy_price, sell_price, by_trade FROM price_history
		WHERE game_id = ? AND resource = ? ORDER BY id DESC LIMIT ?`,
		gameID, string(res), limit,
	)
	if err != nil {
		return nil, err
	}

	points := make([]economy.PricePoint, len(rows))
	for i, r := range rows {
		points[len(rows)-1-i] = economy.PricePoint{
			Timestamp:        time.Unix(0, r.RecordedAt).UTC(),
			Active:           time.Duration(r.ActiveNs),
			BuyPrice:         r.BuyPrice,
			SellPrice:        r.SellPrice,
			TriggeredByTrade: r.ByTrade,
		}
	}
	return points, nil
}

// Events returns the stored instances of a game ordered by id. An empty
// status returns every instance.
func (db *DB) Events(ctx context.Context, gameID string, status events.Status) ([]*events.Instance, error) {
	query := `SELECT instance_json FROM event_instances WHERE game_id = ?`
	args := []any{gameID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY event_id`

	var raw []string
	if err := db.conn.SelectContext(ctx, &raw, query, args...); err != nil {
		return nil, err
	}

	out := make([]*events.Instance, 0, len(raw))
	for _, r := range raw {
		var inst events.Instance
		if err := json.Unmarshal([]byte(r), &inst); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		out = append(out, &inst)
	}
	return out, nil
}

// Games lists the ids of every game with stored data.
func (db *DB) Games(ctx context.Context) ([]string, error) {
	var ids []string
	err := db.conn.SelectContext(ctx, &ids,
		`SELECT game_id FROM price_history UNION SELECT game_id FROM event_instances ORDER BY game_id`,
	)
	return ids, err
}
