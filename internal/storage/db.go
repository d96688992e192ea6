package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"picklist/internal"
)

// DB is the run ledger: one row per store run and one per order it saw. The
// flat id files stay the source of truth for deduplication.
type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL UNIQUE,
  store TEXT NOT NULL,
  orders INTEGER NOT NULL,
  newOrders INTEGER NOT NULL,
  units INTEGER NOT NULL,
  unparsed INTEGER NOT NULL,
  outputPath TEXT NOT NULL,
  startedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_runs_store ON runs(store);

CREATE TABLE IF NOT EXISTS order_history (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  store TEXT NOT NULL,
  orderId TEXT NOT NULL,
  customer TEXT NOT NULL,
  country TEXT NOT NULL,
  seen INTEGER NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(traceId) REFERENCES runs(traceId)
);
CREATE INDEX IF NOT EXISTS idx_order_history_order ON order_history(store, orderId);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) InsertRun(run internal.RunRow, orders []internal.OrderHistoryRow) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
INSERT INTO runs (traceId, store, orders, newOrders, units, unparsed, outputPath)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, run.TraceID, run.Store, run.Orders, run.NewOrders, run.Units, run.Unparsed, run.OutputPath); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
INSERT INTO order_history (traceId, store, orderId, customer, country, seen)
VALUES (?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, o := range orders {
		if _, err := stmt.Exec(run.TraceID, run.Store, o.OrderID, o.Customer, o.Country, o.Seen); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListRuns returns the newest runs first. An empty store lists every store.
func (d *DB) ListRuns(store string, limit int) ([]internal.RunRow, error) {
	rows, err := d.conn.Query(`
SELECT id, traceId, store, startedAt, orders, newOrders, units, unparsed, outputPath
FROM runs
WHERE (? = '' OR store = ?)
ORDER BY id DESC
LIMIT ?
`, store, store, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.RunRow
	for rows.Next() {
		var r internal.RunRow
		if err := rows.Scan(&r.ID, &r.TraceID, &r.Store, &r.StartedAt, &r.Orders, &r.NewOrders, &r.Units, &r.Unparsed, &r.OutputPath); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (d *DB) ListOrderHistory(traceID string) ([]internal.OrderHistoryRow, error) {
	rows, err := d.conn.Query(`
SELECT traceId, store, orderId, customer, country, seen
FROM order_history WHERE traceId = ? ORDER BY id ASC
`, traceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.OrderHistoryRow
	for rows.Next() {
		var r internal.OrderHistoryRow
		if err := rows.Scan(&r.TraceID, &r.Store, &r.OrderID, &r.Customer, &r.Country, &r.Seen); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
