// Package persistence provides SQLite-based storage of finished
// negotiation transcripts.
package persistence

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/bargain-sim/internal/evaluation"
	"github.com/talgya/bargain-sim/internal/negotiation"
)

// DB wraps a SQLite connection for transcript persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		scenario TEXT NOT NULL,
		buyer TEXT NOT NULL,
		seller TEXT NOT NULL,
		success INTEGER NOT NULL,
		breakdown INTEGER NOT NULL,
		agreed_price REAL,
		rounds INTEGER NOT NULL,
		buyer_savings_pct REAL NOT NULL,
		equilibrium_price REAL,
		above_eq_pct REAL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS turns (
		run_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		role TEXT NOT NULL,
		action TEXT NOT NULL,
		price REAL,
		message TEXT NOT NULL,
		emotion TEXT NOT NULL,
		discount REAL NOT NULL,
		PRIMARY KEY (run_id, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_scenario ON runs(scenario);
	CREATE INDEX IF NOT EXISTS idx_turns_run ON turns(run_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// RunRecord is one stored negotiation outcome.
type RunRecord struct {
	ID               string   `db:"id"`
	Scenario         string   `db:"scenario"`
	Buyer            string   `db:"buyer"`
	Seller           string   `db:"seller"`
	Success          bool     `db:"success"`
	Breakdown        bool     `db:"breakdown"`
	AgreedPrice      *float64 `db:"agreed_price"`
	Rounds           int      `db:"rounds"`
	BuyerSavingsPct  float64  `db:"buyer_savings_pct"`
	EquilibriumPrice *float64 `db:"equilibrium_price"`
	AboveEqPct       *float64 `db:"above_eq_pct"`
	CreatedAt        string   `db:"created_at"`
}

// SaveRun writes a finished negotiation and its full transcript in one
// transaction and returns the new run id.
func (db *DB) SaveRun(scenarioName string, st negotiation.State, metrics evaluation.Metrics) (string, error) {
	tx, err := db.conn.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	id := uuid.NewString()

	var eqPrice, aboveEq *float64
	if metrics.Success {
		eqPrice = &metrics.EquilibriumPrice
		aboveEq = &metrics.AboveEqPct
	}

	_, err = tx.Exec(`INSERT INTO runs
		(id, scenario, buyer, seller, success, breakdown, agreed_price, rounds,
		 buyer_savings_pct, equilibrium_price, above_eq_pct, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, scenarioName, st.BuyerName, st.SellerName,
		metrics.Success, st.Breakdown, st.AgreedPrice, metrics.Turns,
		metrics.BuyerSavingsPct, eqPrice, aboveEq,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Preparex(`INSERT INTO turns
		(run_id, seq, role, action, price, message, emotion, discount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for i, e := range st.History {
		if _, err := stmt.Exec(id, i, string(e.Role), e.Action, e.Price, e.Message, e.Emotion, e.Discount); err != nil {
			return "", fmt.Errorf("insert turn %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// LoadRun reads a stored run header.
func (db *DB) LoadRun(id string) (RunRecord, error) {
	var rec RunRecord
	if err := db.conn.Get(&rec, "SELECT * FROM runs WHERE id = ?", id); err != nil {
		return RunRecord{}, fmt.Errorf("load run %s: %w", id, err)
	}
	return rec, nil
}

// LoadTurns reads a run's transcript in conversation order.
func (db *DB) LoadTurns(id string) ([]negotiation.HistoryEntry, error) {
	rows, err := db.conn.Query(
		"SELECT role, action, price, message, emotion, discount FROM turns WHERE run_id = ? ORDER BY seq",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("load turns %s: %w", id, err)
	}
	defer rows.Close()

	var entries []negotiation.HistoryEntry
	for rows.Next() {
		var e negotiation.HistoryEntry
		var role string
		if err := rows.Scan(&role, &e.Action, &e.Price, &e.Message, &e.Emotion, &e.Discount); err != nil {
			return nil, err
		}
		e.Role = negotiation.Role(role)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
