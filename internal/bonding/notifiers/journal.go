package notifiers

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/daniacca/bondsim/internal/bonding"
)

// JournalNotifier appends bond events to a SQLite table.
type JournalNotifier struct {
	id   string
	conn *sqlx.DB
}

// JournalEntry is one row of the bond event journal.
type JournalEntry struct {
	ID            int64  `db:"id" json:"id"`
	SimulationID  string `db:"simulation_id" json:"simulation_id"`
	Kind          string `db:"kind" json:"kind"`
	Tick          int64  `db:"tick" json:"tick"`
	Timestamp     int64  `db:"timestamp" json:"timestamp"`
	A             string `db:"particle_a" json:"a"`
	B             string `db:"particle_b" json:"b"`
	Order         int    `db:"bond_order" json:"order"`
	PreviousOrder int    `db:"previous_order" json:"previous_order"`
}

// OpenJournal opens or creates the journal database at path.
func OpenJournal(id, path string) (*JournalNotifier, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	jn := &JournalNotifier{id: id, conn: conn}
	if err := jn.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	return jn, nil
}

func (jn *JournalNotifier) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS bond_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		simulation_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		tick INTEGER NOT NULL,
		timestamp INTEGER NOT NULL,
		particle_a TEXT NOT NULL,
		particle_b TEXT NOT NULL,
		bond_order INTEGER NOT NULL,
		previous_order INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_bond_events_sim_tick ON bond_events(simulation_id, tick);
	`
	_, err := jn.conn.Exec(schema)
	return err
}

func (jn *JournalNotifier) ID() string {
	return jn.id
}

func (jn *JournalNotifier) Type() string {
	return "journal"
}

// Notify appends the event.
func (jn *JournalNotifier) Notify(ctx context.Context, event bonding.BondEvent) error {
	_, err := jn.conn.ExecContext(ctx, `INSERT INTO bond_events
		(simulation_id, kind, tick, timestamp, particle_a, particle_b, bond_order, previous_order)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(event.SimulationID), string(event.Kind), event.Tick, event.Timestamp,
		string(event.A), string(event.B), event.Order, event.PreviousOrder)
	if err != nil {
		return fmt.Errorf("journal insert: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. An empty simulation ID
// matches every simulation.
func (jn *JournalNotifier) Recent(ctx context.Context, simulationID string, limit int) ([]JournalEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	entries := make([]JournalEntry, 0)
	query := `SELECT id, simulation_id, kind, tick, timestamp, particle_a, particle_b, bond_order, previous_order
		FROM bond_events WHERE (? = '' OR simulation_id = ?) ORDER BY id DESC LIMIT ?`
	if err := jn.conn.SelectContext(ctx, &entries, query, simulationID, simulationID, limit); err != nil {
		return nil, fmt.Errorf("journal query: %w", err)
	}
	return entries, nil
}

// Close closes the database connection.
func (jn *JournalNotifier) Close() error {
	return jn.conn.Close()
}
