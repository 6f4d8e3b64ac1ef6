package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	seesawerrors "github.com/matzehuels/seesaw/pkg/errors"
	"github.com/matzehuels/seesaw/pkg/simulation"
)

// SQL drivers understood by SQLGateway.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// SQLGateway stores the encoded state as one row per slot.
type SQLGateway struct {
	db     *sqlx.DB
	driver string
	table  string
	slot   string
}

type stateRow struct {
	Payload   string    `db:"payload"`
	UpdatedAt time.Time `db:"updated_at"`
}

var tableRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// NewSQLGateway opens dsn with driver and creates the table if missing.
// For sqlite the parent directory of the database file is created too.
func NewSQLGateway(ctx context.Context, driver, dsn, table, slot string) (*SQLGateway, error) {
	if !tableRegex.MatchString(table) {
		return nil, seesawerrors.New(seesawerrors.ErrCodeInvalidConfig, "invalid table name %q", table)
	}
	if dsn == "" {
		return nil, seesawerrors.New(seesawerrors.ErrCodeInvalidConfig, "%s store requires a dsn", driver)
	}
	if driver == DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, seesawerrors.Wrap(seesawerrors.ErrCodePersistence, err, "create sqlite dir")
		}
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, seesawerrors.Wrap(seesawerrors.ErrCodePersistence, err, "connect %s", driver)
	}
	if driver == DriverSQLite {
		// One writer at a time; avoids "database is locked".
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(2)
	}

	g := &SQLGateway{db: db, driver: driver, table: table, slot: slot}
	if err := g.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return g, nil
}

func (g *SQLGateway) migrate(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		slot TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`, g.table)
	if _, err := g.db.ExecContext(ctx, ddl); err != nil {
		return seesawerrors.Wrap(seesawerrors.ErrCodePersistence, err, "create table %s", g.table)
	}
	return nil
}

// Save upserts the slot row.
func (g *SQLGateway) Save(ctx context.Context, s simulation.State) (err error) {
	start := time.Now()
	data, err := Encode(s)
	defer func() { observeSave(ctx, g.Backend(), start, len(data), err) }()
	if err != nil {
		return seesawerrors.Wrap(seesawerrors.ErrCodeInternal, err, "encode state")
	}

	query := g.db.Rebind(fmt.Sprintf(`INSERT INTO %s (slot, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (slot) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`, g.table))
	if _, err := g.db.ExecContext(ctx, query, g.slot, string(data), time.Now().UTC()); err != nil {
		return seesawerrors.Wrap(seesawerrors.ErrCodePersistence, err, "save slot %q", g.slot)
	}
	return nil
}

// Load reads the slot row.
func (g *SQLGateway) Load(ctx context.Context) (s simulation.State, found bool, err error) {
	start := time.Now()
	defer func() { observeLoad(ctx, g.Backend(), start, found, err) }()

	var row stateRow
	query := g.db.Rebind(fmt.Sprintf(`SELECT payload, updated_at FROM %s WHERE slot = ?`, g.table))
	err = g.db.GetContext(ctx, &row, query, g.slot)
	if errors.Is(err, sql.ErrNoRows) {
		return simulation.Empty(), false, nil
	}
	if err != nil {
		return simulation.State{}, false, seesawerrors.Wrap(seesawerrors.ErrCodePersistence, err, "load slot %q", g.slot)
	}

	s, err = Decode([]byte(row.Payload))
	if err != nil {
		return simulation.State{}, false, seesawerrors.Wrap(seesawerrors.ErrCodePersistence, err, "load slot %q", g.slot)
	}
	return s, true, nil
}

// Clear deletes the slot row.
func (g *SQLGateway) Clear(ctx context.Context) error {
	query := g.db.Rebind(fmt.Sprintf(`DELETE FROM %s WHERE slot = ?`, g.table))
	if _, err := g.db.ExecContext(ctx, query, g.slot); err != nil {
		return seesawerrors.Wrap(seesawerrors.ErrCodePersistence, err, "clear slot %q", g.slot)
	}
	return nil
}

// Slots lists every slot with saved state, most recently updated first.
func (g *SQLGateway) Slots(ctx context.Context) ([]string, error) {
	var slots []string
	query := fmt.Sprintf(`SELECT slot FROM %s ORDER BY updated_at DESC`, g.table)
	if err := g.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, seesawerrors.Wrap(seesawerrors.ErrCodePersistence, err, "list slots")
	}
	return slots, nil
}

// Backend returns "sqlite" or "postgres".
func (g *SQLGateway) Backend() string {
	if g.driver == DriverSQLite {
		return "sqlite"
	}
	return g.driver
}

// Close closes the database handle.
func (g *SQLGateway) Close() error { return g.db.Close() }

// tableName derives the table from the namespace.
func tableName(namespace string) string {
	if namespace == "" {
		return "seesaw_state"
	}
	return identifier(namespace) + "_seesaw_state"
}

var nonIdent = regexp.MustCompile(`[^a-z0-9_]+`)

// identifier lowercases s and replaces runs of characters that are not valid
// in an unquoted SQL identifier with an underscore.
func identifier(s string) string {
	s = nonIdent.ReplaceAllString(strings.ToLower(s), "_")
	if s == "" || (s[0] >= '0' && s[0] <= '9') {
		s = "ns_" + s
	}
	return s
}

var _ Store = (*SQLGateway)(nil)
