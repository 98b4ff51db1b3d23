package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/north-cloud/richlog/encoding"
	"github.com/north-cloud/richlog/level"
	"github.com/north-cloud/richlog/retry"
)

const (
	// DefaultMaxOpenConns is the default maximum number of open connections.
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the default maximum number of idle connections.
	DefaultMaxIdleConns = 5
	// DefaultConnMaxLifetime is the default maximum lifetime of a connection.
	DefaultConnMaxLifetime = 5 * time.Minute
	// DefaultPingTimeout is the default timeout for pinging the database.
	DefaultPingTimeout = 5 * time.Second
)

// DatabaseConfig holds database sink configuration.
type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite3".
	Driver string `yaml:"driver" env:"LOG_DB_DRIVER"`

	// PostgreSQL connection settings.
	Host     string `yaml:"host"     env:"LOG_DB_HOST"`
	Port     string `yaml:"port"     env:"LOG_DB_PORT"`
	User     string `yaml:"user"     env:"LOG_DB_USER"`
	Password string `yaml:"password" env:"LOG_DB_PASSWORD"`
	DBName   string `yaml:"dbname"   env:"LOG_DB_NAME"`
	SSLMode  string `yaml:"sslmode"  env:"LOG_DB_SSLMODE"`

	// Path is the SQLite database file.
	Path string `yaml:"path" env:"LOG_DB_PATH"`

	Level string `yaml:"level" env:"LOG_DB_LEVEL"`
}

// SetDefaults applies default values to the config if not set.
func (c *DatabaseConfig) SetDefaults() {
	if c.Driver == "" {
		c.Driver = "postgres"
	}
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == "" {
		c.Port = "5432"
	}
	if c.SSLMode == "" {
		c.SSLMode = "disable"
	}
	if c.DBName == "" {
		c.DBName = "logs"
	}
}

// dsn builds the driver-specific connection string.
func (c *DatabaseConfig) dsn() (string, error) {
	switch c.Driver {
	case "postgres":
		return fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
		), nil
	case "sqlite3":
		if c.Path == "" {
			return "", fmt.Errorf("sqlite database path is required")
		}
		return c.Path, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", c.Driver)
	}
}

// Database writes entries into per-level tables (log_debug ..
// log_emergency) plus the aggregate log_syslog table. Tables are created
// on construction if missing.
type Database struct {
	db  *sqlx.DB
	min level.Level
}

// NewDatabase connects, tunes the pool, verifies connectivity with
// retried pings and creates the log tables.
func NewDatabase(ctx context.Context, cfg DatabaseConfig, min level.Level) (*Database, error) {
	cfg.SetDefaults()

	dsn, err := cfg.dsn()
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	if err := retry.WithDefaults(ctx, func() error {
		pingCtx, cancel := context.WithTimeout(ctx, DefaultPingTimeout)
		defer cancel()
		return db.PingContext(pingCtx)
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	d := &Database{db: db, min: min}
	if err := d.createTables(ctx, cfg.Driver); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// newDatabaseWithDB wires an existing connection, for tests.
func newDatabaseWithDB(db *sqlx.DB, min level.Level) *Database {
	return &Database{db: db, min: min}
}

// tableSchema returns the column definitions for the driver. Postgres
// gets a SERIAL id, SQLite an AUTOINCREMENT one.
func tableSchema(driver string) string {
	id := "id SERIAL PRIMARY KEY"
	if driver == "sqlite3" {
		id = "id INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	return id + `,
		timestamp TIMESTAMP NOT NULL,
		level VARCHAR(20) NOT NULL,
		logger VARCHAR(255) NOT NULL,
		message TEXT NOT NULL,
		function VARCHAR(255),
		pathname TEXT,
		lineno INTEGER,
		pid INTEGER,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP`
}

// createTables creates the per-level tables and the aggregate table.
func (d *Database) createTables(ctx context.Context, driver string) error {
	schema := tableSchema(driver)

	tables := make([]string, 0, len(level.All)+1)
	for _, l := range level.All {
		tables = append(tables, l.Table())
	}
	tables = append(tables, aggregateTable)

	for _, table := range tables {
		ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table, schema)
		if _, err := d.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create table %s: %w", table, err)
		}
	}
	return nil
}

// aggregateTable receives a copy of every entry regardless of level.
const aggregateTable = "log_syslog"

const insertColumns = "(timestamp, level, logger, message, function, pathname, lineno, pid) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"

// Emit inserts the entry into its level table and the aggregate table.
func (d *Database) Emit(e *encoding.Entry) error {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultPingTimeout)
	defer cancel()

	for _, table := range []string{e.Level.Table(), aggregateTable} {
		query := d.db.Rebind("INSERT INTO " + table + " " + insertColumns)
		_, err := d.db.ExecContext(ctx, query,
			e.Time,
			e.Level.String(),
			e.LoggerName,
			e.Message,
			e.Caller.Function,
			e.Caller.File,
			e.Caller.Line,
			e.PID,
		)
		if err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
	}
	return nil
}

// MinLevel returns the sink threshold.
func (d *Database) MinLevel() level.Level { return d.min }

// Sync is a no-op; inserts are not buffered.
func (d *Database) Sync() error { return nil }

// Close closes the connection pool.
func (d *Database) Close() error { return d.db.Close() }
