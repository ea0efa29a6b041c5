package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/ray-remotestate/swiftserve/config"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

//go:embed migrations
var migrationsFS embed.FS

// DB is a *sql.DB that knows which SQL dialect it speaks.
type DB struct {
	*sql.DB
	Driver string
	dsn    string
}

// Open connects to the configured database and pings it.
func Open(cfg config.DBConfig) (*DB, error) {
	if cfg.Driver != DriverPostgres && cfg.Driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	conn, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	if cfg.Driver == DriverSQLite {
		// one writer, and ":memory:" databases are per connection
		conn.SetMaxOpenConns(1)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}
	return &DB{DB: conn, Driver: cfg.Driver, dsn: cfg.DSN}, nil
}

// ConnectAndMigrate opens the database and, when enabled, applies pending migrations.
func ConnectAndMigrate(cfg config.DBConfig) (*DB, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	if !cfg.AutoMigrate {
		return db, nil
	}
	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate applies the embedded migrations for the current driver.
func (db *DB) Migrate() error {
	src, err := iofs.New(migrationsFS, "migrations/"+db.Driver)
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	var (
		driver   migratedb.Driver
		ownsConn bool
	)
	switch db.Driver {
	case DriverPostgres:
		// the postgres driver pins a connection and closes its instance on Close
		conn, err := sql.Open(DriverPostgres, db.dsn)
		if err != nil {
			return fmt.Errorf("open migration connection: %w", err)
		}
		driver, err = postgres.WithInstance(conn, &postgres.Config{})
		if err != nil {
			_ = conn.Close()
			return fmt.Errorf("migration driver: %w", err)
		}
		ownsConn = true
	case DriverSQLite:
		driver, err = sqlite.WithInstance(db.DB, &sqlite.Config{})
		if err != nil {
			return fmt.Errorf("migration driver: %w", err)
		}
	default:
		return fmt.Errorf("unsupported database driver %q", db.Driver)
	}

	m, err := migrate.NewWithInstance("iofs", src, db.Driver, driver)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	if ownsConn {
		defer m.Close()
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	version, dirty, _ := m.Version()
	logrus.WithFields(logrus.Fields{"driver": db.Driver, "version": version, "dirty": dirty}).Info("migrations applied")
	return nil
}

// Tx runs fn inside a transaction, committing on nil and rolling back otherwise.
func (db *DB) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start a transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rollBackErr := tx.Rollback(); rollBackErr != nil {
			logrus.WithError(rollBackErr).Error("failed to rollback tx")
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rebind rewrites ? placeholders into $N for PostgreSQL.
func (db *DB) Rebind(query string) string {
	return Rebind(db.Driver, query)
}

func Rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func (db *DB) Shutdown() error {
	return db.Close()
}
