// Package database opens the relational store and owns its schema.
package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"momoledger/momo-ingest/internal/logging"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultTimeout bounds a single storage operation when none is configured.
const DefaultTimeout = 30 * time.Second

// Options selects and tunes the database.
type Options struct {
	Driver   string
	DSN      string
	LogLevel string // silent, error, warn or info
	Timeout  time.Duration
}

// DB wraps a gorm handle with the per-operation timeout.
type DB struct {
	*gorm.DB
	driver  string
	timeout time.Duration
}

// Open connects to the configured database and migrates the schema.
func Open(opts Options, logger logging.Logger) (*DB, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if strings.TrimSpace(opts.DSN) == "" {
		return nil, fmt.Errorf("database DSN is empty")
	}

	var dialector gorm.Dialector
	switch opts.Driver {
	case DriverSQLite:
		dialector = sqlite.Open(sqliteDSN(opts.DSN))
	case DriverPostgres:
		dialector = postgres.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormLogLevel(opts.LogLevel)),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", opts.Driver, err)
	}

	if opts.Driver == DriverSQLite {
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sqlite pool: %w", err)
		}
		// SQLite allows one writer; a single connection also keeps ":memory:" databases alive.
		sqlDB.SetMaxOpenConns(1)
	}

	db := &DB{DB: gdb, driver: opts.Driver, timeout: opts.Timeout}

	ctx, cancel := db.Context(context.Background())
	defer cancel()
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Debug("Database ready",
		logging.F(logging.FieldDriver, opts.Driver),
		logging.F("timeout", opts.Timeout.String()))
	return db, nil
}

// Migrate creates or updates every table.
func (db *DB) Migrate(ctx context.Context) error {
	if err := db.WithContext(ctx).AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Context derives a context bounded by the storage timeout.
func (db *DB) Context(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, db.timeout)
}

// Driver returns the driver name the database was opened with.
func (db *DB) Driver() string {
	return db.driver
}

// Timeout returns the per-operation storage timeout.
func (db *DB) Timeout() time.Duration {
	return db.timeout
}

// Close releases the connection pool.
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func sqliteDSN(dsn string) string {
	if dsn == ":memory:" || strings.Contains(dsn, "busy_timeout") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=busy_timeout(5000)"
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "error":
		return gormlogger.Error
	case "warn":
		return gormlogger.Warn
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Silent
	}
}
