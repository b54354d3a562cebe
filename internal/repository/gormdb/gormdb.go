// Package gormdb implements the repository interfaces on top of GORM.
//
// DIALECTS:
// Two dialects are supported, chosen by config.DatabaseConfig.Driver:
//   - sqlite: GORM's sqlite dialector driving modernc.org/sqlite, a pure Go
//     SQLite, so no C compiler is needed. The dialector is pointed at the
//     "sqlite" driver name that modernc registers.
//   - postgres: gorm.io/driver/postgres (pgx underneath).
//
// SQLITE CONNECTION SETTINGS:
// PRAGMAs such as foreign_keys are per connection, and database/sql hands out
// many connections from its pool. Putting them in the DSN (_pragma=...) makes
// modernc apply them to every new connection. An in-memory database exists
// only inside the connection that created it, so ":memory:" is pinned to a
// single connection.
package gormdb

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	// Registers the pure Go "sqlite" database/sql driver.
	_ "modernc.org/sqlite"

	"github.com/sakif/bookshelf/internal/config"
	"github.com/sakif/bookshelf/internal/model"
)

const sqliteDriverName = "sqlite"

// DB wraps a *gorm.DB and implements the repository interfaces.
type DB struct {
	conn *gorm.DB
}

// Open connects using cfg, applies pool settings and migrates the schema.
func Open(cfg config.DatabaseConfig, logger *slog.Logger) (*DB, error) {
	dialector, err := newDialector(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(logger),
		// Postgres errors become gorm.ErrDuplicatedKey / ErrForeignKeyViolated.
		// SQLite errors are classified in errors.go.
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("gormdb: opening %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("gormdb: getting connection pool: %w", err)
	}

	if cfg.Driver == config.DriverSQLite && isMemoryDSN(cfg.DSN) {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("gormdb: running migrations: %w", err)
	}

	return db, nil
}

func newDialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return &gormsqlite.Dialector{
			DriverName: sqliteDriverName,
			DSN:        sqliteDSN(cfg.DSN),
		}, nil
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("gormdb: unsupported driver %q", cfg.Driver)
	}
}

// sqliteDSN appends the per-connection pragmas to a path or ":memory:".
func sqliteDSN(path string) string {
	pragmas := []string{
		"_pragma=foreign_keys(1)",
		"_pragma=busy_timeout(5000)",
	}
	if !isMemoryDSN(path) {
		pragmas = append(pragmas, "_pragma=journal_mode(WAL)")
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(pragmas, "&")
}

func isMemoryDSN(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

// newGormLogger routes GORM's query log through slog at warn level, so slow
// queries and real failures show up but routine "record not found" do not.
func newGormLogger(logger *slog.Logger) gormlogger.Interface {
	return gormlogger.New(
		slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// migrate creates or updates the users, books and profiles tables.
// User must come first so the foreign keys on books and profiles resolve.
func (db *DB) migrate() error {
	return db.conn.AutoMigrate(&model.User{}, &model.Book{}, &model.Profile{})
}

// Reset drops every table and recreates the schema. Used by the seed command.
func (db *DB) Reset(ctx context.Context) error {
	if err := db.conn.WithContext(ctx).Migrator().DropTable(&model.Profile{}, &model.Book{}, &model.User{}); err != nil {
		return fmt.Errorf("gormdb: dropping tables: %w", err)
	}
	if err := db.migrate(); err != nil {
		return fmt.Errorf("gormdb: recreating tables: %w", err)
	}
	return nil
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	sqlDB, err := db.conn.DB()
	if err != nil {
		return fmt.Errorf("gormdb: getting connection pool: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("gormdb: ping: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (db *DB) Close() error {
	sqlDB, err := db.conn.DB()
	if err != nil {
		return fmt.Errorf("gormdb: getting connection pool: %w", err)
	}
	return sqlDB.Close()
}
