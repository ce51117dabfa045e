// Package store opens the task store named by the connection string and owns its lifetime.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BuzzLyutic/taskmaster-api/internal/repo"
)

type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// DriverFor picks the backend from the connection string scheme.
// postgres:// and postgresql:// go to pgx, everything else is a SQLite path or file: URI.
func DriverFor(dsn string) Driver {
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return DriverPostgres
	}
	return DriverSQLite
}

// Store is the single long-lived store handle shared by the service layer.
type Store struct {
	Tasks  repo.TaskRepository
	Driver Driver
	close  func() error
}

// Close releases the underlying connections.
func (s *Store) Close() error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close()
}

func Open(ctx context.Context, dsn string, log *zap.Logger) (*Store, error) {
	switch DriverFor(dsn) {
	case DriverPostgres:
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		log.Info("Connected to the Database", zap.String("driver", string(DriverPostgres)))
		return &Store{
			Tasks:  repo.NewTaskRepo(pool),
			Driver: DriverPostgres,
			close: func() error {
				pool.Close()
				return nil
			},
		}, nil
	default:
		db, err := OpenSQLite(strings.TrimPrefix(dsn, "sqlite://"))
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite handle: %w", err)
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("ping sqlite: %w", err)
		}
		log.Info("Connected to the Database", zap.String("driver", string(DriverSQLite)), zap.String("dsn", dsn))
		return &Store{
			Tasks:  repo.NewGormTaskRepo(db),
			Driver: DriverSQLite,
			close:  sqlDB.Close,
		}, nil
	}
}

// OpenSQLite opens a SQLite database through gorm and creates the tasks table.
// A single connection is used so that ":memory:" databases are shared and writes serialize.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := repo.NewGormTaskRepo(db).AutoMigrate(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return db, nil
}
