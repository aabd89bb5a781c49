package repositories

import (
	"context"
	"fmt"
	"log/slog"

	"catalog/internal/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Supported values for StoreOptions.Driver.
const (
	DriverMongo    = "mongodb"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// StoreOptions selects and addresses the backing database.
type StoreOptions struct {
	Driver           string
	ConnectionString string
	// Database is the Mongo database name. Ignored by the SQL drivers.
	Database string
}

// Store bundles the repositories of one backend with its lifecycle hooks.
type Store struct {
	Products   ProductRepository
	Categories CategoryRepository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Ping checks that the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the backend connection.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// OpenStore builds the store for opts.Driver. Only an unknown driver is
// returned as an error. A connection that cannot be opened or reached is
// logged and a store is returned anyway, so every later query fails on its own.
func OpenStore(ctx context.Context, opts StoreOptions, logger *slog.Logger) (*Store, error) {
	switch opts.Driver {
	case DriverMongo, "":
		return openMongoStore(ctx, opts, logger)
	case DriverPostgres:
		return openGORMStore(ctx, postgres.Open(opts.ConnectionString), logger)
	case DriverSQLite:
		return openGORMStore(ctx, sqlite.Open(opts.ConnectionString), logger)
	case DriverMemory:
		return NewMockStore(), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}

func openMongoStore(ctx context.Context, opts StoreOptions, logger *slog.Logger) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.ConnectionString))
	if err != nil {
		err = fmt.Errorf("failed to create mongo client: %w", err)
		logger.Error("could not connect to MongoDB", "database", opts.Database, "error", err)
		return newUnavailableStore(err), nil
	}
	db := client.Database(opts.Database)

	if err := client.Ping(ctx, nil); err != nil {
		logger.Error("could not reach MongoDB", "database", opts.Database, "error", err)
	} else {
		logger.Info("connected to MongoDB", "database", opts.Database)
	}

	return &Store{
		Products:   NewMongoProductRepository(db),
		Categories: NewMongoCategoryRepository(db),
		ping:       func(ctx context.Context) error { return client.Ping(ctx, nil) },
		close:      client.Disconnect,
	}, nil
}

func openGORMStore(ctx context.Context, dialector gorm.Dialector, logger *slog.Logger) (*Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		// categoryId is a loose reference, not a constraint.
		DisableForeignKeyConstraintWhenMigrating: true,
		DisableAutomaticPing:                     true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		err = fmt.Errorf("failed to open %s database: %w", dialector.Name(), err)
		logger.Error("could not connect to database", "driver", dialector.Name(), "error", err)
		return newUnavailableStore(err), nil
	}

	store := NewGORMStore(db)
	if err := store.Ping(ctx); err != nil {
		logger.Error("could not reach database", "driver", dialector.Name(), "error", err)
		return store, nil
	}
	if err := db.WithContext(ctx).AutoMigrate(&models.Category{}, &models.Product{}); err != nil {
		logger.Error("failed to migrate database", "driver", dialector.Name(), "error", err)
		return store, nil
	}
	logger.Info("connected to database", "driver", dialector.Name())
	return store, nil
}

// NewGORMStore wraps an open GORM connection. The schema is expected to exist.
func NewGORMStore(db *gorm.DB) *Store {
	return &Store{
		Products:   NewGORMProductRepository(db),
		Categories: NewGORMCategoryRepository(db),
		ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

// NewMockStore returns an empty in-memory store.
func NewMockStore() *Store {
	categories := NewMockCategoryRepository()
	return &Store{
		Products:   NewMockProductRepository(categories),
		Categories: categories,
	}
}
