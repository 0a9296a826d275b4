package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hotel_directory/internal/domain"
	"hotel_directory/internal/shared"
	mongostore "hotel_directory/internal/storage/mongo"
	mysqlrepo "hotel_directory/internal/storage/mysql"
	redisstore "hotel_directory/internal/storage/redis"
)

// Store is an opened backend together with its teardown.
type Store struct {
	Repo    domain.HotelRepository
	Driver  string
	migrate func(context.Context) error
	close   func(context.Context) error
}

// Open connects to the backend selected by cfg.StoreDriver and verifies it
// answers a ping.
func Open(ctx context.Context, cfg shared.Config) (*Store, error) {
	switch cfg.StoreDriver {
	case shared.DriverMySQL:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, fmt.Errorf("sql.Open: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("db.Ping: %w", err)
		}
		return &Store{
			Repo:    mysqlrepo.New(db),
			Driver:  cfg.StoreDriver,
			migrate: func(ctx context.Context) error { return mysqlrepo.EnsureSchema(ctx, db) },
			close:   func(context.Context) error { return db.Close() },
		}, nil

	case shared.DriverRedis:
		c := redisstore.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := c.Ping(ctx).Err(); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		return &Store{
			Repo:    redisstore.New(c, cfg.RedisPrefix),
			Driver:  cfg.StoreDriver,
			migrate: func(context.Context) error { return nil },
			close:   func(context.Context) error { return c.Close() },
		}, nil

	default:
		db, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		repo := mongostore.New(db, cfg.MongoCollection)
		return &Store{
			Repo:   repo,
			Driver: shared.DriverMongo,
			migrate: func(ctx context.Context) error {
				names, err := repo.EnsureIndexes(ctx)
				if err == nil {
					log.Info().Strs("indexes", names).Msg("mongo indexes ensured")
				}
				return err
			},
			close: func(ctx context.Context) error { return db.Client().Disconnect(ctx) },
		}, nil
	}
}

// Migrate creates the table or indexes the backend needs. Redis needs none.
func (s *Store) Migrate(ctx context.Context) error { return s.migrate(ctx) }

func (s *Store) Close(ctx context.Context) error { return s.close(ctx) }
