package database

import (
	"context"
	"fmt"
	stdlog "log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rpupo63/travel-planner/config"
	"github.com/rpupo63/travel-planner/errs"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open builds the draft store named by DRAFT_STORE (memory, redis or postgres).
func Open(ctx context.Context, c map[string]string) (Store, error) {
	ttl := time.Duration(config.GetInt(c, "DRAFT_TTL_HOURS", 24)) * time.Hour
	kind := strings.ToLower(config.GetString(c, "DRAFT_STORE", "memory"))
	log.Info().Str("store", kind).Dur("ttl", ttl).Msg("opening draft store")

	switch kind {
	case "memory":
		return NewMemoryStore(ttl)
	case "redis":
		return openRedis(ctx, c, ttl)
	case "postgres":
		return openPostgres(c, ttl)
	default:
		return nil, errs.NewConfigError("DRAFT_STORE", fmt.Errorf("unsupported draft store %q", kind))
	}
}

func openRedis(ctx context.Context, c map[string]string, ttl time.Duration) (Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.GetString(c, "REDIS_ADDR", "localhost:6379"),
		Password: config.GetString(c, "REDIS_PASSWORD", ""),
		DB:       config.GetInt(c, "REDIS_DB", 0),
	})
	store := NewRedisStore(client, ttl)
	if err := store.Ping(ctx); err != nil {
		client.Close()
		return nil, err
	}
	return store, nil
}

func openPostgres(c map[string]string, ttl time.Duration) (Store, error) {
	connStr := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		config.GetString(c, "DB_HOST", "localhost"),
		config.GetString(c, "DB_USER", "postgres"),
		config.GetString(c, "DB_PASSWORD", ""),
		config.GetString(c, "DB_NAME", "travel_planner"),
		config.GetString(c, "DB_PORT", "5432"),
		config.GetString(c, "DB_SSLMODE", "disable"),
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newGormLogger(),
	})
	if err != nil {
		return nil, errs.NewDatabaseError("connect", "postgres", err)
	}

	store, err := preparePostgres(db, ttl)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// preparePostgres migrates the tables, releasing the pool when that fails.
func preparePostgres(db *gorm.DB, ttl time.Duration) (*PostgresStore, error) {
	store := NewPostgresStore(db, ttl)
	if err := store.Migrate(); err != nil {
		if closeErr := store.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close postgres pool after migrate error")
		}
		return nil, err
	}
	return store, nil
}

// newGormLogger routes gorm's warnings through the global zerolog logger.
func newGormLogger() logger.Interface {
	return logger.New(
		stdlog.New(log.Logger, "", 0),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
