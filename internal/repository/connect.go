package repository

import (
	"context"
	"fmt"

	"github.com/BloggingApp/bloghub/internal/config"
	"github.com/BloggingApp/bloghub/internal/repository/memrepo"
	"github.com/BloggingApp/bloghub/internal/repository/mongorepo"
	"github.com/BloggingApp/bloghub/internal/repository/postgres"
	"github.com/BloggingApp/bloghub/internal/repository/redisrepo"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"
)

// Connect opens the configured storage backend and the redis cache. The
// returned function releases every connection that was opened.
func Connect(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Repository, func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	cache := redisrepo.Disabled()
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pong, err := rdb.Ping(ctx).Result()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		logger.Sugar().Infof("Successfully connected to Redis: %s", pong)
		closers = append(closers, func() { _ = rdb.Close() })
		cache = redisrepo.New(rdb)
	} else {
		logger.Warn("redis.addr is empty, caching disabled")
	}

	switch cfg.StorageDriver {
	case config.DriverMongo:
		client, err := mongo.Connect(options.Client().
			ApplyURI(cfg.Mongo.URI).
			SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)))
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		closers = append(closers, func() { _ = client.Disconnect(context.Background()) })
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
		}
		logger.Info("Successfully connected to MongoDB")

		mongoRepo := mongorepo.New(client.Database(cfg.Mongo.Database), logger)
		return New(mongoRepo.Article, mongoRepo.User, cache), closeAll, nil

	case config.DriverPostgres:
		db, err := postgres.DB(ctx, cfg.Postgres)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		closers = append(closers, db.Close)
		if err := db.Ping(ctx); err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("failed to ping postgres: %w", err)
		}
		logger.Info("Successfully connected to PostgreSQL")

		pgRepo := postgres.New(db, logger)
		return New(pgRepo.Post, pgRepo.User, cache), closeAll, nil

	case config.DriverMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		memRepo := memrepo.New()
		return New(memRepo.Articles(), memRepo.Users(), cache), closeAll, nil
	}

	closeAll()
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
