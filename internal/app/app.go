package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/config"
	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/utils"
)

const (
	maxRetries     = 5
	connectTimeout = 5 * time.Second
	initialBackoff = 500 * time.Millisecond
)

type App struct {
	Config *config.Config
	Mongo  *mongo.Database
	Redis  *redis.Client

	mongoClient *mongo.Client
}

func NewApp(cfg *config.Config) (*App, error) {
	var (
		client  *mongo.Client
		err     error
		backoff = initialBackoff
	)

	for i := 1; i <= maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		client, err = connectMongo(ctx, cfg.MongoURI)
		cancel()
		if err == nil {
			utils.Logger.Infof("Successfully connected to MongoDB on attempt %d", i)
			break
		}

		utils.Logger.WithError(err).Warnf(
			"Failed to connect to MongoDB on attempt %d/%d. Retrying in %v...",
			i, maxRetries, backoff,
		)

		if i == maxRetries {
			return nil, fmt.Errorf("unable to connect to MongoDB after %d attempts: %w", maxRetries, err)
		}

		time.Sleep(backoff)
		backoff *= 2
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("unable to connect to Redis: %w", err)
	}
	utils.Logger.Info("Successfully connected to Redis")

	return &App{
		Config:      cfg,
		Mongo:       client.Database(cfg.MongoDB),
		Redis:       rdb,
		mongoClient: client,
	}, nil
}

func (a *App) Close() {
	if a.mongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		if err := a.mongoClient.Disconnect(ctx); err != nil {
			utils.Logger.WithError(err).Warn("Error disconnecting MongoDB client")
		} else {
			utils.Logger.Info("MongoDB connection closed.")
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			utils.Logger.WithError(err).Warn("Error closing Redis client")
		} else {
			utils.Logger.Info("Redis connection closed.")
		}
	}
}

// HealthCheck verifies both backing stores are reachable.
func (a *App) HealthCheck(ctx context.Context) error {
	if err := a.mongoClient.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}
	if err := a.Redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// connectMongo constructs the Mongo client with production-safe pool
// settings: idle sockets are retired before the platform proxy kills
// them, and server selection fails fast when the cluster is down.
func connectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(100).
		SetMaxConnIdleTime(2 * time.Minute).
		SetServerSelectionTimeout(5 * time.Second).
		SetSocketTimeout(15 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}
