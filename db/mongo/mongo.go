package mongo

import (
	"context"
	"fmt"

	"bharatparcel/config"
	"bharatparcel/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type MongoDB struct {
	Client *mongo.Client
	cfg    *config.Config
	log    *logger.Logger
}

func NewMongoDB(cfg *config.Config, log *logger.Logger) *MongoDB {
	return &MongoDB{cfg: cfg, log: log}
}

func (m *MongoDB) Connect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.WriteTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(m.cfg.MongoURL))
	if err != nil {
		return fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("failed to ping mongo: %w", err)
	}
	m.Client = client
	m.log.Info("connected to mongo", "url", m.cfg.RedactedMongoURL(), "database", m.cfg.MongoDB)
	return nil
}

func (m *MongoDB) Disconnect(ctx context.Context) error {
	if m.Client == nil {
		return nil
	}
	return m.Client.Disconnect(ctx)
}

func (m *MongoDB) Ping(ctx context.Context) error {
	if m.Client == nil {
		return fmt.Errorf("mongo not connected")
	}
	return m.Client.Ping(ctx, readpref.Primary())
}
