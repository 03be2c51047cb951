package app

import (
	"context"
	"fmt"

	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/yungbote/dsaquest-backend/internal/clients/redis"
	"github.com/yungbote/dsaquest-backend/internal/platform/gcp"
	"github.com/yungbote/dsaquest-backend/internal/platform/logger"
	"github.com/yungbote/dsaquest-backend/internal/platform/neo4jdb"
	"github.com/yungbote/dsaquest-backend/internal/temporalx"
)

// Clients holds the optional external backends. Each field is nil when its
// backend is not configured.
type Clients struct {
	Locker        redis.Locker
	Neo4j         *neo4jdb.Client
	ContentBucket *gcp.ContentBucket
	Temporal      temporalsdkclient.Client
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var c Clients

	locker, err := redis.NewLockerFromEnv(log)
	if err != nil {
		return c, fmt.Errorf("init redis reload lock: %w", err)
	}
	c.Locker = locker

	graph, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		c.Close()
		return Clients{}, fmt.Errorf("init neo4j: %w", err)
	}
	c.Neo4j = graph

	if cfg.ContentBucket != "" {
		bucket, err := gcp.NewContentBucket(ctx, log, cfg.ContentBucket)
		if err != nil {
			c.Close()
			return Clients{}, fmt.Errorf("init content bucket: %w", err)
		}
		c.ContentBucket = bucket
	}

	tc, err := temporalx.NewClient(ctx, log, cfg.Temporal)
	if err != nil {
		c.Close()
		return Clients{}, fmt.Errorf("init temporal: %w", err)
	}
	c.Temporal = tc
	return c, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Temporal != nil {
		c.Temporal.Close()
	}
	if c.ContentBucket != nil {
		_ = c.ContentBucket.Close()
	}
	if c.Neo4j != nil {
		_ = c.Neo4j.Close(context.Background())
	}
	if c.Locker != nil {
		_ = c.Locker.Close()
	}
}
