// internal/store/probe.go
package store

import (
	"context"
	"time"

	"krishisahay/internal/common/config"
	"krishisahay/internal/common/database"
	"krishisahay/internal/common/logger"
	"krishisahay/internal/store/elastic"
	"krishisahay/internal/store/noop"
	"krishisahay/internal/store/postgres"
	"krishisahay/internal/store/redisstore"
)

const probeTimeout = 5 * time.Second

// Probe walks the configured backends in preference order (Postgres,
// then Redis) and returns the first one that answers a ping. A backend
// that is not configured is skipped silently; one that is configured
// but unreachable is logged and skipped. When nothing is reachable the
// service still comes up on the noop store and answers every query
// fresh.
//
// When Elasticsearch is configured and reachable it takes over the
// knowledge side only; cache and feedback stay on the primary store.
func Probe(ctx context.Context, cfg *config.Config, log logger.Logger) *Stores {
	stores := &Stores{}

	primary := probePrimary(ctx, cfg, log)
	stores.Cache = primary
	stores.Knowledge = primary
	stores.Feedback = primary
	stores.Backend = primary.Name()
	stores.closers = append(stores.closers, primary.Close)

	if es := probeElasticsearch(cfg, log); es != nil {
		stores.Knowledge = es
		log.Info("knowledge lookups served from elasticsearch", map[string]interface{}{
			"index": elastic.DefaultIndex,
		})
	}

	log.Info("storage backend selected", map[string]interface{}{
		"backend": stores.Backend,
	})
	return stores
}

func probePrimary(ctx context.Context, cfg *config.Config, log logger.Logger) Store {
	if cfg.Database.Postgres.Configured() {
		if pg := probePostgres(ctx, cfg.Database.Postgres, log); pg != nil {
			return pg
		}
	}
	if cfg.Database.Redis.Configured() {
		if rs := probeRedis(ctx, cfg.Database.Redis, log); rs != nil {
			return rs
		}
	}
	log.Warn("no storage backend reachable, caching disabled", nil)
	return noop.New()
}

func probePostgres(ctx context.Context, cfg config.PostgresConfig, log logger.Logger) Store {
	client, err := database.NewPostgres(cfg)
	if err != nil {
		log.Warn("postgres unavailable", map[string]interface{}{"error": err.Error()})
		return nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if err := client.Ping(pingCtx); err != nil {
		log.Warn("postgres unreachable", map[string]interface{}{"error": err.Error()})
		client.Close()
		return nil
	}

	pg := postgres.New(client.DB)
	if err := pg.EnsureSchema(pingCtx); err != nil {
		log.Warn("postgres schema setup failed", map[string]interface{}{"error": err.Error()})
		client.Close()
		return nil
	}
	return pg
}

func probeRedis(ctx context.Context, cfg config.RedisConfig, log logger.Logger) Store {
	client, err := database.NewRedis(cfg)
	if err != nil {
		log.Warn("redis unavailable", map[string]interface{}{"error": err.Error()})
		return nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if err := client.Ping(pingCtx); err != nil {
		log.Warn("redis unreachable", map[string]interface{}{"error": err.Error()})
		client.Close()
		return nil
	}
	return redisstore.New(client.Client)
}

func probeElasticsearch(cfg *config.Config, log logger.Logger) KnowledgeStore {
	if !cfg.Database.Elasticsearch.Configured() {
		return nil
	}

	client, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		log.Warn("elasticsearch unavailable", map[string]interface{}{"error": err.Error()})
		return nil
	}
	if err := client.Ping(); err != nil {
		log.Warn("elasticsearch unreachable", map[string]interface{}{"error": err.Error()})
		return nil
	}
	return elastic.New(client.Client, elastic.DefaultIndex)
}
