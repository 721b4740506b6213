package redis

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/drsn-tech/catalog-core/internal/cfg"
	"github.com/drsn-tech/catalog-core/internal/domain"
	"github.com/drsn-tech/catalog-core/pkg/clients"
	"github.com/drsn-tech/catalog-core/pkg/e"
	"github.com/drsn-tech/catalog-core/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

const snapshotKey = "catalog:snapshot"

// CacheRepo кэширует полный снапшот коллекции товаров в Redis.
// Снапшот всегда пишется и читается целиком: частичных обновлений нет,
// как и у локальной коллекции. Все ошибки кэша не фатальны.
type CacheRepo struct {
	client *clients.RedisClient
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// GetSnapshot возвращает закэшированную коллекцию либо (nil, nil) при промахе.
func (c *CacheRepo) GetSnapshot(ctx context.Context) ([]domain.Product, error) {
	data, err := c.client.Client.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, nil // cache miss
		}
		c.logger.Warnf("Redis GET failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		c.logger.Warnf("Snapshot unmarshal failed, dropping cache entry: %v", e.Wrap(whereami.WhereAmI(), err))
		if err := c.client.Client.Del(ctx, snapshotKey).Err(); err != nil {
			c.logger.Warnf("Redis DEL failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}
		return nil, nil // treat as miss
	}

	return products, nil
}

// SetSnapshot кэширует коллекцию с TTL из конфигурации.
func (c *CacheRepo) SetSnapshot(ctx context.Context, products []domain.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := c.client.Client.Set(ctx, snapshotKey, data, c.cfg.SnapshotTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// DeleteSnapshot сбрасывает кэш; вызывается перед перезагрузкой после мутации.
func (c *CacheRepo) DeleteSnapshot(ctx context.Context) error {
	if err := c.client.Client.Del(ctx, snapshotKey).Err(); err != nil {
		c.logger.Warnf("Redis DEL failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
