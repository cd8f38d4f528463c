// Package bizcontext — кэширующий декоратор загрузчика контекста бизнеса
// поверх Redis (cache-aside). Реализует тот же интерфейс, что и прямой
// загрузчик: горячий путь чтения слотов ходит через кэш, транзакционные
// пути используют прямую реализацию. Ошибки Redis деградируют до
// прямой загрузки — кэш никогда не становится источником отказа.
package bizcontext

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// ContextLoader интерфейс загрузчика контекста (прямая реализация)
type ContextLoader interface {
	Load(ctx context.Context, businessID int64) (*domain.BusinessContext, error)
	LoadBySlug(ctx context.Context, slug string) (*domain.BusinessContext, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// CachedLoader загрузчик контекста бизнеса с кэшем в Redis
type CachedLoader struct {
	rdb    *redis.Client
	next   ContextLoader
	ttl    time.Duration
	logger Logger
}

// NewCachedLoader создает кэширующий декоратор
func NewCachedLoader(rdb *redis.Client, next ContextLoader, ttl time.Duration, logger Logger) *CachedLoader {
	return &CachedLoader{rdb: rdb, next: next, ttl: ttl, logger: logger}
}

func cacheKey(businessID int64) string {
	return fmt.Sprintf("bizctx:%d", businessID)
}

// Load возвращает контекст из кэша или загружает и кэширует его
func (c *CachedLoader) Load(ctx context.Context, businessID int64) (*domain.BusinessContext, error) {
	key := cacheKey(businessID)

	payload, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var bctx domain.BusinessContext
		if jsonErr := json.Unmarshal(payload, &bctx); jsonErr == nil {
			return &bctx, nil
		}
		// Битая запись в кэше: удаляем и идем в источник
		c.logger.Warn("Load: corrupted cache entry for business id=%d, falling through", businessID)
		c.rdb.Del(ctx, key)
	} else if err != redis.Nil {
		c.logger.Error("Load: redis error for business id=%d, falling through: %v", businessID, err)
	}

	bctx, err := c.next.Load(ctx, businessID)
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, bctx)
	return bctx, nil
}

// LoadBySlug не кэшируется по slug: резолвим через источник,
// кэш прогреется по ID при следующем Load
func (c *CachedLoader) LoadBySlug(ctx context.Context, slug string) (*domain.BusinessContext, error) {
	bctx, err := c.next.LoadBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	c.store(ctx, cacheKey(bctx.BusinessID), bctx)
	return bctx, nil
}

// Invalidate сбрасывает кэш бизнеса; вызывается после staffing-изменений
func (c *CachedLoader) Invalidate(ctx context.Context, businessID int64) {
	if err := c.rdb.Del(ctx, cacheKey(businessID)).Err(); err != nil {
		c.logger.Warn("Invalidate: failed to drop cache for business id=%d: %v", businessID, err)
	}
}

func (c *CachedLoader) store(ctx context.Context, key string, bctx *domain.BusinessContext) {
	payload, err := json.Marshal(bctx)
	if err != nil {
		c.logger.Warn("store: failed to marshal context for %s: %v", key, err)
		return
	}
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("store: failed to cache context for %s: %v", key, err)
	}
}
