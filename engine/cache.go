package engine

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// BuildFunc 执行一次全量模型构建（昂贵路径）。
type BuildFunc func(ctx context.Context, token string) (*Model, error)

// ModelCache 按版本令牌缓存已构建的混合模型。
//
// 契约：
//   - GetOrBuild(token) 记忆化：每个令牌至多构建一次；
//     并发 miss 通过 singleflight 按令牌串行，不会触发重复构建
//   - 构建失败时不缓存任何东西，错误传播给触发方；
//     已有的旧模型（如果还在）保持可用
//   - Evict/EvictAll 显式驱逐，由失效路径调用
type ModelCache struct {
	build   BuildFunc
	log     zerolog.Logger
	metrics *Metrics

	mu     sync.RWMutex
	models map[string]*Model
	group  singleflight.Group
}

func NewModelCache(build BuildFunc, log zerolog.Logger, metrics *Metrics) *ModelCache {
	return &ModelCache{
		build:   build,
		log:     log,
		metrics: metrics,
		models:  make(map[string]*Model),
	}
}

// GetOrBuild 返回令牌对应的模型，缓存未命中时同步构建。
func (c *ModelCache) GetOrBuild(ctx context.Context, token string) (*Model, error) {
	c.mu.RLock()
	m, ok := c.models[token]
	c.mu.RUnlock()
	if ok {
		c.metrics.cacheHit()
		return m, nil
	}
	c.metrics.cacheMiss()

	v, err, _ := c.group.Do(token, func() (any, error) {
		// singleflight 排队期间可能已有人完成构建
		c.mu.RLock()
		m, ok := c.models[token]
		c.mu.RUnlock()
		if ok {
			return m, nil
		}

		start := time.Now()
		built, err := c.build(ctx, token)
		if err != nil {
			c.log.Error().Err(err).Str("token", token).Msg("model build failed")
			return nil, err
		}

		c.mu.Lock()
		c.models[token] = built
		c.mu.Unlock()

		elapsed := time.Since(start)
		c.metrics.observeBuild(elapsed)
		c.log.Info().
			Str("token", token).
			Dur("elapsed", elapsed).
			Msg("model built")
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Model), nil
}

// Peek 返回令牌对应的已缓存模型（不触发构建）。
func (c *ModelCache) Peek(token string) (*Model, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.models[token]
	return m, ok
}

// Evict 驱逐单个令牌的模型。
func (c *ModelCache) Evict(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.models, token)
}

// EvictAll 驱逐全部模型。
func (c *ModelCache) EvictAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.models = make(map[string]*Model)
}
