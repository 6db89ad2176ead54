// Package engine 把协同模型、内容模型、混合与重排组装为端到端的
// 推荐引擎，并负责模型缓存与版本失效。
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/reelkit/reelkit/cf"
	"github.com/reelkit/reelkit/content"
	"github.com/reelkit/reelkit/core"
	"github.com/reelkit/reelkit/hybrid"
	"github.com/reelkit/reelkit/pipeline"
	"github.com/reelkit/reelkit/rerank"
)

// DefaultBackfillRestrict 是回填阶段的默认展示限定：只回填电影。
const DefaultBackfillRestrict = `item.media_kind == "movie"`

// Engine 是混合推荐引擎。
//
// 对外三个操作：
//   - GetRecommendations：端到端推荐（混合打分 → MMR 多样性重排 → 回填）
//   - InvalidateModels：递增版本令牌并驱逐缓存，下一次请求触发全量重建
//   - WarmUp：进程启动时的可选预热，避免首请求冷启动延迟
//
// 模型构建同步阻塞触发方；同一令牌的并发 miss 由缓存内部串行。
// 评分路径只读，无跨请求协调。
type Engine struct {
	catalog      core.CatalogStore
	interactions core.InteractionStore
	versions     VersionStore
	cache        *ModelCache

	alpha            float64
	lambda           float64
	candidatePool    int
	rerankTarget     int
	backfillRestrict string
	ordinalRelevance bool
	vectorizer       *content.Vectorizer

	log     zerolog.Logger
	metrics *Metrics
}

// Option 配置 Engine。
type Option func(*Engine)

// WithAlpha 设置混合权重（协同侧）。
func WithAlpha(alpha float64) Option {
	return func(e *Engine) { e.alpha = alpha }
}

// WithLambda 设置 MMR 的相关性/多样性权衡系数。
func WithLambda(lambda float64) Option {
	return func(e *Engine) { e.lambda = lambda }
}

// WithCandidatePool 设置进入重排的候选池大小。
func WithCandidatePool(k int) Option {
	return func(e *Engine) { e.candidatePool = k }
}

// WithRerankTarget 设置 MMR 的目标输出条数。
func WithRerankTarget(n int) Option {
	return func(e *Engine) { e.rerankTarget = n }
}

// WithBackfillRestrict 设置回填候选的 CEL 限定表达式；空串表示不限定。
func WithBackfillRestrict(expr string) Option {
	return func(e *Engine) { e.backfillRestrict = expr }
}

// WithOrdinalRelevance 让 MMR 的 relevance 使用序数近似而非真实混合分，
// 用于复现历史排序行为。
func WithOrdinalRelevance() Option {
	return func(e *Engine) { e.ordinalRelevance = true }
}

// WithVectorizer 覆盖内容模型的向量化参数。
func WithVectorizer(v *content.Vectorizer) Option {
	return func(e *Engine) { e.vectorizer = v }
}

// WithLogger 注入结构化日志。
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithMetrics 注入指标。
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// New 创建引擎。catalog / interactions / versions 是必需的协作方。
func New(
	catalog core.CatalogStore,
	interactions core.InteractionStore,
	versions VersionStore,
	opts ...Option,
) *Engine {
	e := &Engine{
		catalog:          catalog,
		interactions:     interactions,
		versions:         versions,
		alpha:            core.DefaultAlpha,
		lambda:           core.DefaultLambda,
		candidatePool:    core.DefaultCandidatePool,
		rerankTarget:     core.DefaultRerankTarget,
		backfillRestrict: DefaultBackfillRestrict,
		log:              zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.cache = NewModelCache(e.buildModel, e.log, e.metrics)
	return e
}

// GetRecommendations 为用户返回至多 count 个推荐物品。
// count <= 0 时返回空列表。两路信号全空时同样返回空列表，不报错。
func (e *Engine) GetRecommendations(ctx context.Context, userID int64, count int) ([]core.ItemKey, error) {
	if count <= 0 {
		return nil, nil
	}

	model, err := e.currentModel(ctx)
	if err != nil {
		return nil, err
	}

	cfScores := model.CFScores(userID)
	cbScores := model.ContentScores(userID)

	seen, err := e.interactions.ListUserItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load seen-set for user %d: %w", userID, err)
	}

	blender := &hybrid.Blender{Alpha: e.alpha}
	items := blender.Blend(cfScores, cbScores, seen)

	rctx := &core.RecommendContext{
		UserID: userID,
		Scene:  "for-you",
		Params: map[string]any{"count": count},
	}

	pipe := &pipeline.Pipeline{Nodes: []pipeline.Node{
		&rerank.MMRNode{
			Embeddings:       model,
			Lambda:           e.lambda,
			TargetCount:      e.rerankTarget,
			CandidatePool:    e.candidatePool,
			OrdinalRelevance: e.ordinalRelevance,
		},
		&rerank.BackfillNode{
			Restrict: e.backfillRestrict,
		},
	}}

	ranked, err := pipe.Run(ctx, rctx, items)
	if err != nil {
		return nil, err
	}

	if len(ranked) > count {
		ranked = ranked[:count]
	}
	keys := make([]core.ItemKey, len(ranked))
	for i, it := range ranked {
		keys[i] = it.Key
	}
	return keys, nil
}

// InvalidateModels 递增版本令牌并驱逐缓存模型。
// 下一次使用新令牌的请求会触发同步全量重建。
func (e *Engine) InvalidateModels(ctx context.Context) error {
	token, err := e.versions.Increment(ctx)
	if err != nil {
		return fmt.Errorf("increment model version: %w", err)
	}
	e.cache.EvictAll()
	e.metrics.invalidation()
	e.log.Info().Str("token", token).Msg("models invalidated")
	return nil
}

// WarmUp 预构建当前令牌的模型。构建失败返回错误，由调用方决定是否致命。
func (e *Engine) WarmUp(ctx context.Context) error {
	_, err := e.currentModel(ctx)
	return err
}

// Cache 暴露模型缓存（诊断/测试用）。
func (e *Engine) Cache() *ModelCache { return e.cache }

func (e *Engine) currentModel(ctx context.Context) (*Model, error) {
	token, err := e.versions.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("read model version: %w", err)
	}
	return e.cache.GetOrBuild(ctx, token)
}

// buildModel 是昂贵路径：一次性读全量存储并拟合两个模型。
// 存储读取失败对本次构建是致命的，错误传播、不缓存任何部分结果。
func (e *Engine) buildModel(ctx context.Context, token string) (*Model, error) {
	var (
		entries []core.CatalogEntry
		actions []core.Interaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = e.catalog.ListItems(gctx)
		if err != nil {
			return fmt.Errorf("list catalog items: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		actions, err = e.interactions.ListInteractions(gctx)
		if err != nil {
			return fmt.Errorf("list interactions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	keys := make([]core.ItemKey, len(entries))
	for i, entry := range entries {
		keys[i] = entry.Key
	}

	// 两个模型相互独立，并发拟合
	var (
		cfModel      *cf.Model
		contentModel *content.Model
	)
	var fit errgroup.Group
	fit.Go(func() error {
		cfModel = cf.Build(actions, keys)
		return nil
	})
	fit.Go(func() error {
		contentModel = content.Fit(entries, e.vectorizer)
		return nil
	})
	_ = fit.Wait()

	history := make(map[int64][]core.Interaction)
	for _, a := range actions {
		history[a.UserID] = append(history[a.UserID], a)
	}

	return &Model{
		Token:        token,
		BuiltAt:      time.Now(),
		cfModel:      cfModel,
		contentModel: contentModel,
		history:      history,
	}, nil
}
