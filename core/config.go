package core

// 引擎级默认参数。均可通过各组件的导出字段覆盖，这里只提供缺省值，
// 避免魔法数字散落在调用方。
const (
	// DefaultAlpha 是混合权重：blended = alpha*cf + (1-alpha)*content。
	// 越大越信任协同信号。
	DefaultAlpha = 0.6

	// DefaultLambda 是 MMR 的相关性/多样性权衡系数。
	// lambda=1 退化为纯相关性排序，lambda=0 退化为纯反相似。
	DefaultLambda = 0.7

	// DefaultImplicitStrength 是无显式评分的交互（like/watchlist）的默认权重。
	DefaultImplicitStrength = 1.0

	// DefaultCandidatePool 是进入多样性重排的候选池大小（按混合分取 TopK）。
	DefaultCandidatePool = 200

	// DefaultRerankTarget 是多样性重排的目标输出条数。
	DefaultRerankTarget = 30
)
