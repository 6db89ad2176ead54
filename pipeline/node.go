package pipeline

import (
	"context"

	"github.com/reelkit/reelkit/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindBlend       Kind = "blend"       // 混合阶段：合并多路打分生成候选
	KindFilter      Kind = "filter"      // 过滤阶段：剔除不符合约束的候选（如 seen-set）
	KindReRank      Kind = "rerank"      // 重排阶段：多样性/截断/回填
	KindPostProcess Kind = "postprocess" // 后处理阶段：最终结果修饰
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用“输入 items -> 输出 items”的形态，方便过滤截断、重排等操作。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		items []*core.Item,
	) ([]*core.Item, error)
}
