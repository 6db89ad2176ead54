package filter

import (
	"context"

	"github.com/reelkit/reelkit/core"
	"github.com/reelkit/reelkit/pkg/dsl"
)

// RuleFilter 是规则过滤器：CEL 表达式命中的物品被过滤掉（黑名单语义）。
//
// 示例：
//   - `item.media_kind == "tv"`          → 过滤全部剧集
//   - `item.score < 0.01`                → 过滤近零分候选
//   - `label.blend != null && item.id == 42` → 精确排除
type RuleFilter struct {
	// Expr 是 CEL 表达式；为空时不过滤任何物品。
	Expr string
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.Expr == "" || item == nil {
		return false, nil
	}
	return dsl.NewEval(item, rctx).Evaluate(f.Expr)
}
