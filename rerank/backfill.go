package rerank

import (
	"context"

	"github.com/reelkit/reelkit/core"
	"github.com/reelkit/reelkit/pipeline"
	"github.com/reelkit/reelkit/pkg/dsl"
	"github.com/reelkit/reelkit/pkg/utils"
)

// BackfillNode 是回填截断 Node：优先保留 MMR 选中的物品，
// 不足请求条数时用剩余高混合分候选按原始顺序补齐，保证调用方
// 在候选存在时总能拿到接近请求条数的结果。
//
// 回填候选可用 CEL 表达式限定（对外展示时通常限定单一媒体类型），
// 例如 `item.media_kind == "movie"`。限定只作用于回填部分，
// 不影响 MMR 选中的物品。
type BackfillNode struct {
	// Count 输出条数；请求级参数 rctx.Params["count"] 优先于此字段。
	// 两者都缺失时只保留 MMR 选中物品。
	Count int

	// Restrict 是回填候选的 CEL 保留条件；为空则不限定。
	Restrict string
}

func (n *BackfillNode) Name() string {
	return "rerank.backfill"
}

func (n *BackfillNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *BackfillNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	count := n.Count
	if rctx != nil {
		count = rctx.ParamInt("count", count)
	}

	selected := make([]*core.Item, 0, len(items))
	candidates := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		if lbl, ok := it.GetLabel("rerank"); ok && lbl.Value == "mmr" {
			selected = append(selected, it)
		} else {
			candidates = append(candidates, it)
		}
	}

	if count <= 0 {
		return selected, nil
	}
	if len(selected) >= count {
		return selected[:count], nil
	}

	out := selected
	for _, it := range candidates {
		if len(out) >= count {
			break
		}
		if n.Restrict != "" {
			keep, err := dsl.NewEval(it, rctx).Evaluate(n.Restrict)
			if err != nil {
				return nil, err
			}
			if !keep {
				continue
			}
		}
		it.PutLabel("rerank", utils.Label{Value: "backfill", Source: "rerank"})
		out = append(out, it)
	}
	return out, nil
}
