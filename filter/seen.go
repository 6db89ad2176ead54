package filter

import (
	"context"

	"github.com/reelkit/reelkit/core"
	"github.com/reelkit/reelkit/pipeline"
	"github.com/reelkit/reelkit/pkg/utils"
)

// SeenNode 是已交互过滤 Node：剔除用户 seen-set 中的全部物品。
//
// 这是一个严格过滤：seen-set 读取失败时返回错误而不是放行，
// 宁可整个请求失败也不把用户看过的物品再推一遍。
// 每次 Process 只读取一次 seen-set。
type SeenNode struct {
	Store core.InteractionStore
}

func (n *SeenNode) Name() string {
	return "filter.seen"
}

func (n *SeenNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *SeenNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Store == nil || rctx == nil || len(items) == 0 {
		return items, nil
	}

	seen, err := n.Store.ListUserItems(ctx, rctx.UserID)
	if err != nil {
		return nil, err
	}
	if len(seen) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		if _, ok := seen[it.Key]; ok {
			it.PutLabel("filtered", utils.Label{Value: "true", Source: n.Name()})
			continue
		}
		out = append(out, it)
	}
	return out, nil
}
