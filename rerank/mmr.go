// Package rerank 提供混合排序之上的重排 Node：MMR 多样性重排与回填截断。
package rerank

import (
	"context"

	"github.com/reelkit/reelkit/core"
	"github.com/reelkit/reelkit/pipeline"
	"github.com/reelkit/reelkit/pkg/sparse"
	"github.com/reelkit/reelkit/pkg/utils"
)

// EmbeddingSource 提供物品在内容向量空间里的表示。
// content.Model 实现此接口。
type EmbeddingSource interface {
	Embedding(key core.ItemKey) (sparse.Vector, bool)
}

// MMRNode 是贪心 Maximal-Marginal-Relevance 多样性重排 Node。
//
// 原始混合排序会把近重复物品（续集、同系列条目）聚在头部；
// 此阶段用可控的相关性损失换取多样性：
//
//	value(r) = λ*relevance(r) − (1−λ)*max_similarity(r, selected)
//
// 被选中的物品打上 label rerank=mmr；未选中的候选按原始混合顺序
// 跟在后面并打上 rerank=pool，供下游回填 Node 使用。
type MMRNode struct {
	// Embeddings 是候选向量来源；缺失向量的候选被剔出重排输入。
	Embeddings EmbeddingSource

	// Lambda 相关性/多样性权衡系数，(0,1]；越界或为零时取 core.DefaultLambda。
	Lambda float64

	// TargetCount 目标输出条数，默认 core.DefaultRerankTarget。
	TargetCount int

	// CandidatePool 进入重排的候选池大小（按混合分取前 K），默认 core.DefaultCandidatePool。
	CandidatePool int

	// OrdinalRelevance 为 true 时 relevance 退化为序数近似
	// （剩余列表中位置的负数），这会让位置惩罚压过多样性项。
	// 默认使用真实混合分作为 relevance。
	OrdinalRelevance bool
}

func (n *MMRNode) Name() string {
	return "rerank.mmr"
}

func (n *MMRNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *MMRNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	lambda := n.Lambda
	if lambda <= 0 || lambda > 1 {
		lambda = core.DefaultLambda
	}
	target := n.TargetCount
	if target <= 0 {
		target = core.DefaultRerankTarget
	}
	pool := n.CandidatePool
	if pool <= 0 {
		pool = core.DefaultCandidatePool
	}
	if pool > len(items) {
		pool = len(items)
	}

	// 候选 = 混合分前 pool 条中有向量的物品；向量单位化后预计算两两余弦
	cands := make([]*core.Item, 0, pool)
	embeds := make([]sparse.Vector, 0, pool)
	for _, it := range items[:pool] {
		if n.Embeddings == nil {
			break
		}
		vec, ok := n.Embeddings.Embedding(it.Key)
		if !ok {
			continue
		}
		cands = append(cands, it)
		embeds = append(embeds, vec.Normalized())
	}

	m := len(cands)
	sim := make([][]float64, m)
	for i := range sim {
		sim[i] = make([]float64, m)
		for j := 0; j < i; j++ {
			s := embeds[i].Dot(embeds[j])
			sim[i][j] = s
			sim[j][i] = s
		}
	}

	selected := make([]int, 0, target)
	remaining := make([]int, m)
	for i := range remaining {
		remaining[i] = i
	}

	// 种子：无条件取混合分最高的候选（不重估相关性）
	if m > 0 {
		selected = append(selected, remaining[0])
		remaining = remaining[1:]
	}

	for len(selected) < target && len(remaining) > 0 {
		bestPos := 0
		bestVal := 0.0
		for pos, r := range remaining {
			rel := cands[r].Score
			if n.OrdinalRelevance {
				rel = -float64(pos)
			}
			maxSim := 0.0
			for i, s := range selected {
				if v := sim[r][s]; i == 0 || v > maxSim {
					maxSim = v
				}
			}
			val := lambda*rel - (1-lambda)*maxSim
			// 严格大于：同值时保留更靠前的剩余位置
			if pos == 0 || val > bestVal {
				bestVal = val
				bestPos = pos
			}
		}
		selected = append(selected, remaining[bestPos])
		remaining = append(remaining[:bestPos], remaining[bestPos+1:]...)
	}

	chosen := make(map[*core.Item]struct{}, len(selected))
	out := make([]*core.Item, 0, len(items))
	for _, idx := range selected {
		it := cands[idx]
		it.PutLabel("rerank", utils.Label{Value: "mmr", Source: "rerank"})
		chosen[it] = struct{}{}
		out = append(out, it)
	}

	// 未入选候选按原始混合顺序透传，供回填使用
	for _, it := range items {
		if _, ok := chosen[it]; ok {
			continue
		}
		it.PutLabel("rerank", utils.Label{Value: "pool", Source: "rerank"})
		out = append(out, it)
	}
	return out, nil
}
