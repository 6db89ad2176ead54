package config

import (
	"github.com/reelkit/reelkit/core"
	"github.com/reelkit/reelkit/filter"
	"github.com/reelkit/reelkit/pipeline"
	"github.com/reelkit/reelkit/pkg/conv"
	"github.com/reelkit/reelkit/rerank"
)

// 内置 Node 的配置构建器。
// MMR 的向量来源与 seen-set 的交互存储无法从配置中给出，
// 需要调用方在构建后注入（参见 AttachEmbeddings / AttachInteractions），
// 这与模型缓存按版本重建的流程一致。
func init() {
	Register("filter.rule", func(cfg map[string]any) (pipeline.Node, error) {
		return &filter.FilterNode{
			Filters: []filter.Filter{
				&filter.RuleFilter{Expr: conv.ConfigGet(cfg, "expr", "")},
			},
		}, nil
	})

	Register("filter.seen", func(cfg map[string]any) (pipeline.Node, error) {
		return &filter.SeenNode{}, nil
	})

	Register("rerank.mmr", func(cfg map[string]any) (pipeline.Node, error) {
		return &rerank.MMRNode{
			Lambda:           conv.ConfigGetFloat(cfg, "lambda", 0),
			TargetCount:      conv.ConfigGetInt(cfg, "target_count", 0),
			CandidatePool:    conv.ConfigGetInt(cfg, "candidate_pool", 0),
			OrdinalRelevance: conv.ConfigGet(cfg, "ordinal_relevance", false),
		}, nil
	})

	Register("rerank.backfill", func(cfg map[string]any) (pipeline.Node, error) {
		return &rerank.BackfillNode{
			Count:    conv.ConfigGetInt(cfg, "count", 0),
			Restrict: conv.ConfigGet(cfg, "restrict", ""),
		}, nil
	})
}

// AttachEmbeddings 给配置构建出的 Pipeline 中所有 MMRNode 注入向量来源。
// 配置文件只能描述标量参数，向量空间随模型版本重建，必须运行期注入。
func AttachEmbeddings(p *pipeline.Pipeline, src rerank.EmbeddingSource) {
	if p == nil {
		return
	}
	for _, n := range p.Nodes {
		if mmr, ok := n.(*rerank.MMRNode); ok {
			mmr.Embeddings = src
		}
	}
}

// AttachInteractions 给配置构建出的 Pipeline 中所有 SeenNode 注入交互存储。
// 未注入存储的 SeenNode 对输入不做过滤。
func AttachInteractions(p *pipeline.Pipeline, store core.InteractionStore) {
	if p == nil {
		return
	}
	for _, n := range p.Nodes {
		if seen, ok := n.(*filter.SeenNode); ok {
			seen.Store = store
		}
	}
}
