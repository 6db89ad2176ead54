// Package reelkit 是一个影视混合推荐引擎（Reel Kit）。
//
// 设计要点：
// - Hybrid-first: item-item 协同过滤与 TF-IDF 内容模型按 ALPHA 加权融合
// - Pipeline 化: 融合之后的处理通过 Node 串联（Blend → Filter → ReRank → PostProcess）
// - 版本化模型缓存: 交互数据变更后 InvalidateModels 翻转版本号，下次请求按新版本重建
package reelkit

import "github.com/reelkit/reelkit/pipeline"

// 轻量 facade：便于用户直接 import "reelkit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindBlend       = pipeline.KindBlend
	KindFilter      = pipeline.KindFilter
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
