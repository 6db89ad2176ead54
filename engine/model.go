package engine

import (
	"time"

	"github.com/reelkit/reelkit/cf"
	"github.com/reelkit/reelkit/content"
	"github.com/reelkit/reelkit/core"
	"github.com/reelkit/reelkit/pkg/sparse"
)

// Model 是一次全量构建的产物：协同模型 + 内容模型 + 构建时刻的
// 用户历史快照。构建后只读，评分操作无副作用，可跨用户并发调用。
type Model struct {
	Token   string
	BuiltAt time.Time

	cfModel      *cf.Model
	contentModel *content.Model

	// history 是构建时刻每个用户的折叠交互（内容画像的输入）
	history map[int64][]core.Interaction
}

// CFScores 返回协同打分（正分、稀疏）。
func (m *Model) CFScores(userID int64) map[core.ItemKey]float64 {
	return m.cfModel.ScoreForUser(userID)
}

// ContentScores 返回内容打分（全量稠密）。
func (m *Model) ContentScores(userID int64) map[core.ItemKey]float64 {
	return m.contentModel.ScoresForUser(m.history[userID])
}

// Embedding 实现 rerank.EmbeddingSource。
func (m *Model) Embedding(key core.ItemKey) (sparse.Vector, bool) {
	return m.contentModel.Embedding(key)
}

// CF 返回底层协同模型（测试/诊断用）。
func (m *Model) CF() *cf.Model { return m.cfModel }

// Content 返回底层内容模型（测试/诊断用）。
func (m *Model) Content() *content.Model { return m.contentModel }
