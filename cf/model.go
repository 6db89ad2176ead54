package cf

import (
	"github.com/reelkit/reelkit/core"
	"github.com/reelkit/reelkit/pkg/sparse"
)

// Model 是物品-物品协同过滤模型。
//
// 相似度矩阵 = (归一化交互矩阵)ᵀ·(归一化交互矩阵)：对称、对角线为零、
// 只保留非零亲和度。一次构建后只读，可被多个请求并发使用。
type Model struct {
	ui    *sparse.Matrix // 用户×物品，已 L2 行归一化
	sim   *sparse.Matrix // 物品×物品余弦相似度
	index *Index
}

// Build 从交互记录与目录物品集构建模型（原子的一次性全量构建）。
func Build(interactions []core.Interaction, catalog []core.ItemKey) *Model {
	ui, ix := BuildMatrix(interactions, catalog)
	return &Model{
		ui:    ui,
		sim:   ui.GramT(),
		index: ix,
	}
}

// Index 返回模型的索引映射。
func (m *Model) Index() *Index { return m.index }

// Similarity 返回两个物品的协同相似度（不在索引中时为 0）。
func (m *Model) Similarity(a, b core.ItemKey) float64 {
	ca, ok := m.index.ItemCol(a)
	if !ok {
		return 0
	}
	cb, ok := m.index.ItemCol(b)
	if !ok {
		return 0
	}
	return m.sim.At(ca, cb)
}

// ScoreForUser 计算 row(user)·sim，返回 item_key → score。
//
// 契约：
//   - 用户不在模型中，或相似度矩阵为空时返回空 map，不报错
//   - 只保留严格为正的分数：非正的协同亲和不是有意义的“相似物品”信号，
//     混入混合阶段只会在规模上放大近零噪声
func (m *Model) ScoreForUser(userID int64) map[core.ItemKey]float64 {
	if m.sim.NumRows == 0 {
		return map[core.ItemKey]float64{}
	}
	row, ok := m.index.UserRow(userID)
	if !ok {
		return map[core.ItemKey]float64{}
	}

	scores := m.ui.MulRow(row, m.sim)
	out := make(map[core.ItemKey]float64)
	for col, s := range scores {
		if s > 0 {
			out[m.index.ItemAt(col)] = s
		}
	}
	return out
}
