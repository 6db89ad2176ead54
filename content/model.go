package content

import (
	"github.com/reelkit/reelkit/core"
	"github.com/reelkit/reelkit/pkg/sparse"
)

// Model 是内容模型：目录里每个物品一条 TF-IDF 向量，外加固定词表。
// 一次构建后只读，可被多个请求并发使用。
type Model struct {
	space   *Space
	vectors []sparse.Vector
	keys    []core.ItemKey
	index   map[core.ItemKey]int
}

// Fit 在全量目录上拟合内容模型。
// 文档 = 标题 + ". " + 简介，与目录条目一一对应。
func Fit(entries []core.CatalogEntry, v *Vectorizer) *Model {
	if v == nil {
		v = &Vectorizer{}
	}

	docs := make([]string, len(entries))
	keys := make([]core.ItemKey, len(entries))
	index := make(map[core.ItemKey]int, len(entries))
	for i, e := range entries {
		docs[i] = e.Title + ". " + e.Overview
		keys[i] = e.Key
		index[e.Key] = i
	}

	space, vectors := v.Fit(docs)
	return &Model{
		space:   space,
		vectors: vectors,
		keys:    keys,
		index:   index,
	}
}

// Space 返回拟合得到的向量空间。
func (m *Model) Space() *Space { return m.space }

// Embedding 返回物品的目录向量（MMR 重排使用）。
// 物品不在目录或向量为零时 ok=false，调用方应将其从重排输入中剔除。
func (m *Model) Embedding(key core.ItemKey) (sparse.Vector, bool) {
	i, ok := m.index[key]
	if !ok {
		return sparse.Vector{}, false
	}
	vec := m.vectors[i]
	if vec.Len() == 0 {
		return sparse.Vector{}, false
	}
	return vec, true
}

// Profile 把用户加权交互历史投影到向量空间：
// 按交互强度对物品向量加权平均；总强度非正时退化为均匀平均。
// 没有任何可匹配的交互时画像不存在（返回 ok=false，不是零向量）。
func (m *Model) Profile(history []core.Interaction) (sparse.Vector, bool) {
	if m.space.Dim() == 0 {
		return sparse.Vector{}, false
	}

	idxs := make([]int, 0, len(history))
	weights := make([]float64, 0, len(history))
	for _, a := range history {
		if i, ok := m.index[a.Key]; ok {
			idxs = append(idxs, i)
			weights = append(weights, a.Strength)
		}
	}
	if len(idxs) == 0 {
		return sparse.Vector{}, false
	}

	var total float64
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		uniform := 1 / float64(len(weights))
		for i := range weights {
			weights[i] = uniform
		}
		total = 1
	}

	acc := make(map[int]float64)
	for n, i := range idxs {
		sparse.AddScaled(acc, m.vectors[i], weights[n]/total)
	}
	return sparse.NewVector(acc), true
}

// ScoresForUser 返回 item_key → 画像与该物品向量的相似度。
//
// 契约：
//   - 目录为空或用户没有画像时返回空 map，不报错
//   - 返回全量稠密映射（包含低分/零分物品），不做正性过滤：
//     边缘情况下一个尚可用的信号可能非正，零值交由混合阶段统一处理
func (m *Model) ScoresForUser(history []core.Interaction) map[core.ItemKey]float64 {
	if len(m.keys) == 0 || m.space.Dim() == 0 {
		return map[core.ItemKey]float64{}
	}
	profile, ok := m.Profile(history)
	if !ok {
		return map[core.ItemKey]float64{}
	}

	// 文档向量已 L2 归一化，画像与它们的点积即线性核打分
	out := make(map[core.ItemKey]float64, len(m.keys))
	for i, key := range m.keys {
		out[key] = profile.Dot(m.vectors[i])
	}
	return out
}
