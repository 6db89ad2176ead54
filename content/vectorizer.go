package content

import (
	"math"
	"sort"

	"github.com/reelkit/reelkit/pkg/sparse"
)

// Vectorizer 把文档集拟合为 TF-IDF 向量空间。
// 词表与维度在一次 Fit 后固定，只有全量重建才会重新计算。
type Vectorizer struct {
	// MinDocFreq 词项最少出现的文档数，低于则剔除。默认 2。
	MinDocFreq int

	// MaxDocRatio 词项最多出现的文档占比，高于则剔除（剔除"到处都有"的词）。默认 0.9。
	MaxDocRatio float64
}

// Space 是拟合得到的向量空间：词表、IDF 权重与维度。
type Space struct {
	Vocabulary map[string]int // term -> 维度下标（按词典序分配）
	IDF        []float64
}

// Dim 返回向量空间维度。
func (s *Space) Dim() int { return len(s.Vocabulary) }

// Fit 在文档集上拟合向量空间，并返回每个文档的 L2 归一化 TF-IDF 向量。
//
// 细节：
//   - idf = ln((1+N)/(1+df)) + 1（平滑 IDF）
//   - 文档向量 = tf·idf 后整体 L2 归一化，点积即余弦相似度
//   - 空文档集或过滤后词表为空时，返回空间维度 0 与全零向量
func (v *Vectorizer) Fit(docs []string) (*Space, []sparse.Vector) {
	minDF := v.MinDocFreq
	if minDF <= 0 {
		minDF = 2
	}
	maxRatio := v.MaxDocRatio
	if maxRatio <= 0 || maxRatio > 1 {
		maxRatio = 0.9
	}

	n := len(docs)
	counts := make([]map[string]float64, n)
	df := make(map[string]int)

	for i, doc := range docs {
		tf := make(map[string]float64)
		for _, term := range Analyze(doc) {
			tf[term]++
		}
		counts[i] = tf
		for term := range tf {
			df[term]++
		}
	}

	// 词表过滤：min_df ≤ df ≤ max_ratio·N，按词典序固定维度编号
	maxDF := maxRatio * float64(n)
	terms := make([]string, 0, len(df))
	for term, d := range df {
		if d >= minDF && float64(d) <= maxDF {
			terms = append(terms, term)
		}
	}
	sort.Strings(terms)

	space := &Space{Vocabulary: make(map[string]int, len(terms)), IDF: make([]float64, len(terms))}
	for i, term := range terms {
		space.Vocabulary[term] = i
		space.IDF[i] = math.Log(float64(1+n)/float64(1+df[term])) + 1
	}

	vectors := make([]sparse.Vector, n)
	for i, tf := range counts {
		elems := make(map[int]float64)
		for term, c := range tf {
			if dim, ok := space.Vocabulary[term]; ok {
				elems[dim] = c * space.IDF[dim]
			}
		}
		vectors[i] = sparse.NewVector(elems).Normalized()
	}
	return space, vectors
}
