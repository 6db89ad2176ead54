// Package sparse 提供推荐模型所需的稀疏向量与 CSR 矩阵运算。
// 只实现引擎用到的子集：构建、行归一化、转置自乘、行乘矩阵与点积。
package sparse

import (
	"math"
	"sort"
)

// Vector 是稀疏向量：Indices 严格升序，与 Values 一一对应。
type Vector struct {
	Indices []int
	Values  []float64
}

// NewVector 从 index->value map 构建稀疏向量，丢弃零值，索引升序。
func NewVector(elems map[int]float64) Vector {
	if len(elems) == 0 {
		return Vector{}
	}
	idx := make([]int, 0, len(elems))
	for i, v := range elems {
		if v != 0 {
			idx = append(idx, i)
		}
	}
	sort.Ints(idx)
	vals := make([]float64, len(idx))
	for n, i := range idx {
		vals[n] = elems[i]
	}
	return Vector{Indices: idx, Values: vals}
}

// Len 返回非零元素个数。
func (v Vector) Len() int { return len(v.Indices) }

// Dot 计算两个稀疏向量的点积（双指针归并）。
func (v Vector) Dot(o Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(o.Indices) {
		switch {
		case v.Indices[i] < o.Indices[j]:
			i++
		case v.Indices[i] > o.Indices[j]:
			j++
		default:
			sum += v.Values[i] * o.Values[j]
			i++
			j++
		}
	}
	return sum
}

// Norm 返回 L2 范数。
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Scale 返回 v 的 s 倍（新向量）。
func (v Vector) Scale(s float64) Vector {
	out := Vector{
		Indices: append([]int(nil), v.Indices...),
		Values:  make([]float64, len(v.Values)),
	}
	for i, x := range v.Values {
		out.Values[i] = x * s
	}
	return out
}

// Normalized 返回单位化副本；零向量原样返回。
func (v Vector) Normalized() Vector {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

// Cosine 计算余弦相似度；任一方为零向量时返回 0。
func (v Vector) Cosine(o Vector) float64 {
	nv, no := v.Norm(), o.Norm()
	if nv == 0 || no == 0 {
		return 0
	}
	return v.Dot(o) / (nv * no)
}

// AddScaled 将 s*o 累加进 acc（index->value 累加器）。
func AddScaled(acc map[int]float64, o Vector, s float64) {
	for i, idx := range o.Indices {
		acc[idx] += o.Values[i] * s
	}
}
