package sparse

import (
	"math"
	"sort"
)

// Triplet 是 (行, 列, 值) 三元组，矩阵构建的输入形态。
type Triplet struct {
	Row, Col int
	Value    float64
}

// Matrix 是 CSR（compressed sparse row）矩阵。
// 每行的列索引严格升序；RowPtr 长度恒为 NumRows+1。
type Matrix struct {
	NumRows, NumCols int
	RowPtr           []int
	ColIdx           []int
	Data             []float64
}

// FromTriplets 从三元组构建 CSR 矩阵。
// 重复的 (row, col) 以最后一次出现的值为准（last-write-wins，不做累加）。
// rows 或 cols 为 0 时返回良构的 0×0 矩阵。
func FromTriplets(rows, cols int, ts []Triplet) *Matrix {
	m := &Matrix{NumRows: rows, NumCols: cols, RowPtr: make([]int, rows+1)}
	if rows == 0 || cols == 0 || len(ts) == 0 {
		return m
	}

	// 按行整理，重复坐标后写覆盖前写
	perRow := make([]map[int]float64, rows)
	for _, t := range ts {
		if t.Row < 0 || t.Row >= rows || t.Col < 0 || t.Col >= cols {
			continue
		}
		if perRow[t.Row] == nil {
			perRow[t.Row] = make(map[int]float64)
		}
		perRow[t.Row][t.Col] = t.Value
	}

	for r := 0; r < rows; r++ {
		row := perRow[r]
		cols := make([]int, 0, len(row))
		for c, v := range row {
			if v != 0 {
				cols = append(cols, c)
			}
		}
		sort.Ints(cols)
		for _, c := range cols {
			m.ColIdx = append(m.ColIdx, c)
			m.Data = append(m.Data, row[c])
		}
		m.RowPtr[r+1] = len(m.ColIdx)
	}
	return m
}

// Row 返回第 r 行的稀疏向量视图（共享底层切片，调用方不得修改）。
func (m *Matrix) Row(r int) Vector {
	if r < 0 || r >= m.NumRows {
		return Vector{}
	}
	lo, hi := m.RowPtr[r], m.RowPtr[r+1]
	return Vector{Indices: m.ColIdx[lo:hi], Values: m.Data[lo:hi]}
}

// NNZ 返回非零元素个数。
func (m *Matrix) NNZ() int { return len(m.Data) }

// NormalizeRows 原地对每行做 L2 归一化。零行保持为零。
// 归一化后任意两行的点积即余弦相似度。
func (m *Matrix) NormalizeRows() {
	for r := 0; r < m.NumRows; r++ {
		lo, hi := m.RowPtr[r], m.RowPtr[r+1]
		var sum float64
		for i := lo; i < hi; i++ {
			sum += m.Data[i] * m.Data[i]
		}
		if sum == 0 {
			continue
		}
		inv := 1 / math.Sqrt(sum)
		for i := lo; i < hi; i++ {
			m.Data[i] *= inv
		}
	}
}

// GramT 计算 mᵀ·m（NumCols × NumCols），即列向量两两的点积矩阵。
// 对角线强制置零，显式零不保留。行归一化后的输入使结果即余弦相似度，
// 且结果对称。
func (m *Matrix) GramT() *Matrix {
	n := m.NumCols
	out := &Matrix{NumRows: n, NumCols: n, RowPtr: make([]int, n+1)}
	if n == 0 || m.NNZ() == 0 {
		return out
	}

	// acc[i] 累积第 i 列与其它列的点积；按用户行展开避免 O(n²) 稠密中间态
	acc := make([]map[int]float64, n)
	for r := 0; r < m.NumRows; r++ {
		lo, hi := m.RowPtr[r], m.RowPtr[r+1]
		for a := lo; a < hi; a++ {
			ca, va := m.ColIdx[a], m.Data[a]
			if acc[ca] == nil {
				acc[ca] = make(map[int]float64)
			}
			for b := lo; b < hi; b++ {
				cb := m.ColIdx[b]
				if cb == ca {
					continue // 自相似不进入协同信号
				}
				acc[ca][cb] += va * m.Data[b]
			}
		}
	}

	for i := 0; i < n; i++ {
		row := acc[i]
		cols := make([]int, 0, len(row))
		for c, v := range row {
			if v != 0 {
				cols = append(cols, c)
			}
		}
		sort.Ints(cols)
		for _, c := range cols {
			out.ColIdx = append(out.ColIdx, c)
			out.Data = append(out.Data, row[c])
		}
		out.RowPtr[i+1] = len(out.ColIdx)
	}
	return out
}

// MulRow 计算 row(r)·other，返回长度为 other.NumCols 的稠密结果。
// 维度不匹配或越界时返回 nil。
func (m *Matrix) MulRow(r int, other *Matrix) []float64 {
	if r < 0 || r >= m.NumRows || m.NumCols != other.NumRows {
		return nil
	}
	out := make([]float64, other.NumCols)
	lo, hi := m.RowPtr[r], m.RowPtr[r+1]
	for i := lo; i < hi; i++ {
		k, v := m.ColIdx[i], m.Data[i]
		olo, ohi := other.RowPtr[k], other.RowPtr[k+1]
		for j := olo; j < ohi; j++ {
			out[other.ColIdx[j]] += v * other.Data[j]
		}
	}
	return out
}

// At 返回 (r, c) 处的值（按行内二分查找）。
func (m *Matrix) At(r, c int) float64 {
	if r < 0 || r >= m.NumRows {
		return 0
	}
	lo, hi := m.RowPtr[r], m.RowPtr[r+1]
	cols := m.ColIdx[lo:hi]
	i := sort.SearchInts(cols, c)
	if i < len(cols) && cols[i] == c {
		return m.Data[lo+i]
	}
	return 0
}
