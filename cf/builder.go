// Package cf 实现基于物品的协同过滤（Item-based Collaborative Filtering）：
// 用户×物品交互矩阵 → L2 行归一化 → 物品×物品余弦相似度矩阵。
package cf

import (
	"sort"

	"github.com/reelkit/reelkit/core"
	"github.com/reelkit/reelkit/pkg/sparse"
)

// Index 是矩阵两个维度的双向索引映射。
// Users 升序、Items 按 (kind, id) 全序，保证相同底层数据重建出相同矩阵。
type Index struct {
	Users []int64
	Items []core.ItemKey

	userIdx map[int64]int
	itemIdx map[core.ItemKey]int
}

// UserRow 返回用户对应的行号。
func (ix *Index) UserRow(userID int64) (int, bool) {
	r, ok := ix.userIdx[userID]
	return r, ok
}

// ItemCol 返回物品对应的列号。
func (ix *Index) ItemCol(key core.ItemKey) (int, bool) {
	c, ok := ix.itemIdx[key]
	return c, ok
}

// ItemAt 返回列号对应的物品主键。
func (ix *Index) ItemAt(col int) core.ItemKey { return ix.Items[col] }

// BuildMatrix 从交互记录与目录物品集构建交互矩阵及索引。
//
// 策略：
//   - 目录是权威：物品不在目录中的交互被静默丢弃
//   - 同一 (user, item) 的重复记录以最后一条的权重为准，不累加
//   - 空目录或空用户集得到良构的 0×0 矩阵与空索引
//
// 返回的矩阵已做 L2 行归一化：行与行的点积即余弦相似度。
func BuildMatrix(interactions []core.Interaction, catalog []core.ItemKey) (*sparse.Matrix, *Index) {
	items := make([]core.ItemKey, 0, len(catalog))
	seen := make(map[core.ItemKey]struct{}, len(catalog))
	for _, k := range catalog {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		items = append(items, k)
	}
	core.SortItemKeys(items)

	userSet := make(map[int64]struct{})
	for _, a := range interactions {
		userSet[a.UserID] = struct{}{}
	}
	users := make([]int64, 0, len(userSet))
	for u := range userSet {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })

	ix := &Index{
		Users:   users,
		Items:   items,
		userIdx: make(map[int64]int, len(users)),
		itemIdx: make(map[core.ItemKey]int, len(items)),
	}
	for i, u := range users {
		ix.userIdx[u] = i
	}
	for i, k := range items {
		ix.itemIdx[k] = i
	}

	ts := make([]sparse.Triplet, 0, len(interactions))
	for _, a := range interactions {
		col, ok := ix.itemIdx[a.Key]
		if !ok {
			continue // 目录中不存在的物品直接丢弃
		}
		ts = append(ts, sparse.Triplet{
			Row:   ix.userIdx[a.UserID],
			Col:   col,
			Value: a.Strength,
		})
	}

	m := sparse.FromTriplets(len(users), len(items), ts)
	m.NormalizeRows()
	return m, ix
}
