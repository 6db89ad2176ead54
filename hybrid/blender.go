// Package hybrid 实现协同信号与内容信号的线性混合。
package hybrid

import (
	"sort"

	"github.com/reelkit/reelkit/core"
	"github.com/reelkit/reelkit/pkg/utils"
)

// Blender 按 blended = alpha*cf + (1-alpha)*content 混合两路打分。
type Blender struct {
	// Alpha 协同权重，(0,1]；0 或越界时取 core.DefaultAlpha。
	Alpha float64
}

func (b *Blender) alpha() float64 {
	if b.Alpha <= 0 || b.Alpha > 1 {
		return core.DefaultAlpha
	}
	return b.Alpha
}

// Blend 合并两路打分并返回按混合分降序的候选列表。
//
// 步骤：
//  1. 取两路打分键集的并集
//  2. 已交互物品（seen-set）严格剔除，永不放宽
//  3. 缺失一侧的分数按 0.0 处理
//  4. 降序排序，同分时按 item key 升序稳定决胜
//
// 两路均为空时返回空列表，不报错。
func (b *Blender) Blend(
	cfScores, cbScores map[core.ItemKey]float64,
	seen map[core.ItemKey]struct{},
) []*core.Item {
	alpha := b.alpha()

	union := make(map[core.ItemKey]struct{}, len(cfScores)+len(cbScores))
	for k := range cfScores {
		union[k] = struct{}{}
	}
	for k := range cbScores {
		union[k] = struct{}{}
	}

	out := make([]*core.Item, 0, len(union))
	for k := range union {
		if _, ok := seen[k]; ok {
			continue
		}
		cf := cfScores[k]
		cb := cbScores[k]

		it := core.NewItem(k)
		it.Score = alpha*cf + (1-alpha)*cb
		it.Features["cf_score"] = cf
		it.Features["cb_score"] = cb
		it.Meta["media_kind"] = string(k.Kind)
		it.PutLabel("blend", utils.Label{Value: "hybrid", Source: "blend"})
		out = append(out, it)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Key.Less(out[j].Key)
	})
	return out
}
