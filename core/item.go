package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/reelkit/reelkit/pkg/utils"
)

// MediaKind 是媒体类型：movie / tv。
type MediaKind string

const (
	MediaKindMovie MediaKind = "movie"
	MediaKindTV    MediaKind = "tv"
)

// ItemKey 是推荐实体的复合主键：(媒体类型, 外部目录 ID)。
// 值类型，支持结构相等与全序比较，是所有模型之间的 join key。
type ItemKey struct {
	Kind MediaKind
	ID   int64
}

// Compare 按 (Kind, ID) 的字典序比较，返回 -1/0/1。
// 相同底层数据的多次重建必须得到相同索引，确定性排序依赖这个全序。
func (k ItemKey) Compare(o ItemKey) int {
	if k.Kind != o.Kind {
		if k.Kind < o.Kind {
			return -1
		}
		return 1
	}
	switch {
	case k.ID < o.ID:
		return -1
	case k.ID > o.ID:
		return 1
	}
	return 0
}

// Less 报告 k 是否排在 o 之前。
func (k ItemKey) Less(o ItemKey) bool { return k.Compare(o) < 0 }

// String 返回 "kind:id" 的线格式，用作存储 hash field 与日志输出。
func (k ItemKey) String() string {
	return string(k.Kind) + ":" + strconv.FormatInt(k.ID, 10)
}

// ParseItemKey 解析 "kind:id" 线格式。
func ParseItemKey(s string) (ItemKey, error) {
	idx := strings.IndexByte(s, ':')
	if idx <= 0 {
		return ItemKey{}, fmt.Errorf("invalid item key %q", s)
	}
	kind := MediaKind(s[:idx])
	if kind != MediaKindMovie && kind != MediaKindTV {
		return ItemKey{}, fmt.Errorf("invalid media kind in item key %q", s)
	}
	id, err := strconv.ParseInt(s[idx+1:], 10, 64)
	if err != nil {
		return ItemKey{}, fmt.Errorf("invalid id in item key %q: %w", s, err)
	}
	return ItemKey{Kind: kind, ID: id}, nil
}

// SortItemKeys 原地按全序排序，供索引构建使用。
func SortItemKeys(keys []ItemKey) {
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
}

// Item 是推荐链路中的统一承载结构：分数、特征、元信息、标签。
// Labels 用于解释与策略驱动；Score 用于排序决策。
type Item struct {
	Key      ItemKey
	Score    float64
	Features map[string]float64
	Meta     map[string]any
	Labels   map[string]utils.Label
}

func NewItem(key ItemKey) *Item {
	return &Item{
		Key:      key,
		Score:    0,
		Features: make(map[string]float64),
		Meta:     make(map[string]any),
		Labels:   make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// GetLabel 读取 Label。
func (it *Item) GetLabel(key string) (utils.Label, bool) {
	if it.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := it.Labels[key]
	return lbl, ok
}
