package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/goccy/go-json"

	"github.com/reelkit/reelkit/core"
)

// Catalog 把 KeyValueStore 适配为 core.CatalogStore。
//
// 存储布局：单个 Hash，field 为物品主键的线格式（"movie:603"），
// value 为 JSON 编码的标题与简介。
type Catalog struct {
	Store core.KeyValueStore

	// Key 是目录 Hash 的 key，默认 "reelkit:catalog"。
	Key string
}

type catalogRecord struct {
	Title    string `json:"title"`
	Overview string `json:"overview"`
}

func (c *Catalog) key() string {
	if c.Key == "" {
		return "reelkit:catalog"
	}
	return c.Key
}

var _ core.CatalogStore = (*Catalog)(nil)

// PutItem 写入/覆盖一条目录条目。
func (c *Catalog) PutItem(ctx context.Context, e core.CatalogEntry) error {
	data, err := json.Marshal(catalogRecord{Title: e.Title, Overview: e.Overview})
	if err != nil {
		return fmt.Errorf("encode catalog entry %s: %w", e.Key, err)
	}
	return c.Store.HSet(ctx, c.key(), e.Key.String(), data)
}

// ListItems 返回全部目录条目，按主键全序排列（重建确定性）。
// 无法解析的 field 被跳过，不影响其余条目。
func (c *Catalog) ListItems(ctx context.Context) ([]core.CatalogEntry, error) {
	fields, err := c.Store.HGetAll(ctx, c.key())
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	entries := make([]core.CatalogEntry, 0, len(fields))
	for field, raw := range fields {
		key, err := core.ParseItemKey(field)
		if err != nil {
			continue
		}
		var rec catalogRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		entries = append(entries, core.CatalogEntry{
			Key:      key,
			Title:    rec.Title,
			Overview: rec.Overview,
		})
	}

	sortEntries(entries)
	return entries, nil
}

func sortEntries(entries []core.CatalogEntry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key.Less(entries[j].Key) })
}
