package core

import "context"

// CatalogEntry 是目录条目：主键 + 标题 + 简介文本。
// 文本内容（Title + Overview 拼接）是内容模型的唯一输入。
type CatalogEntry struct {
	Key      ItemKey
	Title    string
	Overview string
}

// Interaction 是一次 (用户, 物品, 强度) 观测。
// Strength 来自显式评分；隐式行为（like / watchlist）由上游换算为默认权重。
type Interaction struct {
	UserID   int64
	Key      ItemKey
	Strength float64
}

// CatalogStore 是目录读取接口。目录是物品集合的权威来源：
// 不在目录中的物品不会进入任何模型。
type CatalogStore interface {
	// ListItems 返回全部目录条目
	ListItems(ctx context.Context) ([]CatalogEntry, error)
}

// InteractionStore 是用户行为读取接口。
type InteractionStore interface {
	// ListInteractions 返回全部交互记录（模型重建时一次性读取）
	ListInteractions(ctx context.Context) ([]Interaction, error)

	// ListUserItems 返回用户已交互过的物品集合（seen-set）
	ListUserItems(ctx context.Context, userID int64) (map[ItemKey]struct{}, error)
}
