package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/reelkit/reelkit/core"
)

// 行为类型。rating 携带显式评分，其余按隐式默认权重计。
const (
	ActionRating    = "rating"
	ActionLike      = "like"
	ActionWatchlist = "watchlist"
)

// 瞬时存储错误的重试上限。有界循环，绝不递归重试。
const maxUpsertAttempts = 3

// Interactions 把 KeyValueStore 适配为 core.InteractionStore，
// 并提供行为写入（upsert 语义：同一 (user, item, action) 后写覆盖前写）。
//
// 存储布局：
//   - "{prefix}:users"    zset：member 为用户 ID，score 为最近写入时间
//   - "{prefix}:u:{uid}"  hash：field 为 "item_key|action"，value 为 JSON {strength, at}
type Interactions struct {
	Store core.KeyValueStore

	// KeyPrefix 默认 "reelkit:actions"。
	KeyPrefix string

	// ImplicitStrength 无显式评分的行为权重，默认 core.DefaultImplicitStrength。
	ImplicitStrength float64
}

type actionRecord struct {
	Strength float64 `json:"strength"`
	At       int64   `json:"at"` // UnixNano；同一物品多条行为取最新者为准
}

func (s *Interactions) prefix() string {
	if s.KeyPrefix == "" {
		return "reelkit:actions"
	}
	return s.KeyPrefix
}

func (s *Interactions) usersKey() string { return s.prefix() + ":users" }

func (s *Interactions) userKey(userID int64) string {
	return s.prefix() + ":u:" + strconv.FormatInt(userID, 10)
}

func (s *Interactions) implicit() float64 {
	if s.ImplicitStrength <= 0 {
		return core.DefaultImplicitStrength
	}
	return s.ImplicitStrength
}

var _ core.InteractionStore = (*Interactions)(nil)

// RecordAction 写入一次用户行为。
// rating 行为且带显式评分时强度取评分，其余取隐式默认权重。
// Hash field 写入是原子的后写覆盖，并发写同一 (user, item, action) 是安全的；
// 瞬时存储错误按有界循环重试。
func (s *Interactions) RecordAction(
	ctx context.Context,
	userID int64,
	key core.ItemKey,
	actionType string,
	rating *float64,
) error {
	strength := s.implicit()
	if actionType == ActionRating && rating != nil && *rating > 0 {
		strength = *rating
	}

	now := time.Now()
	data, err := json.Marshal(actionRecord{Strength: strength, At: now.UnixNano()})
	if err != nil {
		return fmt.Errorf("encode action: %w", err)
	}

	field := key.String() + "|" + actionType
	member := strconv.FormatInt(userID, 10)

	var lastErr error
	for attempt := 0; attempt < maxUpsertAttempts; attempt++ {
		if err := s.Store.HSet(ctx, s.userKey(userID), field, data); err != nil {
			lastErr = err
			continue
		}
		if err := s.Store.ZAdd(ctx, s.usersKey(), float64(now.Unix()), member); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("record action for user %d: %w", userID, lastErr)
}

// ListInteractions 返回全部交互记录。
// 同一 (user, item) 存在多条行为时，只输出最新一条的权重
// （协同模型以最后已知数值为准，不做累加）。
// 输出按 (user, item) 全序排列，保证重建确定性。
func (s *Interactions) ListInteractions(ctx context.Context) ([]core.Interaction, error) {
	members, err := s.Store.ZRange(ctx, s.usersKey(), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("read user registry: %w", err)
	}

	var out []core.Interaction
	for _, member := range members {
		userID, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			continue
		}
		rows, err := s.listUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].Key.Less(out[j].Key)
	})
	return out, nil
}

// ListUserItems 返回用户已交互过的物品集合（seen-set）。
func (s *Interactions) ListUserItems(ctx context.Context, userID int64) (map[core.ItemKey]struct{}, error) {
	fields, err := s.Store.HGetAll(ctx, s.userKey(userID))
	if err != nil {
		return nil, fmt.Errorf("read actions for user %d: %w", userID, err)
	}

	seen := make(map[core.ItemKey]struct{}, len(fields))
	for field := range fields {
		key, _, ok := splitField(field)
		if !ok {
			continue
		}
		seen[key] = struct{}{}
	}
	return seen, nil
}

// listUser 读取单个用户的行为并折叠为每物品一条（最新者胜）。
func (s *Interactions) listUser(ctx context.Context, userID int64) ([]core.Interaction, error) {
	fields, err := s.Store.HGetAll(ctx, s.userKey(userID))
	if err != nil {
		return nil, fmt.Errorf("read actions for user %d: %w", userID, err)
	}

	type latest struct {
		rec    actionRecord
		action string
	}
	byItem := make(map[core.ItemKey]latest, len(fields))
	for field, raw := range fields {
		key, action, ok := splitField(field)
		if !ok {
			continue
		}
		var rec actionRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		cur, exists := byItem[key]
		// 时间戳相同的极端情况按 action 名决胜，保证折叠结果确定
		if !exists || rec.At > cur.rec.At || (rec.At == cur.rec.At && action > cur.action) {
			byItem[key] = latest{rec: rec, action: action}
		}
	}

	out := make([]core.Interaction, 0, len(byItem))
	for key, l := range byItem {
		out = append(out, core.Interaction{
			UserID:   userID,
			Key:      key,
			Strength: l.rec.Strength,
		})
	}
	return out, nil
}

func splitField(field string) (core.ItemKey, string, bool) {
	idx := strings.LastIndexByte(field, '|')
	if idx <= 0 || idx == len(field)-1 {
		return core.ItemKey{}, "", false
	}
	key, err := core.ParseItemKey(field[:idx])
	if err != nil {
		return core.ItemKey{}, "", false
	}
	return key, field[idx+1:], true
}
