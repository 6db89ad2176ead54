package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// VersionStore 管理模型版本令牌：一个不透明字符串，每次显式失效时变化，
// 作为模型缓存的 key。令牌本身只是新鲜度标记，不承载任何分数数据。
type VersionStore interface {
	// Current 返回当前令牌；首次调用时初始化持久计数
	Current(ctx context.Context) (string, error)

	// Increment 递增持久计数并返回新令牌
	Increment(ctx context.Context) (string, error)
}

type versionBlob struct {
	Version int64 `json:"version"`
}

func tokenFor(v int64) string {
	data, _ := json.Marshal(versionBlob{Version: v})
	return string(data)
}

// FileVersionStore 把版本计数持久化到 scratch 目录下的 JSON 文件，
// 同机的后续进程能观测到相同令牌。
//
// 失败策略：文件不可读或内容损坏时，本地恢复为默认版本 {"version":1}，
// 不向上传播（记一条日志即可）。
type FileVersionStore struct {
	path string
	log  zerolog.Logger
	mu   sync.Mutex
}

// NewFileVersionStore 在 dir 下管理 recommender_meta.json。
func NewFileVersionStore(dir string, log zerolog.Logger) *FileVersionStore {
	return &FileVersionStore{
		path: filepath.Join(dir, "recommender_meta.json"),
		log:  log,
	}
}

var _ VersionStore = (*FileVersionStore)(nil)

func (s *FileVersionStore) Current(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return tokenFor(s.readLocked()), nil
}

func (s *FileVersionStore) Increment(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.readLocked() + 1
	if err := s.writeLocked(v); err != nil {
		return "", err
	}
	return tokenFor(v), nil
}

// readLocked 返回文件中的版本；文件缺失或损坏时落盘默认版本 1。
func (s *FileVersionStore) readLocked() int64 {
	data, err := os.ReadFile(s.path)
	if err == nil {
		var blob versionBlob
		if jerr := json.Unmarshal(data, &blob); jerr == nil && blob.Version >= 1 {
			return blob.Version
		}
		s.log.Warn().Str("path", s.path).Msg("version file malformed, resetting to default")
	}
	if werr := s.writeLocked(1); werr != nil {
		s.log.Warn().Err(werr).Str("path", s.path).Msg("failed to persist default version")
	}
	return 1
}

func (s *FileVersionStore) writeLocked(v int64) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}
	data, _ := json.Marshal(versionBlob{Version: v})
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write version file: %w", err)
	}
	return nil
}

// RedisVersionStore 把版本计数放到 Redis，多进程共享同一令牌。
// INCR 原子递增，天然避免并发失效下的 lost-update。
type RedisVersionStore struct {
	Client *redis.Client

	// Key 默认 "reelkit:model:version"。
	Key string
}

func (s *RedisVersionStore) key() string {
	if s.Key == "" {
		return "reelkit:model:version"
	}
	return s.Key
}

var _ VersionStore = (*RedisVersionStore)(nil)

func (s *RedisVersionStore) Current(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 2; attempt++ {
		raw, err := s.Client.Get(ctx, s.key()).Result()
		if err == redis.Nil {
			// 缺失：SetNX 初始化为 1，输掉竞争时下一轮读最终值
			if serr := s.Client.SetNX(ctx, s.key(), 1, 0).Err(); serr != nil {
				return "", fmt.Errorf("init version counter: %w", serr)
			}
			continue
		}
		if err != nil {
			return "", fmt.Errorf("read version counter: %w", err)
		}
		v, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil || v < 1 {
			// 计数损坏时本地恢复为默认版本，不向上传播
			if serr := s.Client.Set(ctx, s.key(), 1, 0).Err(); serr != nil {
				return "", fmt.Errorf("reset version counter: %w", serr)
			}
			return tokenFor(1), nil
		}
		return tokenFor(v), nil
	}
	return tokenFor(1), nil
}

func (s *RedisVersionStore) Increment(ctx context.Context) (string, error) {
	v, err := s.Client.Incr(ctx, s.key()).Result()
	if err != nil {
		return "", fmt.Errorf("increment version counter: %w", err)
	}
	return tokenFor(v), nil
}
