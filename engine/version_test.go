package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func TestFileVersionStore(t *testing.T) {
	ctx := context.Background()

	t.Run("initializes to version 1", func(t *testing.T) {
		dir := t.TempDir()
		s := NewFileVersionStore(dir, zerolog.Nop())

		token, err := s.Current(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if token != `{"version":1}` {
			t.Errorf("token = %q, want {\"version\":1}", token)
		}
		// 默认版本落盘，后续进程可观测
		data, err := os.ReadFile(filepath.Join(dir, "recommender_meta.json"))
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != `{"version":1}` {
			t.Errorf("file = %q, want {\"version\":1}", data)
		}
	})

	t.Run("increment bumps persisted counter", func(t *testing.T) {
		dir := t.TempDir()
		s := NewFileVersionStore(dir, zerolog.Nop())

		if _, err := s.Current(ctx); err != nil {
			t.Fatal(err)
		}
		token, err := s.Increment(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if token != `{"version":2}` {
			t.Errorf("token = %q, want {\"version\":2}", token)
		}

		// 新实例读到相同计数
		fresh := NewFileVersionStore(dir, zerolog.Nop())
		got, err := fresh.Current(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if got != token {
			t.Errorf("fresh instance token = %q, want %q", got, token)
		}
	})

	t.Run("corrupted file recovers to default", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "recommender_meta.json")
		if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
			t.Fatal(err)
		}

		s := NewFileVersionStore(dir, zerolog.Nop())
		token, err := s.Current(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if token != `{"version":1}` {
			t.Errorf("token = %q, want recovery to {\"version\":1}", token)
		}
		data, _ := os.ReadFile(path)
		if string(data) != `{"version":1}` {
			t.Errorf("file after recovery = %q", data)
		}
	})

	t.Run("non-positive version treated as corrupt", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "recommender_meta.json")
		if err := os.WriteFile(path, []byte(`{"version":0}`), 0o644); err != nil {
			t.Fatal(err)
		}

		s := NewFileVersionStore(dir, zerolog.Nop())
		token, err := s.Current(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if token != `{"version":1}` {
			t.Errorf("token = %q, want {\"version\":1}", token)
		}
	})
}

func newRedisVersionStore(t *testing.T) (*RedisVersionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return &RedisVersionStore{Client: client}, mr
}

func TestRedisVersionStore(t *testing.T) {
	ctx := context.Background()

	t.Run("initializes missing counter to version 1", func(t *testing.T) {
		s, mr := newRedisVersionStore(t)

		token, err := s.Current(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if token != `{"version":1}` {
			t.Errorf("token = %q, want {\"version\":1}", token)
		}
		if got, _ := mr.Get(s.key()); got != "1" {
			t.Errorf("persisted counter = %q, want 1", got)
		}
	})

	t.Run("increment bumps shared counter", func(t *testing.T) {
		s, _ := newRedisVersionStore(t)

		if _, err := s.Current(ctx); err != nil {
			t.Fatal(err)
		}
		token, err := s.Increment(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if token != `{"version":2}` {
			t.Errorf("token = %q, want {\"version\":2}", token)
		}
	})

	t.Run("non-positive counter resets to version 1", func(t *testing.T) {
		s, mr := newRedisVersionStore(t)
		mr.Set(s.key(), "0")

		token, err := s.Current(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if token != `{"version":1}` {
			t.Errorf("token = %q, want recovery to {\"version\":1}", token)
		}
		if got, _ := mr.Get(s.key()); got != "1" {
			t.Errorf("persisted counter = %q, want reset to 1", got)
		}
	})

	t.Run("non-integer counter resets to version 1", func(t *testing.T) {
		s, mr := newRedisVersionStore(t)
		mr.Set(s.key(), "garbage")

		token, err := s.Current(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if token != `{"version":1}` {
			t.Errorf("token = %q, want recovery to {\"version\":1}", token)
		}
		// 恢复后 Increment 正常续接
		next, err := s.Increment(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if next != `{"version":2}` {
			t.Errorf("token after recovery = %q, want {\"version\":2}", next)
		}
	})

	t.Run("transport failure propagates", func(t *testing.T) {
		s, mr := newRedisVersionStore(t)
		mr.Close()

		if _, err := s.Current(ctx); err == nil {
			t.Fatal("expected error when redis is unreachable")
		}
	})
}
