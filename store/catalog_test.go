package store

import (
	"context"
	"testing"

	"github.com/reelkit/reelkit/core"
)

func TestCatalog(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip sorted by key", func(t *testing.T) {
		c := &Catalog{Store: NewMemoryStore()}
		seed := []core.CatalogEntry{
			{Key: tv(1), Title: "Galaxy Patrol", Overview: "space series"},
			{Key: movie(9), Title: "Deep Dish", Overview: "cooking"},
			{Key: movie(2), Title: "Star Saga", Overview: "space opera"},
		}
		for _, e := range seed {
			if err := c.PutItem(ctx, e); err != nil {
				t.Fatal(err)
			}
		}

		got, err := c.ListItems(ctx)
		if err != nil {
			t.Fatal(err)
		}
		wantOrder := []core.ItemKey{movie(2), movie(9), tv(1)}
		if len(got) != len(wantOrder) {
			t.Fatalf("got %d entries, want %d", len(got), len(wantOrder))
		}
		for i, k := range wantOrder {
			if got[i].Key != k {
				t.Errorf("entry %d = %s, want %s", i, got[i].Key, k)
			}
		}
	})

	t.Run("overwrite replaces the entry", func(t *testing.T) {
		c := &Catalog{Store: NewMemoryStore()}
		if err := c.PutItem(ctx, core.CatalogEntry{Key: movie(1), Title: "Old"}); err != nil {
			t.Fatal(err)
		}
		if err := c.PutItem(ctx, core.CatalogEntry{Key: movie(1), Title: "New"}); err != nil {
			t.Fatal(err)
		}
		got, _ := c.ListItems(ctx)
		if len(got) != 1 || got[0].Title != "New" {
			t.Fatalf("got %v, want single entry titled New", got)
		}
	})

	t.Run("malformed fields are skipped", func(t *testing.T) {
		mem := NewMemoryStore()
		c := &Catalog{Store: mem}
		if err := c.PutItem(ctx, core.CatalogEntry{Key: movie(1), Title: "Good"}); err != nil {
			t.Fatal(err)
		}
		// 非法 field 名与非法 JSON 都不影响其余条目
		if err := mem.HSet(ctx, c.key(), "not-a-key", []byte(`{}`)); err != nil {
			t.Fatal(err)
		}
		if err := mem.HSet(ctx, c.key(), movie(2).String(), []byte(`{broken`)); err != nil {
			t.Fatal(err)
		}

		got, err := c.ListItems(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0].Key != movie(1) {
			t.Fatalf("got %v, want only movie:1", got)
		}
	})

	t.Run("empty catalog lists empty", func(t *testing.T) {
		c := &Catalog{Store: NewMemoryStore()}
		got, err := c.ListItems(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 0 {
			t.Errorf("got %v, want empty", got)
		}
	})
}
