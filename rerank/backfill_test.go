package rerank

import (
	"context"
	"testing"

	"github.com/reelkit/reelkit/core"
	"github.com/reelkit/reelkit/pkg/utils"
)

func tv(id int64) core.ItemKey {
	return core.ItemKey{Kind: core.MediaKindTV, ID: id}
}

func mmrSelected(key core.ItemKey, score float64) *core.Item {
	it := scoredItem(key, score)
	it.PutLabel("rerank", utils.Label{Value: "mmr", Source: "rerank"})
	return it
}

func poolItem(key core.ItemKey, score float64) *core.Item {
	it := scoredItem(key, score)
	it.PutLabel("rerank", utils.Label{Value: "pool", Source: "rerank"})
	return it
}

func TestBackfillNode(t *testing.T) {
	t.Run("fills up to count from pool", func(t *testing.T) {
		n := &BackfillNode{Count: 3}
		out, err := n.Process(context.Background(), nil, []*core.Item{
			mmrSelected(movie(1), 0.9),
			mmrSelected(movie(2), 0.8),
			poolItem(movie(3), 0.7),
			poolItem(movie(4), 0.6),
		})
		if err != nil {
			t.Fatal(err)
		}
		if len(out) != 3 {
			t.Fatalf("got %d items, want 3", len(out))
		}
		if out[2].Key != movie(3) {
			t.Errorf("backfilled = %s, want movie:3", out[2].Key)
		}
		// 标签按 '|' 累积，保留候选的来路
		if lbl, _ := out[2].GetLabel("rerank"); lbl.Value != "pool|backfill" {
			t.Errorf("backfill label = %q, want pool|backfill", lbl.Value)
		}
	})

	t.Run("truncates selected above count", func(t *testing.T) {
		n := &BackfillNode{Count: 1}
		out, err := n.Process(context.Background(), nil, []*core.Item{
			mmrSelected(movie(1), 0.9),
			mmrSelected(movie(2), 0.8),
			poolItem(movie(3), 0.7),
		})
		if err != nil {
			t.Fatal(err)
		}
		if len(out) != 1 || out[0].Key != movie(1) {
			t.Fatalf("got %v, want only movie:1", out)
		}
	})

	t.Run("request param overrides configured count", func(t *testing.T) {
		n := &BackfillNode{Count: 1}
		rctx := &core.RecommendContext{Params: map[string]any{"count": 2}}
		out, err := n.Process(context.Background(), rctx, []*core.Item{
			mmrSelected(movie(1), 0.9),
			poolItem(movie(2), 0.8),
			poolItem(movie(3), 0.7),
		})
		if err != nil {
			t.Fatal(err)
		}
		if len(out) != 2 {
			t.Fatalf("got %d items, want 2 from request param", len(out))
		}
	})

	t.Run("restrict expression gates backfill candidates", func(t *testing.T) {
		n := &BackfillNode{Count: 3, Restrict: `item.media_kind == "movie"`}
		out, err := n.Process(context.Background(), nil, []*core.Item{
			mmrSelected(movie(1), 0.9),
			poolItem(tv(2), 0.8),    // 被限定条件挡下
			poolItem(movie(3), 0.7), // 允许回填
		})
		if err != nil {
			t.Fatal(err)
		}
		if len(out) != 2 {
			t.Fatalf("got %d items, want 2", len(out))
		}
		if out[1].Key != movie(3) {
			t.Errorf("backfilled = %s, want movie:3", out[1].Key)
		}
	})

	t.Run("zero count keeps only selected", func(t *testing.T) {
		n := &BackfillNode{}
		out, err := n.Process(context.Background(), nil, []*core.Item{
			mmrSelected(movie(1), 0.9),
			poolItem(movie(2), 0.8),
		})
		if err != nil {
			t.Fatal(err)
		}
		if len(out) != 1 || out[0].Key != movie(1) {
			t.Fatalf("got %v, want only the mmr selection", out)
		}
	})
}
