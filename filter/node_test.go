package filter

import (
	"context"
	"errors"
	"testing"

	"github.com/reelkit/reelkit/core"
)

func movie(id int64) core.ItemKey {
	return core.ItemKey{Kind: core.MediaKindMovie, ID: id}
}

func tv(id int64) core.ItemKey {
	return core.ItemKey{Kind: core.MediaKindTV, ID: id}
}

func item(key core.ItemKey, score float64) *core.Item {
	it := core.NewItem(key)
	it.Score = score
	it.Meta["media_kind"] = string(key.Kind)
	return it
}

type errorFilter struct{ err error }

func (f *errorFilter) Name() string { return "filter.error" }

func (f *errorFilter) ShouldFilter(context.Context, *core.RecommendContext, *core.Item) (bool, error) {
	return false, f.err
}

func TestFilterNode(t *testing.T) {
	t.Run("rule filter removes matching items", func(t *testing.T) {
		n := &FilterNode{Filters: []Filter{
			&RuleFilter{Expr: `item.media_kind == "tv"`},
		}}
		out, err := n.Process(context.Background(), nil, []*core.Item{
			item(movie(1), 0.9),
			item(tv(2), 0.8),
			item(movie(3), 0.7),
		})
		if err != nil {
			t.Fatal(err)
		}
		if len(out) != 2 {
			t.Fatalf("got %d items, want 2", len(out))
		}
		for _, it := range out {
			if it.Key.Kind == core.MediaKindTV {
				t.Errorf("tv item leaked: %s", it.Key)
			}
		}
	})

	t.Run("filter errors abort the request", func(t *testing.T) {
		wantErr := errors.New("store down")
		n := &FilterNode{Filters: []Filter{&errorFilter{err: wantErr}}}
		_, err := n.Process(context.Background(), nil, []*core.Item{item(movie(1), 0.9)})
		if !errors.Is(err, wantErr) {
			t.Fatalf("err = %v, want %v", err, wantErr)
		}
	})

	t.Run("empty expression keeps everything", func(t *testing.T) {
		n := &FilterNode{Filters: []Filter{&RuleFilter{}}}
		out, err := n.Process(context.Background(), nil, []*core.Item{item(movie(1), 0.9)})
		if err != nil {
			t.Fatal(err)
		}
		if len(out) != 1 {
			t.Fatalf("got %d items, want 1", len(out))
		}
	})
}

type stubInteractions struct {
	seen map[core.ItemKey]struct{}
	err  error
}

func (s *stubInteractions) ListInteractions(context.Context) ([]core.Interaction, error) {
	return nil, nil
}

func (s *stubInteractions) ListUserItems(context.Context, int64) (map[core.ItemKey]struct{}, error) {
	return s.seen, s.err
}

func TestSeenNode(t *testing.T) {
	rctx := &core.RecommendContext{UserID: 1}

	t.Run("seen items are removed", func(t *testing.T) {
		n := &SeenNode{Store: &stubInteractions{
			seen: map[core.ItemKey]struct{}{movie(1): {}},
		}}
		out, err := n.Process(context.Background(), rctx, []*core.Item{
			item(movie(1), 0.9),
			item(movie(2), 0.8),
		})
		if err != nil {
			t.Fatal(err)
		}
		if len(out) != 1 || out[0].Key != movie(2) {
			t.Fatalf("got %v, want only movie:2", out)
		}
	})

	t.Run("seen set read failure fails the request", func(t *testing.T) {
		wantErr := errors.New("redis timeout")
		n := &SeenNode{Store: &stubInteractions{err: wantErr}}
		_, err := n.Process(context.Background(), rctx, []*core.Item{item(movie(1), 0.9)})
		if !errors.Is(err, wantErr) {
			t.Fatalf("err = %v, want %v", err, wantErr)
		}
	})

	t.Run("empty seen set passes items through", func(t *testing.T) {
		n := &SeenNode{Store: &stubInteractions{}}
		out, err := n.Process(context.Background(), rctx, []*core.Item{item(movie(1), 0.9)})
		if err != nil {
			t.Fatal(err)
		}
		if len(out) != 1 {
			t.Fatalf("got %d items, want 1", len(out))
		}
	})
}
