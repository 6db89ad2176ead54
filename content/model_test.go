package content

import (
	"math"
	"testing"

	"github.com/reelkit/reelkit/core"
)

func movie(id int64) core.ItemKey {
	return core.ItemKey{Kind: core.MediaKindMovie, ID: id}
}

func demoCatalog() []core.CatalogEntry {
	return []core.CatalogEntry{
		{Key: movie(1), Title: "Star Saga", Overview: "A space opera about rebels fighting an empire."},
		{Key: movie(2), Title: "Star Saga II", Overview: "The space opera sequel follows the rebels onward."},
		{Key: movie(3), Title: "Deep Dish", Overview: "A cooking documentary about pizza ovens."},
	}
}

func TestVectorizerFit(t *testing.T) {
	t.Run("document frequency bounds prune vocabulary", func(t *testing.T) {
		v := &Vectorizer{MinDocFreq: 2, MaxDocRatio: 0.9}
		space, vectors := v.Fit([]string{
			"space opera about rebels",
			"space opera sequel",
			"cooking documentary",
		})
		// "space"/"opera"/"space opera" 出现在两个文档中，保留；
		// 只出现一次的词项低于 min_df，被剔除。
		for _, keep := range []string{"space", "opera", "space opera"} {
			if _, ok := space.Vocabulary[keep]; !ok {
				t.Errorf("term %q missing from vocabulary", keep)
			}
		}
		for _, drop := range []string{"rebels", "cooking", "documentary"} {
			if _, ok := space.Vocabulary[drop]; ok {
				t.Errorf("term %q should be pruned by min_df", drop)
			}
		}
		// 文档向量 L2 归一化；无保留词项的文档向量为零
		for i, vec := range vectors[:2] {
			if got := vec.Norm(); math.Abs(got-1) > 1e-12 {
				t.Errorf("doc %d norm = %v, want 1", i, got)
			}
		}
		if vectors[2].Len() != 0 {
			t.Errorf("doc 2 should be zero vector, got %d elements", vectors[2].Len())
		}
	})

	t.Run("empty corpus gives zero-dim space", func(t *testing.T) {
		v := &Vectorizer{}
		space, vectors := v.Fit(nil)
		if space.Dim() != 0 || len(vectors) != 0 {
			t.Errorf("dim = %d vectors = %d, want 0/0", space.Dim(), len(vectors))
		}
	})

	t.Run("vocabulary dimensions follow lexicographic order", func(t *testing.T) {
		// max_df 设为 1 放过出现在全部文档的词项
		v := &Vectorizer{MinDocFreq: 1, MaxDocRatio: 1}
		space, _ := v.Fit([]string{"zebra apple", "zebra apple"})
		if space.Vocabulary["apple"] >= space.Vocabulary["zebra"] ||
			space.Vocabulary["zebra"] >= space.Vocabulary["zebra apple"] {
			t.Errorf("vocabulary not lexicographic: %v", space.Vocabulary)
		}
	})
}

func TestModelProfile(t *testing.T) {
	m := Fit(demoCatalog(), &Vectorizer{MinDocFreq: 1})

	t.Run("weighted average favors high-strength items", func(t *testing.T) {
		profile, ok := m.Profile([]core.Interaction{
			{UserID: 1, Key: movie(1), Strength: 5},
			{UserID: 1, Key: movie(3), Strength: 1},
		})
		if !ok {
			t.Fatal("profile should exist")
		}
		a, _ := m.Embedding(movie(1))
		c, _ := m.Embedding(movie(3))
		if profile.Dot(a) <= profile.Dot(c) {
			t.Errorf("profile should lean toward the 5-star item: a=%v c=%v",
				profile.Dot(a), profile.Dot(c))
		}
	})

	t.Run("non-positive total strength falls back to uniform", func(t *testing.T) {
		profile, ok := m.Profile([]core.Interaction{
			{UserID: 1, Key: movie(1), Strength: 0},
			{UserID: 1, Key: movie(3), Strength: 0},
		})
		if !ok {
			t.Fatal("profile should exist")
		}
		if profile.Len() == 0 {
			t.Error("uniform fallback should produce a non-zero profile")
		}
		a, _ := m.Embedding(movie(1))
		c, _ := m.Embedding(movie(3))
		if math.Abs(profile.Dot(a)-profile.Dot(c)) > 0.5 {
			t.Errorf("uniform profile should not strongly favor either item: a=%v c=%v",
				profile.Dot(a), profile.Dot(c))
		}
	})

	t.Run("history without catalog matches has no profile", func(t *testing.T) {
		if _, ok := m.Profile([]core.Interaction{{UserID: 1, Key: movie(42), Strength: 5}}); ok {
			t.Error("profile should not exist for unmatched history")
		}
	})

	t.Run("empty history has no profile", func(t *testing.T) {
		if _, ok := m.Profile(nil); ok {
			t.Error("profile should not exist for empty history")
		}
	})
}

func TestModelScoresForUser(t *testing.T) {
	m := Fit(demoCatalog(), nil) // 默认 min_df=2

	t.Run("similar item outranks unrelated item", func(t *testing.T) {
		scores := m.ScoresForUser([]core.Interaction{
			{UserID: 1, Key: movie(1), Strength: 5},
		})
		if len(scores) != 3 {
			t.Fatalf("scores size = %d, want dense map over catalog", len(scores))
		}
		if scores[movie(2)] <= scores[movie(3)] {
			t.Errorf("sequel should beat cooking documentary: %v vs %v",
				scores[movie(2)], scores[movie(3)])
		}
	})

	t.Run("no profile yields empty scores", func(t *testing.T) {
		if got := m.ScoresForUser(nil); len(got) != 0 {
			t.Errorf("scores = %v, want empty", got)
		}
	})

	t.Run("empty catalog yields empty scores", func(t *testing.T) {
		empty := Fit(nil, nil)
		if got := empty.ScoresForUser([]core.Interaction{{UserID: 1, Key: movie(1), Strength: 5}}); len(got) != 0 {
			t.Errorf("scores = %v, want empty", got)
		}
	})
}

func TestModelEmbedding(t *testing.T) {
	m := Fit(demoCatalog(), nil)

	if _, ok := m.Embedding(movie(1)); !ok {
		t.Error("embedding for item 1 should exist")
	}
	// min_df=2 下纯独有词汇的文档向量为零，Embedding 视为缺失
	if _, ok := m.Embedding(movie(3)); ok {
		t.Error("zero-vector document should report no embedding")
	}
	if _, ok := m.Embedding(movie(42)); ok {
		t.Error("unknown item should report no embedding")
	}
}
