package utils

import "testing"

func TestMergeLabel(t *testing.T) {
	tests := []struct {
		name     string
		existing Label
		incoming Label
		want     Label
	}{
		{
			name:     "both present accumulate",
			existing: Label{Value: "pool", Source: "rerank"},
			incoming: Label{Value: "backfill", Source: "rerank"},
			want:     Label{Value: "pool|backfill", Source: "rerank,rerank"},
		},
		{
			name:     "empty existing yields incoming",
			existing: Label{},
			incoming: Label{Value: "mmr", Source: "rerank"},
			want:     Label{Value: "mmr", Source: "rerank"},
		},
		{
			name:     "empty incoming yields existing",
			existing: Label{Value: "mmr", Source: "rerank"},
			incoming: Label{},
			want:     Label{Value: "mmr", Source: "rerank"},
		},
		{
			name:     "missing sources fall back",
			existing: Label{Value: "a"},
			incoming: Label{Value: "b", Source: "s"},
			want:     Label{Value: "a|b", Source: "s"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MergeLabel(tt.existing, tt.incoming); got != tt.want {
				t.Errorf("MergeLabel = %+v, want %+v", got, tt.want)
			}
		})
	}
}
