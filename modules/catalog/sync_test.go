package catalog

import (
	"sort"
	"testing"
)

func TestDiffIDs(t *testing.T) {
	tests := []struct {
		name        string
		current     []uint
		desired     []uint
		wantAdds    []uint
		wantRemoves []uint
	}{
		{
			name:        "partial overlap",
			current:     []uint{1, 2},
			desired:     []uint{1, 3},
			wantAdds:    []uint{3},
			wantRemoves: []uint{2},
		},
		{
			name:     "identical sets",
			current:  []uint{1, 2, 3},
			desired:  []uint{3, 2, 1},
			wantAdds: nil, wantRemoves: nil,
		},
		{
			name:        "empty desired clears everything",
			current:     []uint{4, 5},
			desired:     []uint{},
			wantRemoves: []uint{4, 5},
		},
		{
			name:     "empty current adds everything",
			desired:  []uint{7, 8},
			wantAdds: []uint{7, 8},
		},
		{
			name:     "duplicates in desired collapse",
			current:  []uint{1},
			desired:  []uint{1, 2, 2, 2},
			wantAdds: []uint{2},
		},
		{
			name:        "duplicates in current collapse",
			current:     []uint{3, 3},
			desired:     []uint{},
			wantRemoves: []uint{3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adds, removes := DiffIDs(tt.current, tt.desired)
			if !sameIDs(adds, tt.wantAdds) {
				t.Errorf("adds = %v, want %v", adds, tt.wantAdds)
			}
			if !sameIDs(removes, tt.wantRemoves) {
				t.Errorf("removes = %v, want %v", removes, tt.wantRemoves)
			}
		})
	}
}

// sameIDs compares two id slices as sets.
func sameIDs(got, want []uint) bool {
	if len(got) != len(want) {
		return false
	}
	g := append([]uint(nil), got...)
	w := append([]uint(nil), want...)
	sort.Slice(g, func(i, j int) bool { return g[i] < g[j] })
	sort.Slice(w, func(i, j int) bool { return w[i] < w[j] })
	for i := range g {
		if g[i] != w[i] {
			return false
		}
	}
	return true
}
