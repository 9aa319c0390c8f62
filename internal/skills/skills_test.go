package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "trims and lowercases",
			in:   []string{"  Python ", "GUITAR"},
			want: []string{"python", "guitar"},
		},
		{
			name: "drops empty entries",
			in:   []string{"", "   ", "go"},
			want: []string{"go"},
		},
		{
			name: "deduplicates",
			in:   []string{"Go", "go", " GO "},
			want: []string{"go"},
		},
		{
			name: "nil input",
			in:   nil,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	in := []string{" Python", "guitar", "GUITAR", "", "cooking "}
	once := Normalize(in)
	assert.Equal(t, once, Normalize(once))
}

func TestOverlap(t *testing.T) {
	tests := []struct {
		name  string
		teach []string
		learn []string
		want  int
	}{
		{
			name:  "single match",
			teach: []string{"python", "guitar"},
			learn: []string{"python"},
			want:  1,
		},
		{
			name:  "no match",
			teach: []string{"python"},
			learn: []string{"cooking"},
			want:  0,
		},
		{
			name:  "case insensitive",
			teach: []string{"Python", "GUITAR"},
			learn: []string{"python", "guitar"},
			want:  2,
		},
		{
			name:  "duplicates do not double count",
			teach: []string{"python", "python"},
			learn: []string{"python", "PYTHON"},
			want:  1,
		},
		{
			name:  "empty sets",
			teach: nil,
			learn: nil,
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlap(tt.teach, tt.learn))
		})
	}
}

func TestOverlapOrderIndependent(t *testing.T) {
	teach := []string{"a", "b", "c"}
	learn := []string{"c", "a"}
	assert.Equal(t, Overlap(teach, learn), Overlap([]string{"c", "b", "a"}, []string{"a", "c"}))
}
