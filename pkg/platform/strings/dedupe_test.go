package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"nil stays nil", nil, nil},
		{"trims and dedupes preserving order", []string{"  Plumber ", "Mason", "Plumber", "", "  "}, []string{"Plumber", "Mason"}},
		{"case sensitive", []string{"Legal", "legal"}, []string{"Legal", "legal"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DedupeAndTrim(tt.input))
		})
	}
}

func TestFirstNonEmpty(t *testing.T) {
	got, ok := FirstNonEmpty("", "  ", " WA123 ", "WA999")
	assert.True(t, ok)
	assert.Equal(t, "WA123", got)

	got, ok = FirstNonEmpty("", " ")
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("Guntur West", "guntur"))
	assert.True(t, ContainsFold("Guntur West", " WEST "))
	assert.True(t, ContainsFold("anything", ""))
	assert.False(t, ContainsFold("Guntur West", "east"))
}
