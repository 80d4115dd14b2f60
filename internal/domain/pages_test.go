package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageRanges(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  PageRanges
	}{
		{name: "empty", input: "", want: nil},
		{name: "blank", input: "   ", want: nil},
		{name: "single page", input: "2", want: PageRanges{{Start: 2, End: 2}}},
		{
			name:  "mixed",
			input: "3-5, 8-10,12",
			want:  PageRanges{{Start: 3, End: 5}, {Start: 8, End: 10}, {Start: 12, End: 12}},
		},
		{name: "trailing comma", input: "4,", want: PageRanges{{Start: 4, End: 4}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePageRanges(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePageRangesRejectsInvalid(t *testing.T) {
	for _, input := range []string{"a", "5-3", "0", "2-x", "-1"} {
		_, err := ParsePageRanges(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestPageRangesContains(t *testing.T) {
	ranges, err := ParsePageRanges("3-5,12")
	require.NoError(t, err)

	assert.False(t, ranges.Contains(2))
	assert.True(t, ranges.Contains(3))
	assert.True(t, ranges.Contains(5))
	assert.False(t, ranges.Contains(6))
	assert.True(t, ranges.Contains(12))
	assert.Equal(t, "3-5,12", ranges.String())
}
