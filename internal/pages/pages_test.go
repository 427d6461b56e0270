package pages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countOf returns a CountFunc reporting a fixed page count and recording
// whether it was called.
func countOf(n int, called *bool) CountFunc {
	return func() (int, error) {
		if called != nil {
			*called = true
		}
		return n, nil
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		expr        string
		pageCount   int
		want        []int
		expectError bool
	}{
		{
			name:      "single page",
			expr:      "1",
			pageCount: 5,
			want:      []int{1},
		},
		{
			name:      "comma separated pages",
			expr:      "1,3,4",
			pageCount: 5,
			want:      []int{1, 3, 4},
		},
		{
			name:      "range overlapping single page dedupes",
			expr:      "2-2,1",
			pageCount: 5,
			want:      []int{1, 2},
		},
		{
			name:      "repeated page dedupes",
			expr:      "1,1,1",
			pageCount: 5,
			want:      []int{1},
		},
		{
			name:      "all expands to every page",
			expr:      "all",
			pageCount: 5,
			want:      []int{1, 2, 3, 4, 5},
		},
		{
			name:      "open range to end",
			expr:      "3-end",
			pageCount: 5,
			want:      []int{3, 4, 5},
		},
		{
			name:      "mixed tokens with spaces",
			expr:      " 1 , 3 - 4 ",
			pageCount: 5,
			want:      []int{1, 3, 4},
		},
		{
			name:      "overlapping ranges dedupe",
			expr:      "1-3,2-4",
			pageCount: 5,
			want:      []int{1, 2, 3, 4},
		},
		{
			name:        "non numeric token",
			expr:        "x-2",
			pageCount:   5,
			expectError: true,
		},
		{
			name:        "reversed range",
			expr:        "2-1",
			pageCount:   5,
			expectError: true,
		},
		{
			name:        "empty expression",
			expr:        "",
			pageCount:   5,
			expectError: true,
		},
		{
			name:        "zero page",
			expr:        "0",
			pageCount:   5,
			expectError: true,
		},
		{
			name:        "trailing comma",
			expr:        "1,",
			pageCount:   5,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.expr, countOf(tt.pageCount, nil))
			if tt.expectError {
				require.Error(t, err)
				var malformed *MalformedSelectionError
				assert.True(t, errors.As(err, &malformed), "want MalformedSelectionError, got %v", err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseResultIsStrictlyIncreasing(t *testing.T) {
	got, err := Parse("4,1-3,2,4", countOf(10, nil))
	require.NoError(t, err)
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i], got[i-1])
	}
}

func TestParseLazyPageCount(t *testing.T) {
	t.Run("single page never asks for the count", func(t *testing.T) {
		called := false
		got, err := Parse("1", countOf(5, &called))
		require.NoError(t, err)
		assert.Equal(t, []int{1}, got)
		assert.False(t, called)
	})

	t.Run("plain ranges never ask for the count", func(t *testing.T) {
		called := false
		_, err := Parse("1-3,7", countOf(5, &called))
		require.NoError(t, err)
		assert.False(t, called)
	})

	t.Run("end keyword asks for the count", func(t *testing.T) {
		called := false
		got, err := Parse("3-end", countOf(5, &called))
		require.NoError(t, err)
		assert.Equal(t, []int{3, 4, 5}, got)
		assert.True(t, called)
	})

	t.Run("count failure propagates", func(t *testing.T) {
		_, err := Parse("all", func() (int, error) {
			return 0, errors.New("boom")
		})
		require.Error(t, err)
	})
}

func TestParseReversedAfterEndSubstitution(t *testing.T) {
	// "7-end" on a 5-page document resolves to 7-5, which is reversed.
	_, err := Parse("7-end", countOf(5, nil))
	var malformed *MalformedSelectionError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "7-end", malformed.Token)
}
