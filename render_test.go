package verscout

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderPep440(t *testing.T) {
	tests := []struct {
		name     string
		pieces   Pieces
		expected string
	}{
		{
			name:     "Exact tag, clean tree",
			pieces:   Pieces{ClosestTag: "1.2.3", Distance: 0, Short: "abc1234"},
			expected: "1.2.3",
		},
		{
			name:     "Commits past tag",
			pieces:   Pieces{ClosestTag: "1.2.3", Distance: 4, Short: "abc1234"},
			expected: "1.2.3+4.gabc1234",
		},
		{
			name:     "Commits past tag, dirty",
			pieces:   Pieces{ClosestTag: "1.2.3", Distance: 4, Short: "abc1234", Dirty: true},
			expected: "1.2.3+4.gabc1234.dirty",
		},
		{
			name:     "Exact tag but dirty still gets the suffix",
			pieces:   Pieces{ClosestTag: "1.2.3", Distance: 0, Short: "abc1234", Dirty: true},
			expected: "1.2.3+0.gabc1234.dirty",
		},
		{
			name:     "Tag already carrying a local segment",
			pieces:   Pieces{ClosestTag: "1.2.3+hotfix", Distance: 2, Short: "abc1234"},
			expected: "1.2.3+hotfix.2.gabc1234",
		},
		{
			name:     "No tags",
			pieces:   Pieces{Distance: 7, Short: "abc1234"},
			expected: "0+untagged.7.gabc1234",
		},
		{
			name:     "No tags, dirty",
			pieces:   Pieces{Distance: 7, Short: "abc1234", Dirty: true},
			expected: "0+untagged.7.gabc1234.dirty",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rendered, err := Render(StylePep440, &test.pieces)
			require.NoError(t, err)
			require.Equal(t, test.expected, rendered)
		})
	}
}

func TestRenderDigits(t *testing.T) {
	tests := []struct {
		name     string
		pieces   Pieces
		expected string
	}{
		{
			name:     "Exact tag, clean tree",
			pieces:   Pieces{ClosestTag: "1.2.3"},
			expected: "1.2.3",
		},
		{
			name:     "Distance appended",
			pieces:   Pieces{ClosestTag: "1.2.3", Distance: 5},
			expected: "1.2.3.5",
		},
		{
			name:     "Dirty at distance zero appends one",
			pieces:   Pieces{ClosestTag: "1.2.3", Distance: 0, Dirty: true},
			expected: "1.2.3.1",
		},
		{
			name:     "Dirty keeps the distance when non-zero",
			pieces:   Pieces{ClosestTag: "1.2.3", Distance: 4, Dirty: true},
			expected: "1.2.3.4",
		},
		{
			name:     "Non-numeric segments dropped",
			pieces:   Pieces{ClosestTag: "1.2.3.beta", Distance: 2},
			expected: "1.2.3.2",
		},
		{
			name:     "No tags",
			pieces:   Pieces{Distance: 7, Short: "abc1234"},
			expected: "0.7",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rendered, err := Render(StyleDigits, &test.pieces)
			require.NoError(t, err)
			require.Equal(t, test.expected, rendered)
		})
	}
}

func TestRenderPep440Pre(t *testing.T) {
	tests := []struct {
		name     string
		pieces   Pieces
		expected string
	}{
		{
			name:     "Exact tag",
			pieces:   Pieces{ClosestTag: "1.2.3"},
			expected: "1.2.3",
		},
		{
			name:     "Distance becomes a dev segment",
			pieces:   Pieces{ClosestTag: "1.2.3", Distance: 4, Short: "abc1234"},
			expected: "1.2.3.post0.dev4",
		},
		{
			name:     "Existing post segment is kept",
			pieces:   Pieces{ClosestTag: "1.2.3.post2", Distance: 4},
			expected: "1.2.3.post2.dev4",
		},
		{
			name:     "Dirty is not rendered",
			pieces:   Pieces{ClosestTag: "1.2.3", Distance: 4, Short: "abc1234", Dirty: true},
			expected: "1.2.3.post0.dev4",
		},
		{
			name:     "No tags",
			pieces:   Pieces{Distance: 7},
			expected: "0.post0.dev7",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rendered, err := Render(StylePep440Pre, &test.pieces)
			require.NoError(t, err)
			require.Equal(t, test.expected, rendered)
		})
	}
}

func TestRenderPep440Post(t *testing.T) {
	tests := []struct {
		name     string
		pieces   Pieces
		expected string
	}{
		{
			name:     "Exact tag",
			pieces:   Pieces{ClosestTag: "1.2.3", Short: "abc1234"},
			expected: "1.2.3",
		},
		{
			name:     "Distance",
			pieces:   Pieces{ClosestTag: "1.2.3", Distance: 4, Short: "abc1234"},
			expected: "1.2.3.post4+gabc1234",
		},
		{
			name:     "Dirty at distance zero",
			pieces:   Pieces{ClosestTag: "1.2.3", Short: "abc1234", Dirty: true},
			expected: "1.2.3.post0+gabc1234.dirty",
		},
		{
			name:     "No tags",
			pieces:   Pieces{Distance: 7, Short: "abc1234"},
			expected: "0.post7+gabc1234",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rendered, err := Render(StylePep440Post, &test.pieces)
			require.NoError(t, err)
			require.Equal(t, test.expected, rendered)
		})
	}
}

func TestRenderPep440Branch(t *testing.T) {
	tests := []struct {
		name     string
		pieces   Pieces
		expected string
	}{
		{
			name:     "Master branch renders like pep440",
			pieces:   Pieces{ClosestTag: "1.2.3", Distance: 4, Short: "abc1234", Branch: "main"},
			expected: "1.2.3+4.gabc1234",
		},
		{
			name:     "Feature branch gets a dev marker",
			pieces:   Pieces{ClosestTag: "1.2.3", Distance: 4, Short: "abc1234", Branch: "feature/x"},
			expected: "1.2.3.dev0+4.gabc1234",
		},
		{
			name:     "Exact tag on feature branch stays bare",
			pieces:   Pieces{ClosestTag: "1.2.3", Short: "abc1234", Branch: "feature/x"},
			expected: "1.2.3",
		},
		{
			name:     "No tags on feature branch",
			pieces:   Pieces{Distance: 7, Short: "abc1234", Branch: "feature/x", Dirty: true},
			expected: "0.dev0+untagged.7.gabc1234.dirty",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rendered, err := Render(StylePep440Branch, &test.pieces)
			require.NoError(t, err)
			require.Equal(t, test.expected, rendered)
		})
	}
}

func TestRenderGitDescribe(t *testing.T) {
	t.Run("Short style omits distance at exact tag", func(t *testing.T) {
		rendered, err := Render(StyleGitDescribe, &Pieces{ClosestTag: "1.2.3", Short: "abc1234"})
		require.NoError(t, err)
		require.Equal(t, "1.2.3", rendered)
	})

	t.Run("Short style with distance", func(t *testing.T) {
		rendered, err := Render(StyleGitDescribe, &Pieces{ClosestTag: "1.2.3", Distance: 4, Short: "abc1234", Dirty: true})
		require.NoError(t, err)
		require.Equal(t, "1.2.3-4-gabc1234-dirty", rendered)
	})

	t.Run("Long style is unconditional", func(t *testing.T) {
		rendered, err := Render(StyleGitDescribeLong, &Pieces{ClosestTag: "1.2.3", Short: "abc1234"})
		require.NoError(t, err)
		require.Equal(t, "1.2.3-0-gabc1234", rendered)
	})

	t.Run("No tags renders the bare hash", func(t *testing.T) {
		rendered, err := Render(StyleGitDescribe, &Pieces{Distance: 7, Short: "abc1234"})
		require.NoError(t, err)
		require.Equal(t, "abc1234", rendered)
	})
}

func TestRenderUnknownStyle(t *testing.T) {
	_, err := Render(Style("bogus"), &Pieces{ClosestTag: "1.2.3"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown style")
}
