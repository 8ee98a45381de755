package spectrum

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArange(t *testing.T) {
	t.Parallel()

	t.Run("half open range", func(t *testing.T) {
		t.Parallel()
		got := Arange(0, 1, 0.25)
		require.Len(t, got, 4)
		assert.InDelta(t, 0.0, got[0], 1e-12)
		assert.InDelta(t, 0.75, got[3], 1e-12)
	})

	t.Run("degenerate inputs", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, Arange(0, 1, 0))
		assert.Nil(t, Arange(1, 0, 0.1))
		assert.Nil(t, Arange(2, 2, 0.1))
	})
}

func TestLinspace(t *testing.T) {
	t.Parallel()

	got := Linspace(-1, 1, 5)
	require.Len(t, got, 5)
	assert.InDelta(t, -1, got[0], 1e-12)
	assert.InDelta(t, 0, got[2], 1e-12)
	assert.InDelta(t, 1, got[4], 1e-12)

	assert.Nil(t, Linspace(0, 1, 0))
	assert.Equal(t, []float64{3}, Linspace(3, 9, 1))
}

func TestNonuniformGrid(t *testing.T) {
	t.Parallel()

	const (
		bopt    = 0.05 * 9
		fmax    = 0.4
		maxStep = 0.05 / 4
		df      = 0.0005
	)

	cases := []struct {
		name     string
		f        float64
		denseLow float64
		denseUp  float64
	}{
		{"eval at comb centre", 0, -0.03, 0.03},
		{"positive eval frequency", 0.1, 0.07, 0.13},
		{"negative eval frequency", -0.1, -0.13, -0.07},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			grid := NonuniformGrid(tc.f, bopt, fmax, maxStep, tc.denseLow, tc.denseUp, df)
			require.NotEmpty(t, grid)

			// Trapezoidal integration needs a sorted axis.
			assert.True(t, sort.Float64sAreSorted(grid), "grid must be ascending")

			// The dense window must be sampled at roughly df.
			inWindow := 0
			for i := 1; i < len(grid); i++ {
				lo, hi := grid[i-1], grid[i]
				if lo >= tc.denseLow && hi <= tc.denseUp {
					inWindow++
					assert.LessOrEqual(t, hi-lo, df*1.5)
				}
			}
			assert.Greater(t, inWindow, 10, "dense window should dominate the point count")

			// Wings must reach the integration domain edges.
			assert.LessOrEqual(t, grid[0], -fmax*0.9)
			assert.GreaterOrEqual(t, grid[len(grid)-1], fmax*0.9)
		})
	}
}
