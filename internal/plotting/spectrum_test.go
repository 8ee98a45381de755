package plotting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telecominfraproject/gnmodel/internal/spectrum"
)

func TestSpectrumPNG(t *testing.T) {
	t.Parallel()

	comb := spectrum.UniformComb(5, 0.05, 0.032, 0.05, 1e-3)
	freqs := comb.CenterFrequencies()
	nli := []float64{2e-4, 2.2e-4, 2.4e-4, 2.2e-4, 2e-4}

	t.Run("writes a png", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "spectrum.png")
		require.NoError(t, SpectrumPNG(comb, freqs, nli, path))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	})

	t.Run("rejects mismatched lengths", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "spectrum.png")
		assert.Error(t, SpectrumPNG(comb, freqs, nli[:3], path))
	})

	t.Run("rejects an empty comb", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "spectrum.png")
		assert.Error(t, SpectrumPNG(spectrum.Comb{}, nil, nil, path))
	})
}

func TestSweepPNG(t *testing.T) {
	t.Parallel()

	powers := []float64{-4, -2, 0, 2, 4}
	gsnr := []float64{16.1, 17.4, 18.0, 17.6, 16.2}

	t.Run("writes a png", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "sweep.png")
		require.NoError(t, SweepPNG(powers, gsnr, path))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	})

	t.Run("rejects mismatched lengths", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "sweep.png")
		assert.Error(t, SweepPNG(powers, gsnr[:2], path))
	})

	t.Run("rejects an empty sweep", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "sweep.png")
		assert.Error(t, SweepPNG(nil, nil, path))
	})
}
