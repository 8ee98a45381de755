package spectrum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/integrate"
)

func TestUniformComb(t *testing.T) {
	t.Parallel()

	t.Run("odd count centres a channel at DC", func(t *testing.T) {
		t.Parallel()
		comb := UniformComb(5, 0.05, 0.032, 0.05, 1e-3)
		require.Len(t, comb.Channels, 5)
		assert.InDelta(t, -0.1, comb.Channels[0].CenterTHz, 1e-12)
		assert.InDelta(t, 0.0, comb.Channels[2].CenterTHz, 1e-12)
		assert.InDelta(t, 0.1, comb.Channels[4].CenterTHz, 1e-12)
	})

	t.Run("even count straddles DC", func(t *testing.T) {
		t.Parallel()
		comb := UniformComb(4, 0.05, 0.032, 0.05, 1e-3)
		require.Len(t, comb.Channels, 4)
		assert.InDelta(t, -0.075, comb.Channels[0].CenterTHz, 1e-12)
		assert.InDelta(t, -0.025, comb.Channels[1].CenterTHz, 1e-12)
		assert.InDelta(t, 0.025, comb.Channels[2].CenterTHz, 1e-12)
		assert.InDelta(t, 0.075, comb.Channels[3].CenterTHz, 1e-12)
	})

	t.Run("derived quantities", func(t *testing.T) {
		t.Parallel()
		comb := UniformComb(5, 0.05, 0.032, 0.05, 1e-3)
		assert.InDelta(t, 0.05, comb.MaxSpacing(), 1e-12)
		assert.InDelta(t, 5e-3, comb.TotalPowerW(), 1e-15)
		// (0.1 - 0.016) - (-0.1 - 0.016)
		assert.InDelta(t, 0.2, comb.BandLimit(), 1e-12)
	})
}

func TestCombPSD(t *testing.T) {
	t.Parallel()

	t.Run("height at channel centre is power over symbol rate", func(t *testing.T) {
		t.Parallel()
		comb := UniformComb(3, 0.05, 0.032, 0.05, 1e-3)
		psd := comb.PSD([]float64{-0.05, 0, 0.05})
		for _, v := range psd {
			assert.InDelta(t, 1e-3/0.032, v, 1e-12)
		}
	})

	t.Run("zero between channels", func(t *testing.T) {
		t.Parallel()
		comb := UniformComb(3, 0.05, 0.032, 0.05, 1e-3)
		assert.Zero(t, comb.PSDAt(0.025))
		assert.Zero(t, comb.PSDAt(1.0))
	})

	t.Run("never negative", func(t *testing.T) {
		t.Parallel()
		comb := UniformComb(9, 0.05, 0.032, 0.3, 1e-3)
		for _, v := range comb.PSD(Linspace(-0.3, 0.3, 4001)) {
			assert.GreaterOrEqual(t, v, 0.0)
		}
	})

	t.Run("zero roll-off is an ideal rectangle", func(t *testing.T) {
		t.Parallel()
		comb := Comb{Channels: []Channel{{CenterTHz: 0, SymbolRateTBaud: 0.032, RollOff: 0, PowerW: 1e-3}}}
		g := 1e-3 / 0.032
		assert.InDelta(t, g, comb.PSDAt(0), 1e-12)
		assert.InDelta(t, g, comb.PSDAt(0.0159), 1e-12) // just inside the half band
		assert.Zero(t, comb.PSDAt(0.017))               // just outside
	})

	t.Run("integrated PSD recovers the launch power", func(t *testing.T) {
		t.Parallel()
		comb := Comb{Channels: []Channel{{CenterTHz: 0, SymbolRateTBaud: 0.032, RollOff: 0.05, PowerW: 1e-3}}}
		f := Linspace(-0.03, 0.03, 20001)
		got := integrate.Trapezoidal(f, comb.PSD(f))
		assert.InEpsilon(t, 1e-3, got, 1e-3)
	})
}
