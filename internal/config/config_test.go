package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestEmptySimConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := EmptySimConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 95, cfg.GetChannelCount())
	assert.InDelta(t, 0.05, cfg.GetSpacingTHz(), 1e-12)
	assert.InDelta(t, 0.032, cfg.GetSymbolRateTBaud(), 1e-12)
	assert.InDelta(t, 0.05, cfg.GetRollOff(), 1e-12)
	assert.InDelta(t, 0.0, cfg.GetLaunchPowerDBm(), 1e-12)
	assert.InDelta(t, 21.27, cfg.GetBeta2PsTHzKm(), 1e-12)
	assert.InDelta(t, 100.0, cfg.GetSpanKm(), 1e-12)
	assert.InDelta(t, 0.2, cfg.GetLossDBPerKm(), 1e-12)
	assert.InDelta(t, 1.27, cfg.GetGammaPerWKm(), 1e-12)
	assert.Equal(t, 1, cfg.GetSpanCount())
	assert.InDelta(t, 5.5, cfg.GetNoiseFigureDB(), 1e-12)
	assert.InDelta(t, 12.0, cfg.GetRequiredSNRdB(), 1e-12)
	assert.InDelta(t, 30.0, cfg.GetMinFWMInvDB(), 1e-12)
	assert.Equal(t, 500, cfg.GetNGrid())
	assert.Equal(t, 4, cfg.GetNGridMin())
}

func TestLoadSimConfig(t *testing.T) {
	t.Parallel()

	t.Run("partial config keeps defaults", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, "sim.json", `{"channel_count": 9, "span_count": 3}`)
		cfg, err := LoadSimConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 9, cfg.GetChannelCount())
		assert.Equal(t, 3, cfg.GetSpanCount())
		assert.InDelta(t, 0.05, cfg.GetSpacingTHz(), 1e-12)
		assert.Nil(t, cfg.SpacingTHz)
	})

	t.Run("rejects non-json extension", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, "sim.yaml", `{}`)
		_, err := LoadSimConfig(path)
		assert.ErrorContains(t, err, ".json extension")
	})

	t.Run("rejects missing file", func(t *testing.T) {
		t.Parallel()
		_, err := LoadSimConfig(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, "sim.json", `{"channel_count": `)
		_, err := LoadSimConfig(path)
		assert.ErrorContains(t, err, "parse")
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, "sim.json", `{"channel_count": 1}`)
		_, err := LoadSimConfig(path)
		assert.ErrorContains(t, err, "channel_count")
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	intp := func(v int) *int { return &v }
	fp := func(v float64) *float64 { return &v }

	cases := []struct {
		name string
		cfg  SimConfig
	}{
		{"channel count below 2", SimConfig{ChannelCount: intp(1)}},
		{"non-positive spacing", SimConfig{SpacingTHz: fp(0)}},
		{"non-positive symbol rate", SimConfig{SymbolRateTBaud: fp(-0.032)}},
		{"roll-off out of range", SimConfig{RollOff: fp(1)}},
		{"symbol rate exceeds spacing", SimConfig{SpacingTHz: fp(0.025), SymbolRateTBaud: fp(0.032)}},
		{"non-positive span length", SimConfig{SpanKm: fp(0)}},
		{"negative loss", SimConfig{LossDBPerKm: fp(-0.2)}},
		{"negative gamma", SimConfig{GammaPerWKm: fp(-1)}},
		{"zero spans", SimConfig{SpanCount: intp(0)}},
		{"non-positive n_grid", SimConfig{NGrid: intp(0)}},
		{"n_grid_min not below n_grid", SimConfig{NGrid: intp(8), NGridMin: intp(8)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Error(t, tc.cfg.Validate())
		})
	}
}

func TestDefaultConfigFileMatchesAccessors(t *testing.T) {
	t.Parallel()

	// The checked-in defaults file must agree with the accessor fallbacks,
	// otherwise file-driven and flag-driven runs diverge.
	cfg := MustLoadDefaultConfig()
	empty := EmptySimConfig()

	assert.Equal(t, empty.GetChannelCount(), cfg.GetChannelCount())
	assert.InDelta(t, empty.GetSpacingTHz(), cfg.GetSpacingTHz(), 1e-12)
	assert.InDelta(t, empty.GetSymbolRateTBaud(), cfg.GetSymbolRateTBaud(), 1e-12)
	assert.InDelta(t, empty.GetRollOff(), cfg.GetRollOff(), 1e-12)
	assert.InDelta(t, empty.GetLaunchPowerDBm(), cfg.GetLaunchPowerDBm(), 1e-12)
	assert.InDelta(t, empty.GetBeta2PsTHzKm(), cfg.GetBeta2PsTHzKm(), 1e-12)
	assert.InDelta(t, empty.GetSpanKm(), cfg.GetSpanKm(), 1e-12)
	assert.InDelta(t, empty.GetLossDBPerKm(), cfg.GetLossDBPerKm(), 1e-12)
	assert.InDelta(t, empty.GetGammaPerWKm(), cfg.GetGammaPerWKm(), 1e-12)
	assert.Equal(t, empty.GetSpanCount(), cfg.GetSpanCount())
	assert.InDelta(t, empty.GetNoiseFigureDB(), cfg.GetNoiseFigureDB(), 1e-12)
	assert.InDelta(t, empty.GetRequiredSNRdB(), cfg.GetRequiredSNRdB(), 1e-12)
	assert.InDelta(t, empty.GetMinFWMInvDB(), cfg.GetMinFWMInvDB(), 1e-12)
	assert.Equal(t, empty.GetNGrid(), cfg.GetNGrid())
	assert.Equal(t, empty.GetNGridMin(), cfg.GetNGridMin())
}

func TestMaterialisers(t *testing.T) {
	t.Parallel()

	intp := func(v int) *int { return &v }
	fp := func(v float64) *float64 { return &v }
	cfg := SimConfig{
		ChannelCount:   intp(5),
		LaunchPowerDBm: fp(3.0103), // 2 mW
		SpanCount:      intp(4),
	}

	comb := cfg.Comb()
	require.Len(t, comb.Channels, 5)
	assert.InDelta(t, 2e-3, comb.Channels[0].PowerW, 1e-8)

	l := cfg.Link()
	assert.Equal(t, 4, l.SpanCount)
	assert.InDelta(t, 20.0, l.Amplifier.GainDB, 1e-12)
	require.NoError(t, l.Validate())

	p := cfg.Params(comb)
	assert.Len(t, p.EvalFrequencies, 5)
	assert.Equal(t, 500, p.NGrid)
}
