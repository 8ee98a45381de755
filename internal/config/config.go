// Package config loads and validates simulation configuration files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/telecominfraproject/gnmodel/internal/gn"
	"github.com/telecominfraproject/gnmodel/internal/link"
	"github.com/telecominfraproject/gnmodel/internal/spectrum"
	"github.com/telecominfraproject/gnmodel/internal/units"
)

// DefaultConfigPath is the path to the canonical simulation defaults file.
// This is the single source of truth for all default simulation values.
const DefaultConfigPath = "config/sim.defaults.json"

// SimConfig describes one simulation: the WDM comb, the fibre plant and the
// model accuracy knobs. All fields are optional; omitted fields fall back to
// the reference scenario (95 x 50 GHz comb over 100 km SSMF spans), so
// partial configs are safe. The schema matches the /api/runs request body so
// the same JSON drives both CLIs and the API.
type SimConfig struct {
	// Comb params
	ChannelCount    *int     `json:"channel_count,omitempty"`
	SpacingTHz      *float64 `json:"spacing_thz,omitempty"`
	SymbolRateTBaud *float64 `json:"symbol_rate_tbaud,omitempty"`
	RollOff         *float64 `json:"roll_off,omitempty"`
	LaunchPowerDBm  *float64 `json:"launch_power_dbm,omitempty"`

	// Fibre params
	Beta2PsTHzKm *float64 `json:"beta2_ps_thz_km,omitempty"`
	SpanKm       *float64 `json:"span_km,omitempty"`
	LossDBPerKm  *float64 `json:"loss_db_per_km,omitempty"`
	GammaPerWKm  *float64 `json:"gamma_per_w_km,omitempty"`

	// Link params
	SpanCount     *int     `json:"span_count,omitempty"`
	NoiseFigureDB *float64 `json:"noise_figure_db,omitempty"`
	RequiredSNRdB *float64 `json:"required_snr_db,omitempty"`

	// Model accuracy params
	MinFWMInvDB *float64 `json:"min_fwm_inv_db,omitempty"`
	NGrid       *int     `json:"n_grid,omitempty"`
	NGridMin    *int     `json:"n_grid_min,omitempty"`
}

// EmptySimConfig returns a SimConfig with all fields set to nil.
// Use LoadSimConfig to load actual values from a file.
func EmptySimConfig() *SimConfig {
	return &SimConfig{}
}

// LoadSimConfig loads a SimConfig from a JSON file. The file must have a
// .json extension and stay under the max file size. Fields omitted from the
// JSON retain their default values.
func LoadSimConfig(path string) (*SimConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptySimConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent
// directories. Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *SimConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/config/
		"../../../" + DefaultConfigPath,
		"../../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadSimConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *SimConfig) Validate() error {
	if c.ChannelCount != nil && *c.ChannelCount < 2 {
		return fmt.Errorf("channel_count must be at least 2, got %d", *c.ChannelCount)
	}
	if c.SpacingTHz != nil && *c.SpacingTHz <= 0 {
		return fmt.Errorf("spacing_thz must be positive, got %f", *c.SpacingTHz)
	}
	if c.SymbolRateTBaud != nil && *c.SymbolRateTBaud <= 0 {
		return fmt.Errorf("symbol_rate_tbaud must be positive, got %f", *c.SymbolRateTBaud)
	}
	if c.RollOff != nil {
		if *c.RollOff < 0 || *c.RollOff >= 1 {
			return fmt.Errorf("roll_off must be in [0,1), got %f", *c.RollOff)
		}
	}
	if c.SpacingTHz != nil && c.SymbolRateTBaud != nil && *c.SymbolRateTBaud > *c.SpacingTHz {
		return fmt.Errorf("symbol_rate_tbaud %f exceeds spacing_thz %f", *c.SymbolRateTBaud, *c.SpacingTHz)
	}
	if c.SpanKm != nil && *c.SpanKm <= 0 {
		return fmt.Errorf("span_km must be positive, got %f", *c.SpanKm)
	}
	if c.LossDBPerKm != nil && *c.LossDBPerKm < 0 {
		return fmt.Errorf("loss_db_per_km must be non-negative, got %f", *c.LossDBPerKm)
	}
	if c.GammaPerWKm != nil && *c.GammaPerWKm < 0 {
		return fmt.Errorf("gamma_per_w_km must be non-negative, got %f", *c.GammaPerWKm)
	}
	if c.SpanCount != nil && *c.SpanCount < 1 {
		return fmt.Errorf("span_count must be at least 1, got %d", *c.SpanCount)
	}
	if c.NGrid != nil && *c.NGrid <= 0 {
		return fmt.Errorf("n_grid must be positive, got %d", *c.NGrid)
	}
	if c.NGridMin != nil && *c.NGridMin <= 0 {
		return fmt.Errorf("n_grid_min must be positive, got %d", *c.NGridMin)
	}
	if c.NGrid != nil && c.NGridMin != nil && *c.NGridMin >= *c.NGrid {
		return fmt.Errorf("n_grid_min %d must be smaller than n_grid %d", *c.NGridMin, *c.NGrid)
	}
	return nil
}

// GetChannelCount returns the channel_count value or the default.
func (c *SimConfig) GetChannelCount() int {
	if c.ChannelCount == nil {
		return 95
	}
	return *c.ChannelCount
}

// GetSpacingTHz returns the spacing_thz value or the default (50 GHz grid).
func (c *SimConfig) GetSpacingTHz() float64 {
	if c.SpacingTHz == nil {
		return 0.05
	}
	return *c.SpacingTHz
}

// GetSymbolRateTBaud returns the symbol_rate_tbaud value or the default.
func (c *SimConfig) GetSymbolRateTBaud() float64 {
	if c.SymbolRateTBaud == nil {
		return 0.032
	}
	return *c.SymbolRateTBaud
}

// GetRollOff returns the roll_off value or the default.
func (c *SimConfig) GetRollOff() float64 {
	if c.RollOff == nil {
		return 0.05
	}
	return *c.RollOff
}

// GetLaunchPowerDBm returns the launch_power_dbm value or the default (1 mW).
func (c *SimConfig) GetLaunchPowerDBm() float64 {
	if c.LaunchPowerDBm == nil {
		return 0
	}
	return *c.LaunchPowerDBm
}

// GetBeta2PsTHzKm returns the beta2_ps_thz_km value or the SSMF default.
func (c *SimConfig) GetBeta2PsTHzKm() float64 {
	if c.Beta2PsTHzKm == nil {
		return 21.27
	}
	return *c.Beta2PsTHzKm
}

// GetSpanKm returns the span_km value or the default.
func (c *SimConfig) GetSpanKm() float64 {
	if c.SpanKm == nil {
		return 100
	}
	return *c.SpanKm
}

// GetLossDBPerKm returns the loss_db_per_km value or the SSMF default.
func (c *SimConfig) GetLossDBPerKm() float64 {
	if c.LossDBPerKm == nil {
		return 0.2
	}
	return *c.LossDBPerKm
}

// GetGammaPerWKm returns the gamma_per_w_km value or the SSMF default.
func (c *SimConfig) GetGammaPerWKm() float64 {
	if c.GammaPerWKm == nil {
		return 1.27
	}
	return *c.GammaPerWKm
}

// GetSpanCount returns the span_count value or the default.
func (c *SimConfig) GetSpanCount() int {
	if c.SpanCount == nil {
		return 1
	}
	return *c.SpanCount
}

// GetNoiseFigureDB returns the noise_figure_db value or the default.
func (c *SimConfig) GetNoiseFigureDB() float64 {
	if c.NoiseFigureDB == nil {
		return 5.5
	}
	return *c.NoiseFigureDB
}

// GetRequiredSNRdB returns the required_snr_db value or the PM-QPSK default.
func (c *SimConfig) GetRequiredSNRdB() float64 {
	if c.RequiredSNRdB == nil {
		return 12.0
	}
	return *c.RequiredSNRdB
}

// GetMinFWMInvDB returns the min_fwm_inv_db value or the default.
func (c *SimConfig) GetMinFWMInvDB() float64 {
	if c.MinFWMInvDB == nil {
		return 30.0
	}
	return *c.MinFWMInvDB
}

// GetNGrid returns the n_grid value or the default.
func (c *SimConfig) GetNGrid() int {
	if c.NGrid == nil {
		return 500
	}
	return *c.NGrid
}

// GetNGridMin returns the n_grid_min value or the default.
func (c *SimConfig) GetNGridMin() int {
	if c.NGridMin == nil {
		return 4
	}
	return *c.NGridMin
}

// Comb materialises the WDM comb the config describes.
func (c *SimConfig) Comb() spectrum.Comb {
	return spectrum.UniformComb(
		c.GetChannelCount(),
		c.GetSpacingTHz(),
		c.GetSymbolRateTBaud(),
		c.GetRollOff(),
		units.DBmToWatt(c.GetLaunchPowerDBm()),
	)
}

// Fiber materialises the fibre parameters the config describes.
func (c *SimConfig) Fiber() gn.Fiber {
	return gn.Fiber{
		Beta2PsTHzKm: c.GetBeta2PsTHzKm(),
		SpanKm:       c.GetSpanKm(),
		LossDBPerKm:  c.GetLossDBPerKm(),
		GammaPerWKm:  c.GetGammaPerWKm(),
	}
}

// Link materialises the transparent link the config describes.
func (c *SimConfig) Link() link.Link {
	return link.TransparentLink(c.Fiber(), c.GetNoiseFigureDB(), c.GetSpanCount())
}

// Params materialises the accuracy settings for the given comb.
func (c *SimConfig) Params(comb spectrum.Comb) gn.Params {
	return gn.Params{
		MinFWMInvDB:     c.GetMinFWMInvDB(),
		NGrid:           c.GetNGrid(),
		NGridMin:        c.GetNGridMin(),
		EvalFrequencies: comb.CenterFrequencies(),
	}
}
