// Package spectrum models the transmitted WDM comb and the frequency grids
// the GN integral is evaluated on. Frequencies are baseband THz, centred on
// the comb; symbol rates are TBaud; powers are Watts.
package spectrum

import "math"

// Channel describes one carrier of the WDM comb.
type Channel struct {
	// CenterTHz is the channel centre frequency relative to the comb centre.
	CenterTHz float64
	// SymbolRateTBaud is the channel symbol rate.
	SymbolRateTBaud float64
	// RollOff is the raised-cosine roll-off factor in [0,1).
	RollOff float64
	// PowerW is the channel launch power in Watts.
	PowerW float64
}

// Comb is an ordered set of channels, lowest centre frequency first.
type Comb struct {
	Channels []Channel
}

// UniformComb builds an n-channel comb on a uniform grid with identical
// per-channel parameters. The comb is centred on zero: an odd channel count
// puts a channel at DC, an even count straddles it.
func UniformComb(n int, spacingTHz, symbolRateTBaud, rollOff, powerW float64) Comb {
	chs := make([]Channel, n)
	for i := 0; i < n; i++ {
		var center float64
		if n%2 == 1 {
			center = (float64(i) - math.Floor(float64(n)/2)) * spacingTHz
		} else {
			center = (float64(i) - float64(n)/2 + 0.5) * spacingTHz
		}
		chs[i] = Channel{
			CenterTHz:       center,
			SymbolRateTBaud: symbolRateTBaud,
			RollOff:         rollOff,
			PowerW:          powerW,
		}
	}
	return Comb{Channels: chs}
}

// PSD evaluates the comb power spectral density (W/THz) at the given
// frequency points. Each channel contributes a raised-cosine shape of height
// power/symbolRate; a zero roll-off degenerates to an ideal rectangle.
func (c Comb) PSD(f []float64) []float64 {
	psd := make([]float64, len(f))
	for _, ch := range c.Channels {
		ts := 1 / ch.SymbolRateTBaud
		passband := (1 - ch.RollOff) / (2 * ts)
		stopband := (1 + ch.RollOff) / (2 * ts)
		g := ch.PowerW / ch.SymbolRateTBaud
		for i, fi := range f {
			ff := math.Abs(fi - ch.CenterTHz)
			tf := ff - passband
			if ch.RollOff == 0 {
				if tf <= 0 {
					psd[i] += g
				}
				continue
			}
			switch {
			case tf <= 0:
				psd[i] += g
			case ff <= stopband:
				psd[i] += g * 0.5 * (1 + math.Cos(math.Pi*ts/ch.RollOff*tf))
			}
		}
	}
	return psd
}

// PSDAt evaluates the comb PSD at a single frequency.
func (c Comb) PSDAt(f float64) float64 {
	return c.PSD([]float64{f})[0]
}

// CenterFrequencies returns the channel centre frequencies in comb order.
func (c Comb) CenterFrequencies() []float64 {
	out := make([]float64, len(c.Channels))
	for i, ch := range c.Channels {
		out[i] = ch.CenterTHz
	}
	return out
}

// MaxSpacing returns the largest gap between adjacent channel centres.
// Returns 0 for combs of fewer than two channels.
func (c Comb) MaxSpacing() float64 {
	max := 0.0
	for i := 1; i < len(c.Channels); i++ {
		if d := c.Channels[i].CenterTHz - c.Channels[i-1].CenterTHz; d > max {
			max = d
		}
	}
	return max
}

// BandLimit returns the one-sided extent of the comb spectrum: the distance
// between the lower band edge of the first channel and the upper band edge of
// the last. It bounds the GN integration domain.
func (c Comb) BandLimit() float64 {
	if len(c.Channels) == 0 {
		return 0
	}
	first := c.Channels[0]
	last := c.Channels[len(c.Channels)-1]
	return (last.CenterTHz - last.SymbolRateTBaud/2) - (first.CenterTHz - first.SymbolRateTBaud/2)
}

// TotalPowerW returns the aggregate launch power of the comb.
func (c Comb) TotalPowerW() float64 {
	sum := 0.0
	for _, ch := range c.Channels {
		sum += ch.PowerW
	}
	return sum
}
