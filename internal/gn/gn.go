// Package gn implements the Gaussian Noise model of nonlinear propagation in
// uncompensated coherent optical links. The reference formula is applied in
// its incoherent form (phased-array factor = 1) and evaluated by smart
// brute-force double integration over a non-uniform frequency grid.
package gn

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/integrate"

	"github.com/telecominfraproject/gnmodel/internal/spectrum"
	"github.com/telecominfraproject/gnmodel/internal/units"
)

// Fiber carries the per-span fibre characteristics the GN integral needs.
type Fiber struct {
	// Beta2PsTHzKm is the absolute dispersion coefficient in ps/THz/km.
	Beta2PsTHzKm float64
	// SpanKm is the span length in km.
	SpanKm float64
	// LossDBPerKm is the loss coefficient in dB/km.
	LossDBPerKm float64
	// GammaPerWKm is the nonlinear coefficient in 1/W/km.
	GammaPerWKm float64
}

// Params tunes the accuracy of the integration.
type Params struct {
	// MinFWMInvDB is the smallest inverse FWM efficiency, in dB, still
	// covered by the dense integration window. Larger values widen the
	// window and slow the integral down.
	MinFWMInvDB float64
	// NGrid is the maximum number of integration points per frequency slot.
	NGrid int
	// NGridMin is the minimum number of integration points per frequency slot.
	NGridMin int
	// EvalFrequencies lists the baseband frequencies (THz) the NLI PSD is
	// evaluated at.
	EvalFrequencies []float64
}

// DefaultParams returns the reference accuracy settings with the NLI
// evaluated at every channel centre of the comb.
func DefaultParams(comb spectrum.Comb) Params {
	return Params{
		MinFWMInvDB:     30,
		NGrid:           500,
		NGridMin:        4,
		EvalFrequencies: comb.CenterFrequencies(),
	}
}

func (p Params) validate() error {
	if p.NGrid <= 0 || p.NGridMin <= 0 {
		return fmt.Errorf("grid sizes must be positive, got n_grid=%d n_grid_min=%d", p.NGrid, p.NGridMin)
	}
	if p.NGridMin >= p.NGrid {
		return fmt.Errorf("n_grid_min (%d) must be smaller than n_grid (%d)", p.NGridMin, p.NGrid)
	}
	if len(p.EvalFrequencies) == 0 {
		return fmt.Errorf("no evaluation frequencies")
	}
	return nil
}

// FWMEfficiency computes the four-wave mixing efficiency of a span for each
// frequency product in ff (THz^2). alphaLin is the field attenuation in 1/km,
// spanKm the span length and beta2 the dispersion in ps/THz/km.
func FWMEfficiency(alphaLin, spanKm, beta2 float64, ff []float64) []float64 {
	rho := make([]float64, len(ff))
	for i, f := range ff {
		num := 1 - cmplx.Exp(complex(-2*alphaLin*spanKm, 4*math.Pi*math.Pi*beta2*spanKm*f))
		den := complex(2*alphaLin, -4*math.Pi*math.Pi*beta2*f)
		m := cmplx.Abs(num / den)
		rho[i] = m * m
	}
	return rho
}

// Integral evaluates the incoherent GN reference formula for one span and
// returns the NLI power spectral density (W/THz) at p.EvalFrequencies.
//
// The double integral is computed by columns: for every f1 point of an outer
// non-uniform grid, a dense inner f2 window is centred on the hyperbola where
// the FWM efficiency is still significant, the integrand G(f1)G(f2)G(f3) is
// accumulated by trapezoids over the f2 >= f1 half plane (with a factor 2 for
// symmetry), and the outer trapezoid sum is scaled by 16/27 gamma^2. Nominal
// span loss is assumed exactly compensated by the line amplifier.
func Integral(fiber Fiber, comb spectrum.Comb, p Params) ([]float64, error) {
	if len(comb.Channels) < 2 {
		return nil, fmt.Errorf("comb must have at least 2 channels, got %d", len(comb.Channels))
	}
	if err := p.validate(); err != nil {
		return nil, err
	}

	alphaLin := units.FieldAttenuation(fiber.LossDBPerKm)
	minFWMInv := math.Pow(10, p.MinFWMInvDB/10)
	b2 := fiber.Beta2PsTHzKm

	fmax := comb.BandLimit()
	f2eval := comb.MaxSpacing()
	bopt := f2eval * float64(len(comb.Channels))
	minStep := f2eval / float64(p.NGrid)
	maxStep := f2eval / float64(p.NGridMin)

	// Half width of the dense window: where the inverse FWM efficiency
	// crosses the configured threshold.
	denseHalf := math.Abs(math.Sqrt(alphaLin*alphaLin/(4*math.Pow(math.Pi, 4)*b2*b2)*(minFWMInv-1)) / f2eval)

	gnli := make([]float64, len(p.EvalFrequencies))
	for idx, f := range p.EvalFrequencies {
		denseLow := f - denseHalf
		denseUp := f + denseHalf
		if denseLow < -fmax {
			denseLow = -fmax
		}
		if denseLow == 0 {
			denseLow = -minStep
		}
		if denseUp == 0 {
			denseUp = minStep
		}
		if denseUp > fmax {
			denseUp = fmax
		}
		denseWidth := math.Abs(denseUp - denseLow)
		df := denseWidth / math.Ceil(denseWidth/minStep)

		f1Array := spectrum.NonuniformGrid(f, bopt, fmax, maxStep, denseLow, denseUp, df)
		if len(f1Array) < 2 {
			return nil, fmt.Errorf("degenerate integration grid at f=%g THz", f)
		}
		g1 := comb.PSD(f1Array)
		gpart := make([]float64, len(f1Array))

		for i, f1 := range f1Array {
			var f2Low, f2Up float64
			if f1 != f {
				fLim := math.Sqrt(alphaLin*alphaLin/(4*math.Pow(math.Pi, 4)*b2*b2)*(minFWMInv-1))/(f1-f) + f
				f2Up = math.Max(fLim, -fLim)
				f2Low = math.Min(fLim, -fLim)
				if f2Low == 0 {
					f2Low = -minStep
				}
				if f2Up == 0 {
					f2Up = minStep
				}
				if f2Low < -fmax {
					f2Low = -fmax
				}
				if f2Up > fmax {
					f2Up = fmax
				}
			} else {
				f2Up = fmax
				f2Low = -fmax
			}
			f2Width := math.Abs(f2Up - f2Low)
			df2 := f2Width / math.Ceil(f2Width/minStep)

			f2Array := spectrum.NonuniformGrid(f, bopt, fmax, maxStep, f2Low, f2Up, df2)
			// Keep the f2 >= f1 half plane only; the other half is covered
			// by the symmetry factor below.
			kept := f2Array[:0]
			for _, f2 := range f2Array {
				if f2 >= f1 {
					kept = append(kept, f2)
				}
			}
			f2Array = kept
			if len(f2Array) < 2 {
				continue
			}

			g2 := comb.PSD(f2Array)
			f3Array := make([]float64, len(f2Array))
			for j, f2 := range f2Array {
				f3Array[j] = f1 + f2 - f
			}
			g3 := comb.PSD(f3Array)

			integrand := make([]float64, len(f2Array))
			nonzero := false
			for j := range f2Array {
				integrand[j] = g2[j] * g3[j] * g1[i]
				if integrand[j] != 0 {
					nonzero = true
				}
			}
			if !nonzero {
				continue
			}

			ff := make([]float64, len(f2Array))
			for j, f2 := range f2Array {
				ff[j] = (f1 - f) * (f2 - f)
			}
			rho := FWMEfficiency(alphaLin, fiber.SpanKm, b2, ff)
			for j := range integrand {
				integrand[j] *= rho[j]
			}
			gpart[i] = 2 * integrate.Trapezoidal(f2Array, integrand)
		}

		gnli[idx] = 16.0 / 27.0 * fiber.GammaPerWKm * fiber.GammaPerWKm * integrate.Trapezoidal(f1Array, gpart)
	}
	return gnli, nil
}
