package spectrum

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Arange returns the half-open range [start, stop) in increments of step,
// matching numpy.arange semantics for positive steps.
func Arange(start, stop, step float64) []float64 {
	if step <= 0 || stop <= start {
		return nil
	}
	n := int(math.Ceil((stop - start) / step))
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

// Linspace returns n evenly spaced points spanning [start, stop].
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{start}
	}
	return floats.Span(make([]float64, n), start, stop)
}

// NonuniformGrid builds the frequency array used for fast GN-model
// integration: a dense window [denseLow, denseUp] sampled at dfDense, flanked
// by two log-spaced wings out to +/-fmax. The wing step ratio is derived from
// the overall optical bandwidth bopt and the maximum allowed step so that
// spacing grows geometrically away from the dense region.
//
// f is the frequency the NLI is being evaluated at; its sign selects which
// wing carries the finer start, mirroring the asymmetry of the integrand.
func NonuniformGrid(f, bopt, fmax, maxStep, denseLow, denseUp, dfDense float64) []float64 {
	fDense := Arange(denseLow, denseUp, dfDense)
	k := bopt / 2 / (bopt/2 - maxStep)

	var out []float64
	if f < 0 {
		nShort := int(math.Ceil(math.Log(fmax/math.Abs(denseLow))/math.Log(k) + 1))
		short := make([]float64, 0, nShort)
		for i := nShort; i >= 1; i-- {
			short = append(short, -math.Abs(denseLow)*math.Pow(k, float64(i-1)))
		}
		k = (bopt/2 + (math.Abs(denseUp) - denseLow)) / (bopt/2 - maxStep + (math.Abs(denseUp) - denseUp))
		nLong := int(math.Ceil(math.Log((fmax+(math.Abs(denseUp)-denseUp))/math.Abs(denseUp))/math.Log(k) + 1))
		long := make([]float64, 0, nLong)
		for i := 1; i <= nLong; i++ {
			long = append(long, math.Abs(denseUp)*math.Pow(k, float64(i-1))-(math.Abs(denseUp)-denseUp))
		}
		out = append(out, short...)
		if len(fDense) > 1 {
			out = append(out, fDense[1:]...)
		}
		out = append(out, long...)
	} else {
		nShort := int(math.Ceil(math.Log(fmax/math.Abs(denseUp))/math.Log(k) + 1))
		short := make([]float64, 0, nShort)
		for i := 1; i <= nShort; i++ {
			short = append(short, denseUp*math.Pow(k, float64(i-1)))
		}
		k = (bopt/2 + (math.Abs(denseLow) + denseLow)) / (bopt/2 - maxStep + (math.Abs(denseLow) + denseLow))
		nLong := int(math.Ceil(math.Log((fmax+(math.Abs(denseLow)+denseLow))/math.Abs(denseLow))/math.Log(k) + 1))
		long := make([]float64, 0, nLong)
		for i := nLong; i >= 1; i-- {
			long = append(long, -math.Abs(denseLow)*math.Pow(k, float64(i-1))+(math.Abs(denseLow)+denseLow))
		}
		out = append(out, long...)
		if len(fDense) > 1 {
			out = append(out, fDense[1:]...)
		}
		out = append(out, short...)
	}
	return out
}
