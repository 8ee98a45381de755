// Package plotting renders PNG figures of simulation results with gonum/plot.
package plotting

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/telecominfraproject/gnmodel/internal/spectrum"
)

// psdFloor keeps log10 finite between channels where the PSD is zero.
const psdFloor = 1e-6

// SpectrumPNG draws the WDM comb PSD with the computed NLI overlaid as
// markers at the evaluation frequencies, both in dB(W/THz), and saves the
// figure to path.
func SpectrumPNG(comb spectrum.Comb, evalFreqs, nliPSD []float64, path string) error {
	if len(evalFreqs) != len(nliPSD) {
		return fmt.Errorf("mismatched lengths: %d eval frequencies, %d NLI values", len(evalFreqs), len(nliPSD))
	}
	centers := comb.CenterFrequencies()
	if len(centers) == 0 {
		return fmt.Errorf("empty comb")
	}

	fGrid := spectrum.Linspace(centers[0], centers[len(centers)-1], 1000)
	psd := comb.PSD(fGrid)

	p := plot.New()
	p.Title.Text = "WDM comb and nonlinear interference"
	p.X.Label.Text = "f [THz]"
	p.Y.Label.Text = "PSD [dB(W/THz)]"

	combPts := make(plotter.XYs, len(fGrid))
	for i := range fGrid {
		combPts[i] = plotter.XY{X: fGrid[i], Y: 10 * math.Log10(psd[i]+psdFloor)}
	}
	combLine, err := plotter.NewLine(combPts)
	if err != nil {
		return fmt.Errorf("comb line: %w", err)
	}
	combLine.Color = color.RGBA{B: 255, A: 255}
	combLine.Width = vg.Points(1)
	p.Add(combLine)
	p.Legend.Add("WDM comb", combLine)

	nliPts := make(plotter.XYs, 0, len(evalFreqs))
	for i := range evalFreqs {
		if nliPSD[i] <= 0 {
			continue
		}
		nliPts = append(nliPts, plotter.XY{X: evalFreqs[i], Y: 10 * math.Log10(nliPSD[i])})
	}
	if len(nliPts) > 0 {
		nliScatter, err := plotter.NewScatter(nliPts)
		if err != nil {
			return fmt.Errorf("nli scatter: %w", err)
		}
		nliScatter.Color = color.RGBA{R: 255, A: 255}
		nliScatter.Radius = vg.Points(3)
		p.Add(nliScatter)
		p.Legend.Add("GNLI", nliScatter)
	}

	p.Legend.Top = true
	p.Legend.Left = true

	if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save spectrum plot: %w", err)
	}
	return nil
}

// SweepPNG draws a launch-power sweep: worst-channel GSNR (dB) against
// per-channel launch power (dBm), with the optimum marked.
func SweepPNG(powerDBm, gsnrDB []float64, path string) error {
	if len(powerDBm) != len(gsnrDB) {
		return fmt.Errorf("mismatched lengths: %d powers, %d GSNR values", len(powerDBm), len(gsnrDB))
	}
	if len(powerDBm) == 0 {
		return fmt.Errorf("empty sweep")
	}

	p := plot.New()
	p.Title.Text = "Launch power sweep"
	p.X.Label.Text = "launch power [dBm]"
	p.Y.Label.Text = "worst-channel GSNR [dB]"

	pts := make(plotter.XYs, len(powerDBm))
	bestIdx := 0
	for i := range powerDBm {
		pts[i] = plotter.XY{X: powerDBm[i], Y: gsnrDB[i]}
		if gsnrDB[i] > gsnrDB[bestIdx] {
			bestIdx = i
		}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("sweep line: %w", err)
	}
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add("GSNR", line)

	best, err := plotter.NewScatter(plotter.XYs{pts[bestIdx]})
	if err != nil {
		return fmt.Errorf("optimum marker: %w", err)
	}
	best.Color = color.RGBA{R: 255, A: 255}
	best.Radius = vg.Points(4)
	p.Add(best)
	p.Legend.Add(fmt.Sprintf("optimum %.1f dBm", powerDBm[bestIdx]), best)

	p.Legend.Top = true
	p.Legend.Left = true

	if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save sweep plot: %w", err)
	}
	return nil
}
