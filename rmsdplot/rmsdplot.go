// Package rmsdplot renders pairwise RMSD matrices as heat maps. The block
// structure of such a plot is indicative of sets of similar conformations,
// and the presence or lack of off-diagonal peaks hints at the sampling
// quality of a simulation.
package rmsdplot

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/dbarriga/rmsds"
)

// grid adapts a DistMatrix to the plotter.GridXYZ interface, with frame
// indexes on both axes.
type grid struct {
	m *rmsds.DistMatrix
}

func (g grid) Dims() (int, int)   { n := g.m.Len(); return n, n }
func (g grid) Z(c, r int) float64 { return g.m.At(r, c) }
func (g grid) X(c int) float64    { return float64(c) }
func (g grid) Y(r int) float64    { return float64(r) }

// HeatMap builds a heat-map plot of m with the given title.
func HeatMap(m *rmsds.DistMatrix, title string) *plot.Plot {
	h := plotter.NewHeatMap(grid{m: m}, palette.Heat(12, 1))
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "frame"
	p.Y.Label.Text = "frame"
	p.Add(h)
	return p
}

// PNG renders the heat map of m to the named PNG file.
func PNG(m *rmsds.DistMatrix, title, filename string) error {
	return HeatMap(m, title).Save(14*vg.Centimeter, 14*vg.Centimeter, filename)
}
