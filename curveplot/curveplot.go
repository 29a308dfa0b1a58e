/*
 * curveplot.go, part of goNMR.
 *
 * Copyright 2016 The goNMR developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package curveplot renders dispersion curves: the measured points of one spin at one
// field with their error bars, overlaid with the back-calculated curve of a fit.
package curveplot

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"nmr"
	"nmr/target"
)

// errPoints feeds the scatter and error-bar plotters from one slice of data.
type errPoints struct {
	plotter.XYs
	plotter.YErrors
}

// Dispersion writes a plot of the measured and back-calculated curve of one spin at
// one field to fname, the image format taken from the extension (png, pdf, svg and
// the other formats gonum/plot writes). Missing points are left out. params is the
// fitted parameter vector of the objective.
func Dispersion(obj *target.Dispersion, params []float64, spin, field int, fname string) error {
	cluster := obj.Cluster()
	if spin < 0 || spin >= cluster.NSpins() {
		return nmr.BadParam("curveplot.Dispersion", "spin", spin, "no such spin in the cluster")
	}
	if field < 0 || field >= cluster.NFields() {
		return nmr.BadParam("curveplot.Dispersion", "field", field, "no such field in the cluster")
	}
	cond := obj.Conditions()
	axis := cond.CpmgFrqs
	xLabel, yLabel := "CPMG pulsing frequency (Hz)", "R2eff (1/s)"
	if cond.Experiment == nmr.R1rho {
		axis = cond.SpinLock
		xLabel, yLabel = "spin-lock field (Hz)", "R1rho (1/s)"
	}

	sp := cluster.Spins[spin]
	var meas errPoints
	for p, v := range sp.Values[field] {
		if sp.Missing[field][p] {
			continue
		}
		e := sp.Errors[field][p]
		meas.XYs = append(meas.XYs, plotter.XY{X: axis[p], Y: v})
		meas.YErrors = append(meas.YErrors, struct{ Low, High float64 }{e, e})
	}

	back := obj.BackCalc(params, spin, field)
	line := make(plotter.XYs, len(axis))
	for p := range axis {
		line[p] = plotter.XY{X: axis[p], Y: back[p]}
	}

	pl := plot.New()
	pl.Title.Text = sp.Name + " (" + obj.Model().String() + ")"
	pl.X.Label.Text = xLabel
	pl.Y.Label.Text = yLabel

	scatter, err := plotter.NewScatter(meas)
	if err != nil {
		return err
	}
	scatter.GlyphStyle.Color = color.RGBA{B: 255, A: 255}
	bars, err := plotter.NewYErrorBars(meas)
	if err != nil {
		return err
	}
	fit, err := plotter.NewLine(line)
	if err != nil {
		return err
	}
	fit.LineStyle.Color = color.RGBA{R: 200, A: 255}

	pl.Add(plotter.NewGrid(), scatter, bars, fit)
	pl.Legend.Add("measured", scatter)
	pl.Legend.Add("fit", fit)
	return pl.Save(6*vg.Inch, 4*vg.Inch, fname)
}
