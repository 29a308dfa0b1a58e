/*
 * steppers.go, part of goNMR.
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

package minimise

import "gonum.org/v1/gonum/floats"

// steepest is the trivial StepComputer: the direction is minus the gradient.
type steepest struct{}

func (s *steepest) Reset(n int)                              {}
func (s *steepest) Direction(dst, g []float64)               { negate(dst, g) }
func (s *steepest) Observe(xOld, xNew, gOld, gNew []float64) {}

// cgVariant computes the conjugate gradient beta from the new and old gradients.
type cgVariant func(g, gOld []float64) float64

// betaFR is the Fletcher-Reeves formula |g|^2 / |gOld|^2.
func betaFR(g, gOld []float64) float64 {
	denom := floats.Dot(gOld, gOld)
	if denom == 0 {
		return 0
	}
	return floats.Dot(g, g) / denom
}

// betaPRPlus is the Polak-Ribiere formula clipped at zero, which amounts to an
// automatic restart whenever consecutive gradients stop being conjugate.
func betaPRPlus(g, gOld []float64) float64 {
	denom := floats.Dot(gOld, gOld)
	if denom == 0 {
		return 0
	}
	beta := (floats.Dot(g, g) - floats.Dot(g, gOld)) / denom
	if beta < 0 {
		return 0
	}
	return beta
}

// conjGrad keeps the previous gradient and direction and mixes them with the
// variant's beta.
type conjGrad struct {
	variant cgVariant
	gOld    []float64
	dirOld  []float64
	first   bool
}

func (c *conjGrad) Reset(n int) {
	c.gOld = make([]float64, n)
	c.dirOld = make([]float64, n)
	c.first = true
}

func (c *conjGrad) Direction(dst, g []float64) {
	if c.first {
		negate(dst, g)
		copy(c.dirOld, dst)
		c.first = false
		return
	}
	beta := c.variant(g, c.gOld)
	for i := range dst {
		dst[i] = -g[i] + beta*c.dirOld[i]
	}
	copy(c.dirOld, dst)
}

func (c *conjGrad) Observe(xOld, xNew, gOld, gNew []float64) {
	copy(c.gOld, gNew)
}

func negate(dst, g []float64) {
	for i := range dst {
		dst[i] = -g[i]
	}
}
