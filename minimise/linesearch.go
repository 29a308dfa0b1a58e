/*
 * linesearch.go, part of goNMR.
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

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

//The strong Wolfe line search of Nocedal and Wright (algorithms 3.5 and 3.6):
//bracket a step interval satisfying the sufficient-decrease condition, then zoom
//with cubic-flavoured bisection until the curvature condition holds too.

const (
	lsMaxBracket = 50
	lsMaxZoom    = 50
	lsGrow       = 2.0
)

// wolfe searches along dir from x for a step satisfying the strong Wolfe conditions
// with constants o.Mu and o.Eta, starting from trial step o.A0. On success it leaves
// the accepted point in xNew, its gradient in gNew, and returns the step length, the
// new function value and true. A non-finite or sentinel-sized objective value is
// treated as a too-long step and the bracket shrinks toward x.
func wolfe(fc *evalCounter, x, dir []float64, f0 float64, g0, xNew, gNew []float64, o *Options) (float64, float64, bool) {
	d0 := floats.Dot(g0, dir)
	if d0 >= 0 {
		return 0, f0, false
	}
	phi := func(a float64) (float64, float64) {
		for i := range x {
			xNew[i] = x[i] + a*dir[i]
		}
		f := fc.eval(xNew)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return f, math.NaN()
		}
		fc.gradient(gNew, xNew)
		return f, floats.Dot(gNew, dir)
	}

	aPrev, fPrev := 0.0, f0
	a := o.A0
	for i := 0; i < lsMaxBracket; i++ {
		f, d := phi(a)
		if math.IsNaN(f) || math.IsInf(f, 0) || f >= 1e98 {
			//too far out, pull the trial step in and treat the interval as a bracket
			a = 0.5 * (aPrev + a)
			continue
		}
		if f > f0+o.Mu*a*d0 || (i > 0 && f >= fPrev) {
			return zoom(phi, aPrev, a, fPrev, f0, d0, o)
		}
		if math.Abs(d) <= -o.Eta*d0 {
			return a, f, true
		}
		if d >= 0 {
			return zoom(phi, a, aPrev, f, f0, d0, o)
		}
		aPrev, fPrev = a, f
		a *= lsGrow
	}
	return 0, f0, false
}

// zoom narrows [aLo, aHi] (fLo = phi(aLo) is the best sufficient-decrease point so
// far) until a strong Wolfe point appears or the interval degenerates.
func zoom(phi func(float64) (float64, float64), aLo, aHi, fLo, f0, d0 float64, o *Options) (float64, float64, bool) {
	for i := 0; i < lsMaxZoom; i++ {
		a := 0.5 * (aLo + aHi)
		if a == aLo || a == aHi {
			break
		}
		f, d := phi(a)
		if math.IsNaN(f) || math.IsInf(f, 0) || f >= 1e98 {
			aHi = a
			continue
		}
		if f > f0+o.Mu*a*d0 || f >= fLo {
			aHi = a
			continue
		}
		if math.Abs(d) <= -o.Eta*d0 {
			return a, f, true
		}
		if d*(aHi-aLo) >= 0 {
			aHi = aLo
		}
		aLo, fLo = a, f
	}
	//the interval collapsed; accept the best sufficient-decrease point if it actually
	//improved, re-evaluating to leave xNew and gNew consistent.
	if aLo > 0 && fLo < f0 {
		f, _ := phi(aLo)
		return aLo, f, true
	}
	return 0, f0, false
}
