/*
 * options.go, part of goNMR.
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

// Options configures a minimisation run. The zero value is not useful; start from
// DefaultOptions and override.
type Options struct {
	//FuncTol terminates the run when |f_k - f_k+1| <= FuncTol * max(1, |f_k|).
	FuncTol float64
	//GradTol terminates the run when the Euclidean gradient norm drops below it.
	//Zero disables the test.
	GradTol float64
	//MaxIter caps the number of iterations.
	MaxIter int
	//A0 is the initial step length handed to the line search at each iteration.
	A0 float64
	//Mu and Eta are the Wolfe sufficient-decrease and curvature constants,
	//0 < Mu < Eta < 1.
	Mu, Eta float64
	//GradStep is the relative step of the central-difference gradient used when no
	//analytic gradient is supplied. The absolute step for coordinate i is
	//GradStep * max(1, |x_i|), the usual compromise between truncation and
	//round-off error.
	GradStep float64
	//SimplexScale is the relative displacement used to build the initial simplex.
	SimplexScale float64
	//Cancel, when non-nil, is polled at every iteration (and at every replicate or
	//grid-point boundary in batch drivers). Returning true stops the run with the
	//Cancelled status.
	Cancel func() bool
	//OuterIter caps the outer iterations of the Method of Multipliers.
	OuterIter int
}

// DefaultOptions returns the default configuration: the very tight function tolerance
// the dispersion fits use, a practically unlimited iteration budget, and the standard
// Wolfe constants.
func DefaultOptions() *Options {
	return &Options{
		FuncTol:      1e-25,
		GradTol:      1e-10,
		MaxIter:      1e7,
		A0:           1.0,
		Mu:           1e-4,
		Eta:          0.1,
		GradStep:     1e-7,
		SimplexScale: 0.05,
		OuterIter:    25,
	}
}

// copyOpts returns a private copy so a driver can tweak fields without surprising the
// caller.
func copyOpts(o *Options) *Options {
	if o == nil {
		return DefaultOptions()
	}
	c := *o
	return &c
}
