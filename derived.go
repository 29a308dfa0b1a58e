/*
 * derived.go, part of goNMR.
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

package nmr

import "math"

//Derived kinetic quantities are computed eagerly when the primary parameters are set,
//by plain function calls. There is no attribute interception and no lazy recomputation:
//a Kinetics value is immutable once built, and rebuilding it is cheap enough to do on
//every objective evaluation.

// Kinetics bundles the quantities derived from the 2-site primary parameters pA and
// kex. The invariants pA + pB = 1, kAB = pB*kex and kBA = pA*kex hold by construction.
type Kinetics struct {
	PA, PB   float64
	Kex      float64
	KAB, KBA float64 //forward (A->B) and backward (B->A) rate constants in 1/s
}

// NewKinetics derives the dependent exchange quantities from the population of state A
// and the exchange rate kex = kAB + kBA.
func NewKinetics(pA, kex float64) Kinetics {
	pB := 1.0 - pA
	return Kinetics{
		PA:  pA,
		PB:  pB,
		Kex: kex,
		KAB: pB * kex,
		KBA: pA * kex,
	}
}

// PPMToRad converts a chemical shift difference from ppm to rad/s. frq is the Larmor
// frequency factor of the spin at the given field, in 2*pi*MHz (i.e. sfrq*2*pi/1e6).
func PPMToRad(dw, frq float64) float64 {
	return dw * frq
}

// PPM2ToRad2 converts a phi_ex-type quantity from ppm^2 to (rad/s)^2.
func PPM2ToRad2(phi, frq float64) float64 {
	return phi * frq * frq
}

// LarmorFactor returns the ppm conversion factor (2*pi*MHz) for a spectrometer
// operating at sfrq Hz.
func LarmorFactor(sfrq float64) float64 {
	return sfrq * 2.0 * math.Pi / 1e6
}
