/*
 * nsr1rho.go, part of goNMR.
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

package dispersion

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// NSR1rho2site back-calculates R1rho with the numerical 2-site Bloch-McConnell
// solution in the full 3D basis (x, y, z magnetization per site).
//
// For each spin-lock field the 6x6 generator combines transverse relaxation
// (r1rhoPrime), longitudinal relaxation (r1), chemical shift evolution of both sites
// in the rotating frame, the spin-lock field itself and the exchange rates kAB/kBA.
// The initial magnetization is the equilibrium-weighted state (pA in site A, pB in
// site B) tilted into the effective frame (sin(theta) on x, cos(theta) on z, theta =
// atan2(omega1, dA)), propagated through exp(R*T) and projected back onto itself, and
// the effective rate is the two-point mono-exponential estimate -ln(M)/T.
// Non-positive or non-finite projections give the Huge sentinel. The degenerate
// dw = 0, pA = 1 and kex = 0 limits short-circuit to the exact tilted-frame baseline
// cos^2(theta)*R1 + sin^2(theta)*R1rho'.
//
// omega is the chemical shift position of the spin and offset the spin-lock carrier,
// both in rad/s; dw in rad/s; spinLock (omega1) in rad/s; relaxT in s.
func NSR1rho2site(r1, r1rhoPrime, pA, dw, kex, omega, offset, relaxT float64, spinLock, backCalc []float64) {
	dA := omega - offset
	if dw == 0 || pA == 1 || kex == 0 {
		//The exact no-exchange baseline in the tilted frame.
		for i, w1 := range spinLock {
			theta := math.Atan2(w1, dA)
			sin2 := math.Sin(theta) * math.Sin(theta)
			backCalc[i] = (1.0-sin2)*r1 + sin2*r1rhoPrime
		}
		return
	}
	pB := 1.0 - pA
	kAB := pB * kex
	kBA := pA * kex
	dB := dA + dw
	r := mat.NewDense(6, 6, nil)
	m0 := make([]float64, 6)
	evolved := mat.NewVecDense(6, nil)
	for i, w1 := range spinLock {
		//The generator, row by row: site A x/y/z then site B x/y/z.
		r.SetRow(0, []float64{-r1rhoPrime - kAB, -dA, 0, kBA, 0, 0})
		r.SetRow(1, []float64{dA, -r1rhoPrime - kAB, -w1, 0, kBA, 0})
		r.SetRow(2, []float64{0, w1, -r1 - kAB, 0, 0, kBA})
		r.SetRow(3, []float64{kAB, 0, 0, -r1rhoPrime - kBA, -dB, 0})
		r.SetRow(4, []float64{0, kAB, 0, dB, -r1rhoPrime - kBA, -w1})
		r.SetRow(5, []float64{0, 0, kAB, 0, w1, -r1 - kBA})
		r.Scale(relaxT, r)
		prop := Expm(r)

		theta := math.Atan2(w1, dA)
		//Equilibrium-weighted initial state, tilted into the effective frame.
		m0[0] = pA * math.Sin(theta) //site A x, along the spin-lock
		m0[2] = pA * math.Cos(theta) //site A z
		m0[3] = pB * math.Sin(theta)
		m0[5] = pB * math.Cos(theta)
		m0v := mat.NewVecDense(6, m0)
		evolved.MulVec(prop, m0v)
		ma := mat.Dot(m0v, evolved) / mat.Dot(m0v, m0v)
		if ma <= 0 || math.IsNaN(ma) {
			backCalc[i] = Huge
			continue
		}
		backCalc[i] = -math.Log(ma) / relaxT
	}
}
