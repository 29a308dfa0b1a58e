/*
 * analytic.go, part of goNMR.
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

import "math"

//The closed-form CPMG models. Every kernel degenerates exactly to the baseline rate
//when the exchange contribution vanishes (dw or phi_ex zero, pA one, kex zero); the
//guards below make that limit exact rather than approximate.

// NoRex back-calculates the no-exchange model: a flat curve at the baseline rate r20.
func NoRex(r20 float64, backCalc []float64) {
	for i := range backCalc {
		backCalc[i] = r20
	}
}

// LM63 back-calculates the Luz and Meiboom (1963) 2-site fast exchange model:
//
//	R2eff = R20 + phi_ex/kex * (1 - 4*nu/kex * tanh(kex/(4*nu)))
//
// phi_ex = pA*pB*dw^2 in (rad/s)^2, cpmgFrqs in Hz.
func LM63(r20, phiEx, kex float64, cpmgFrqs, backCalc []float64) {
	if phiEx == 0 || kex == 0 {
		NoRex(r20, backCalc)
		return
	}
	rex := phiEx / kex
	for i, nu := range cpmgFrqs {
		kt := kex / (4.0 * nu)
		backCalc[i] = r20 + rex*(1.0-math.Tanh(kt)/kt)
	}
	finitise(backCalc)
}

// CR72 back-calculates the Carver and Richards (1972) 2-site model for all time
// scales:
//
//	R2eff = (R20A + R20B + kex)/2 - nu * acosh(Dpos*cosh(etapos) - Dneg*cos(etaneg))
//
// dw in rad/s, cpmgFrqs in Hz. Conditions where the acosh argument drops below one
// back-calculate the Huge sentinel.
func CR72(r20a, r20b, pA, dw, kex float64, cpmgFrqs, backCalc []float64) {
	if dw == 0 || pA == 1 || kex == 0 {
		NoRex(r20a, backCalc)
		return
	}
	pB := 1.0 - pA
	kBA := pA * kex
	kAB := pB * kex
	r20kex := (r20a + r20b + kex) / 2.0
	fact := r20a - r20b - kBA + kAB
	psi := fact*fact - dw*dw + 4.0*pA*pB*kex*kex
	zeta := 2.0 * dw * fact
	sq := math.Sqrt(psi*psi + zeta*zeta)
	dPart := (psi + 2.0*dw*dw) / sq
	dPos := 0.5 * (1.0 + dPart)
	dNeg := -0.5 * (1.0 - dPart)
	etaScale := math.Pow(2.0, -1.5)
	for i, nu := range cpmgFrqs {
		etaPos := etaScale * math.Sqrt(psi+sq) / nu
		etaNeg := etaScale * math.Sqrt(-psi+sq) / nu
		//cosh overflows for slow pulsing; acosh(Dpos*cosh(x)) tends to x + ln(Dpos)
		//there, with the cos term vanishing in comparison.
		if etaPos > 30 {
			backCalc[i] = r20kex - nu*(etaPos+math.Log(dPos))
			continue
		}
		arg := dPos*math.Cosh(etaPos) - dNeg*math.Cos(etaNeg)
		if arg < 1.0 || math.IsNaN(arg) {
			backCalc[i] = Huge
			continue
		}
		backCalc[i] = r20kex - nu*math.Acosh(arg)
		if math.IsNaN(backCalc[i]) || math.IsInf(backCalc[i], 0) {
			backCalc[i] = Huge
		}
	}
}

// IT99 back-calculates the Ishima and Torchia (1999) 2-site model for skewed
// populations (pA >> pB):
//
//	R2eff = R20 + phi_ex*tex / (1 + omega_a^2*tex^2)
//
// with omega_a^2 = sqrt(padw2^2 + omega_1eff^4) and omega_1eff = 4*sqrt(3)*nu.
// phi_ex = pA*pB*dw^2 and padw2 = pA*dw^2, both in (rad/s)^2; tex = 1/kex in s.
func IT99(r20, phiEx, padw2, tex float64, cpmgFrqs, backCalc []float64) {
	if phiEx == 0 || tex == 0 {
		NoRex(r20, backCalc)
		return
	}
	pa2dw4 := padw2 * padw2
	for i, nu := range cpmgFrqs {
		omega1eff := 4.0 * math.Sqrt(3.0) * nu
		omegaA2 := math.Sqrt(pa2dw4 + omega1eff*omega1eff*omega1eff*omega1eff)
		backCalc[i] = r20 + phiEx*tex/(1.0+omegaA2*tex*tex)
	}
	finitise(backCalc)
}

// TSMFK01 back-calculates the Tollinger et al. (2001) 2-site slow exchange model:
//
//	R2eff = R20A + k_AB - k_AB * sin(dw*tcp) / (dw*tcp)
//
// with tcp = 1/(4*nu) the inter-pulse delay. dw in rad/s, cpmgFrqs in Hz. The sinc
// limit makes dw = 0 degenerate to R20A + 0 exactly (k_AB itself vanishes when pA = 1
// or kex = 0).
func TSMFK01(r20a, dw, kAB float64, cpmgFrqs, backCalc []float64) {
	if kAB == 0 {
		NoRex(r20a, backCalc)
		return
	}
	for i, nu := range cpmgFrqs {
		tcp := 0.25 / nu
		sinc := 1.0
		if dw != 0 {
			sinc = math.Sin(dw*tcp) / (dw * tcp)
		}
		backCalc[i] = r20a + kAB - kAB*sinc
	}
	finitise(backCalc)
}

//The closed-form R1rho models. Spin-lock fields in rad/s.

// M61 back-calculates the Meiboom (1961) on-resonance fast exchange model:
//
//	R1rho = R1rho' + phi_ex*kex / (kex^2 + omega1^2)
//
// phi_ex in (rad/s)^2, spinLock (omega1) in rad/s.
func M61(r1rhoPrime, phiEx, kex float64, spinLock, backCalc []float64) {
	if phiEx == 0 || kex == 0 {
		NoRex(r1rhoPrime, backCalc)
		return
	}
	for i, w1 := range spinLock {
		backCalc[i] = r1rhoPrime + phiEx*kex/(kex*kex+w1*w1)
	}
	finitise(backCalc)
}

// DPL94 back-calculates the Davis, Perlman and London (1994) off-resonance extension
// of M61:
//
//	R1rho = cos^2(theta)*R1 + sin^2(theta)*(R1rho' + phi_ex*kex/(kex^2 + omega_eff^2))
//
// where theta = atan2(omega1, delta) is the rotating-frame tilt angle, delta the
// offset of the spin-lock carrier from the spin (rad/s) and omega_eff^2 =
// delta^2 + omega1^2.
func DPL94(r1, r1rhoPrime, phiEx, kex, delta float64, spinLock, backCalc []float64) {
	for i, w1 := range spinLock {
		theta := math.Atan2(w1, delta)
		sin2 := math.Sin(theta) * math.Sin(theta)
		cos2 := 1.0 - sin2
		rex := 0.0
		if phiEx != 0 && kex != 0 {
			weff2 := delta*delta + w1*w1
			rex = phiEx * kex / (kex*kex + weff2)
		}
		backCalc[i] = cos2*r1 + sin2*(r1rhoPrime+rex)
	}
	finitise(backCalc)
}

// M61b back-calculates the Meiboom (1961) on-resonance model for skewed populations
// (pA >> pB):
//
//	R1rho = R1rho' + pA^2*pB*dw^2*kex / (kex^2 + pA^2*dw^2 + omega1^2)
//
// dw in rad/s, spinLock in rad/s.
func M61b(r1rhoPrime, pA, dw, kex float64, spinLock, backCalc []float64) {
	if dw == 0 || pA == 1 || kex == 0 {
		NoRex(r1rhoPrime, backCalc)
		return
	}
	pB := 1.0 - pA
	numer := pA * pA * pB * dw * dw * kex
	pa2dw2 := pA * pA * dw * dw
	for i, w1 := range spinLock {
		backCalc[i] = r1rhoPrime + numer/(kex*kex+pa2dw2+w1*w1)
	}
	finitise(backCalc)
}

// finitise replaces non-finite back-calculated rates with the Huge sentinel.
func finitise(backCalc []float64) {
	for i, v := range backCalc {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			backCalc[i] = Huge
		}
	}
}
