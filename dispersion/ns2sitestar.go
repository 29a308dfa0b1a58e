/*
 * ns2sitestar.go, part of goNMR.
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
	"math/cmplx"
)

// cmat2 is a complex 2x2 matrix stored row-major as four scalars.
type cmat2 struct {
	a, b, c, d complex128
}

func (m cmat2) mul(o cmat2) cmat2 {
	return cmat2{
		a: m.a*o.a + m.b*o.c,
		b: m.a*o.b + m.b*o.d,
		c: m.c*o.a + m.d*o.c,
		d: m.c*o.b + m.d*o.d,
	}
}

func (m cmat2) conj() cmat2 {
	return cmat2{cmplx.Conj(m.a), cmplx.Conj(m.b), cmplx.Conj(m.c), cmplx.Conj(m.d)}
}

// pow raises the matrix to the non-negative integer power n by binary exponentiation.
func (m cmat2) pow(n int) cmat2 {
	ret := cmat2{1, 0, 0, 1}
	base := m
	for n > 0 {
		if n&1 == 1 {
			ret = ret.mul(base)
		}
		base = base.mul(base)
		n >>= 1
	}
	return ret
}

func (m cmat2) expm() cmat2 {
	ea, eb, ec, ed := Expm2x2(m.a, m.b, m.c, m.d)
	return cmat2{ea, eb, ec, ed}
}

// NS2siteStar back-calculates R2eff with the numerical 2-site Bloch-McConnell
// solution for CPMG data using complex conjugate 2x2 matrices (the star method).
//
// The evolution matrix couples relaxation, exchange and the chemical shift of the
// minor state:
//
//	R = | -R20A - kAB         kBA            |
//	    |  kAB           -R20B - kBA - i*dw  |
//
// Free precession over the inter-pulse delay tcp = 1/(4*nu) alternates with the
// conjugate evolution produced by the refocusing pulses, giving the full-cycle
// propagator conj(E)*E*E*conj(E). The propagator is applied round(T*nu) times to the
// equilibrium magnetization (pA, pB), and the effective rate is backed out as
// -ln(Mx/pA)/T. Non-positive or non-finite observables give the Huge sentinel.
//
// dw in rad/s, cpmgFrqs in Hz, relaxT in s.
func NS2siteStar(r20a, r20b, pA, dw, kex, relaxT float64, cpmgFrqs, backCalc []float64) {
	if dw == 0 || pA == 1 || kex == 0 {
		NoRex(r20a, backCalc)
		return
	}
	pB := 1.0 - pA
	kAB := pB * kex
	kBA := pA * kex
	r := cmat2{
		a: complex(-r20a-kAB, 0),
		b: complex(kBA, 0),
		c: complex(kAB, 0),
		d: complex(-r20b-kBA, -dw),
	}
	for i, nu := range cpmgFrqs {
		tcp := 0.25 / nu
		scaled := cmat2{r.a * complex(tcp, 0), r.b * complex(tcp, 0), r.c * complex(tcp, 0), r.d * complex(tcp, 0)}
		e := scaled.expm()
		ec := scaled.conj().expm()
		//One full cycle covers four delays: tcp - 180 - 2*tcp - 180 - tcp.
		prop := ec.mul(e).mul(e.mul(ec))
		power := int(math.Round(relaxT * nu))
		if power < 1 {
			power = 1
		}
		total := prop.pow(power)
		mx := real(total.a*complex(pA, 0) + total.b*complex(pB, 0))
		mx /= pA
		if mx <= 0 || math.IsNaN(mx) {
			backCalc[i] = Huge
			continue
		}
		backCalc[i] = -math.Log(mx) / relaxT
	}
}
