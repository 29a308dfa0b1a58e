/*
 * matexp.go, part of goNMR.
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

	"gonum.org/v1/gonum/mat"
)

// Expm computes the matrix exponential of the square matrix a by scaling and squaring
// with a diagonal Pade approximant of order 6. The accuracy is well inside float64
// round-off for the small (6x6) exchange generators this library builds, over the full
// physiological range of rates: the generator is pre-scaled so its norm is at most 1/2
// before the rational approximation is evaluated. Returns a freshly allocated matrix.
func Expm(a *mat.Dense) *mat.Dense {
	n, c := a.Dims()
	if n != c {
		panic("goNMR/dispersion.Expm: matrix must be square")
	}
	//Scaling: bring the infinity norm down to <= 0.5.
	norm := infNorm(a)
	s := 0
	if norm > 0.5 {
		s = int(math.Ceil(math.Log2(norm / 0.5)))
	}
	scaled := mat.NewDense(n, n, nil)
	scaled.Scale(math.Ldexp(1.0, -s), a)

	//Diagonal Pade approximant of order 6: N(A)/D(A) with
	//c_k = c_{k-1} * (q-k+1) / (k*(2q-k+1)), q = 6.
	const q = 6
	ck := 1.0
	num := eye(n) //N accumulates  sum c_k A^k
	den := eye(n) //D accumulates  sum (-1)^k c_k A^k
	pow := eye(n) //A^k
	tmp := mat.NewDense(n, n, nil)
	for k := 1; k <= q; k++ {
		ck = ck * float64(q-k+1) / float64(k*(2*q-k+1))
		tmp.Mul(pow, scaled)
		pow.Copy(tmp)
		tmp.Scale(ck, pow)
		num.Add(num, tmp)
		if k%2 == 0 {
			den.Add(den, tmp)
		} else {
			den.Sub(den, tmp)
		}
	}
	ret := mat.NewDense(n, n, nil)
	if err := ret.Solve(den, num); err != nil {
		//A singular denominator means the generator itself is degenerate; the
		//caller's sentinel policy will absorb the resulting non-finite rates.
		ret.Zero()
		for i := 0; i < n; i++ {
			ret.Set(i, i, math.NaN())
		}
		return ret
	}
	//Undo the scaling by repeated squaring.
	for i := 0; i < s; i++ {
		tmp.Mul(ret, ret)
		ret.Copy(tmp)
	}
	return ret
}

func eye(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1.0)
	}
	return m
}

func infNorm(a *mat.Dense) float64 {
	n, c := a.Dims()
	var norm float64
	for i := 0; i < n; i++ {
		var row float64
		for j := 0; j < c; j++ {
			row += math.Abs(a.At(i, j))
		}
		if row > norm {
			norm = row
		}
	}
	return norm
}

// Expm2x2 computes the exponential of the complex 2x2 matrix {a, b; c, d} in closed
// form. With mu = tr/2 and delta^2 = (a-d)^2/4 + b*c,
//
//	exp(M) = exp(mu) * (cosh(delta)*I + sinh(delta)/delta * (M - mu*I))
//
// where sinh(delta)/delta is taken as 1 in the defective delta -> 0 limit. The result
// is returned row-major.
func Expm2x2(a, b, c, d complex128) (ea, eb, ec, ed complex128) {
	mu := (a + d) / 2.0
	delta := cmplx.Sqrt((a-d)*(a-d)/4.0 + b*c)
	var ch, shd complex128 //cosh(delta), sinh(delta)/delta
	if cmplx.Abs(delta) < 1e-30 {
		ch = 1.0
		shd = 1.0
	} else {
		ch = cmplx.Cosh(delta)
		shd = cmplx.Sinh(delta) / delta
	}
	emu := cmplx.Exp(mu)
	ea = emu * (ch + shd*(a-mu))
	eb = emu * shd * b
	ec = emu * shd * c
	ed = emu * (ch + shd*(d-mu))
	return ea, eb, ec, ed
}
