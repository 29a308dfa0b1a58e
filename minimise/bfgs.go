/*
 * bfgs.go, part of goNMR.
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
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// bfgs maintains the dense inverse-Hessian approximation H and serves -H*g as the
// search direction. The update is the standard one,
//
//	H <- (I - rho*s*y^T) H (I - rho*y*s^T) + rho*s*s^T, rho = 1/(y^T s)
//
// skipped whenever y^T s is too small to trust.
type bfgs struct {
	h     *mat.Dense
	s, y  []float64
	tmp   *mat.Dense
	first bool
}

func newBFGS() *bfgs {
	return &bfgs{}
}

func (b *bfgs) Reset(n int) {
	b.h = eyeDense(n)
	b.tmp = mat.NewDense(n, n, nil)
	b.s = make([]float64, n)
	b.y = make([]float64, n)
	b.first = true
}

func (b *bfgs) Direction(dst, g []float64) {
	n := len(g)
	gv := mat.NewVecDense(n, g)
	dv := mat.NewVecDense(n, dst)
	dv.MulVec(b.h, gv)
	negate(dst, dst)
}

func (b *bfgs) Observe(xOld, xNew, gOld, gNew []float64) {
	n := len(xOld)
	for i := range b.s {
		b.s[i] = xNew[i] - xOld[i]
		b.y[i] = gNew[i] - gOld[i]
	}
	ys := floats.Dot(b.y, b.s)
	if ys <= 1e-10*floats.Norm(b.y, 2)*floats.Norm(b.s, 2) {
		return //curvature too weak, keep the current estimate
	}
	rho := 1.0 / ys
	if b.first {
		//scale the initial identity so the first real update is sensible
		//(Nocedal and Wright eq. 6.20)
		scale := ys / floats.Dot(b.y, b.y)
		b.h.Scale(scale, b.h)
		b.first = false
	}
	sv := mat.NewVecDense(n, b.s)
	yv := mat.NewVecDense(n, b.y)
	//a = I - rho*s*y^T
	a := mat.NewDense(n, n, nil)
	a.Outer(-rho, sv, yv)
	for i := 0; i < n; i++ {
		a.Set(i, i, a.At(i, i)+1.0)
	}
	b.tmp.Mul(a, b.h)
	b.h.Mul(b.tmp, a.T())
	b.tmp.Outer(rho, sv, sv)
	b.h.Add(b.h, b.tmp)
}

func eyeDense(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1.0)
	}
	return m
}
