/*
 * multipliers.go, part of goNMR.
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
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Constraints holds linear inequality constraints A*x >= b.
type Constraints struct {
	A *mat.Dense
	B []float64
}

// BoundConstraints builds the A*x >= b system encoding lower <= x <= upper. An
// infinite bound drops the corresponding row.
func BoundConstraints(lower, upper []float64) (*Constraints, error) {
	n := len(lower)
	if len(upper) != n {
		return nil, fmt.Errorf("goNMR/minimise.BoundConstraints: %d lower but %d upper bounds", n, len(upper))
	}
	var rows []float64
	var b []float64
	for i := 0; i < n; i++ {
		if !math.IsInf(lower[i], -1) {
			row := make([]float64, n)
			row[i] = 1.0
			rows = append(rows, row...)
			b = append(b, lower[i])
		}
		if !math.IsInf(upper[i], 1) {
			row := make([]float64, n)
			row[i] = -1.0
			rows = append(rows, row...)
			b = append(b, -upper[i])
		}
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("goNMR/minimise.BoundConstraints: all bounds infinite, nothing to constrain")
	}
	return &Constraints{A: mat.NewDense(len(b), n, rows), B: b}, nil
}

// NConstraints returns the number of constraint rows.
func (c *Constraints) NConstraints() int {
	r, _ := c.A.Dims()
	return r
}

// values fills dst with A*x - b, the signed margin of each constraint.
func (c *Constraints) values(dst, x []float64) {
	r, n := c.A.Dims()
	for i := 0; i < r; i++ {
		s := 0.0
		for j := 0; j < n; j++ {
			s += c.A.At(i, j) * x[j]
		}
		dst[i] = s - c.B[i]
	}
}

// Multipliers minimises f subject to cons by the Method of Multipliers: an augmented
// Lagrangian is minimised without constraints by the given algorithm, then the
// Lagrange multipliers are updated, the penalty tightened, and the cycle repeats
// until the multiplier update stops moving the solution. grad applies to f alone; the
// penalty terms are differentiated analytically and added on top (with the numeric
// fallback used throughout when grad is nil).
func Multipliers(f Objective, grad Gradient, x0 []float64, cons *Constraints, alg Algorithm, opts *Options) (*Result, error) {
	if cons == nil || cons.A == nil {
		return nil, fmt.Errorf("goNMR/minimise.Multipliers: nil constraints")
	}
	r, nc := cons.A.Dims()
	if nc != len(x0) {
		return nil, fmt.Errorf("goNMR/minimise.Multipliers: constraint matrix has %d columns for a %d-vector", nc, len(x0))
	}
	o := copyOpts(opts)
	lambda := make([]float64, r)
	margin := make([]float64, r)
	mu := 1.0
	x := make([]float64, len(x0))
	copy(x, x0)

	//psi(c) per Bertsekas: quadratic near the boundary, flat once the constraint is
	//comfortably inactive.
	augmented := func(xs []float64) float64 {
		v := f(xs)
		cons.values(margin, xs)
		for i, c := range margin {
			if c <= mu*lambda[i] {
				v += -lambda[i]*c + c*c/(2.0*mu)
			} else {
				v += -mu * lambda[i] * lambda[i] / 2.0
			}
		}
		return v
	}
	var augGrad Gradient
	if grad != nil {
		augGrad = func(dst, xs []float64) {
			grad(dst, xs)
			cons.values(margin, xs)
			for i, c := range margin {
				if c <= mu*lambda[i] {
					coef := -lambda[i] + c/mu
					for j := range dst {
						dst[j] += coef * cons.A.At(i, j)
					}
				}
			}
		}
	}

	total := &Result{X: x}
	inner := copyOpts(o)
	inner.MaxIter = o.MaxIter / o.OuterIter
	if inner.MaxIter < 1000 {
		inner.MaxIter = 1000
	}
	for outer := 0; outer < o.OuterIter; outer++ {
		if o.Cancel != nil && o.Cancel() {
			total.Status = Cancelled
			break
		}
		res, err := Minimise(augmented, augGrad, x, alg, inner)
		if err != nil {
			return nil, err
		}
		total.Iter += res.Iter
		total.FuncEvals += res.FuncEvals
		total.GradEvals += res.GradEvals
		total.Status = res.Status
		moved := 0.0
		for i := range x {
			moved += (res.X[i] - x[i]) * (res.X[i] - x[i])
		}
		copy(x, res.X)
		//multiplier update: lambda <- max(lambda - c/mu, 0)
		cons.values(margin, x)
		for i := range lambda {
			lambda[i] = math.Max(lambda[i]-margin[i]/mu, 0)
		}
		mu *= 0.25
		if outer > 0 && moved <= 1e-20 {
			break
		}
	}
	total.F = f(x)
	total.FuncEvals++
	return total, nil
}
