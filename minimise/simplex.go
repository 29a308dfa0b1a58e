/*
 * simplex.go, part of goNMR.
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
	"sort"
)

//Nelder-Mead with the standard coefficients: reflection 1, expansion 2,
//contraction 0.5, shrink 0.5.

// Simplex minimises f from x0 with the derivative-free Nelder-Mead algorithm. The
// initial simplex displaces each coordinate by Options.SimplexScale relative to its
// starting value (absolutely, when the value is zero). Convergence is judged on the
// function-value spread across the simplex against Options.FuncTol. opts may be nil.
func Simplex(f Objective, x0 []float64, opts *Options) (*Result, error) {
	if f == nil {
		return nil, fmt.Errorf("goNMR/minimise.Simplex: nil objective")
	}
	if len(x0) == 0 {
		return nil, fmt.Errorf("goNMR/minimise.Simplex: empty starting vector")
	}
	o := copyOpts(opts)
	n := len(x0)
	res := &Result{X: make([]float64, n)}
	fc := &evalCounter{f: f, res: res}

	//n+1 vertices
	verts := make([][]float64, n+1)
	fv := make([]float64, n+1)
	for i := range verts {
		verts[i] = make([]float64, n)
		copy(verts[i], x0)
		if i > 0 {
			j := i - 1
			h := o.SimplexScale * math.Abs(x0[j])
			if h == 0 {
				h = o.SimplexScale
			}
			verts[i][j] += h
		}
		fv[i] = fc.eval(verts[i])
	}

	order := make([]int, n+1)
	centroid := make([]float64, n)
	trial := make([]float64, n)
	trial2 := make([]float64, n)

	res.Status = MaxIter //overwritten by every other way out of the loop
	for res.Iter = 0; res.Iter < o.MaxIter; res.Iter++ {
		if o.Cancel != nil && o.Cancel() {
			res.Status = Cancelled
			break
		}
		for i := range order {
			order[i] = i
		}
		sort.Slice(order, func(a, b int) bool { return fv[order[a]] < fv[order[b]] })
		best, worst := order[0], order[n]
		if math.Abs(fv[worst]-fv[best]) <= o.FuncTol*math.Max(1.0, math.Abs(fv[best])) {
			res.Status = Converged
			break
		}
		//centroid of all but the worst vertex
		for j := range centroid {
			centroid[j] = 0
		}
		for _, i := range order[:n] {
			for j := range centroid {
				centroid[j] += verts[i][j]
			}
		}
		for j := range centroid {
			centroid[j] /= float64(n)
		}

		reflect := func(coef float64, dst []float64) float64 {
			for j := range dst {
				dst[j] = centroid[j] + coef*(centroid[j]-verts[worst][j])
			}
			return fc.eval(dst)
		}

		fr := reflect(1.0, trial)
		switch {
		case fr < fv[best]:
			fe := reflect(2.0, trial2)
			if fe < fr {
				copy(verts[worst], trial2)
				fv[worst] = fe
			} else {
				copy(verts[worst], trial)
				fv[worst] = fr
			}
		case fr < fv[order[n-1]]:
			copy(verts[worst], trial)
			fv[worst] = fr
		default:
			fcv := reflect(-0.5, trial2)
			if fcv < fv[worst] && fcv < fr {
				copy(verts[worst], trial2)
				fv[worst] = fcv
			} else {
				//shrink toward the best vertex
				for _, i := range order[1:] {
					for j := range verts[i] {
						verts[i][j] = verts[best][j] + 0.5*(verts[i][j]-verts[best][j])
					}
					fv[i] = fc.eval(verts[i])
				}
			}
		}
	}
	best := 0
	for i, v := range fv {
		if v < fv[best] {
			best = i
		}
	}
	copy(res.X, verts[best])
	res.F = fv[best]
	return res, nil
}
