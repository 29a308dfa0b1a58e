/*
 * grid.go, part of goNMR.
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
	"runtime"
	"sync"
)

// GridSearch evaluates f on the full regular grid spanned by lower, upper and the
// per-dimension increment counts inc (inc[i] points along dimension i, endpoints
// included; inc[i] = 1 pins the dimension at lower[i]) and returns the best point
// found. workers <= 0 means one goroutine per CPU. cancel may be nil; when it returns
// true the search stops early and the best point seen so far is returned with the
// Cancelled status.
//
// The objective must be safe for concurrent calls; each worker sweeps a disjoint
// chunk of the flattened grid index space.
func GridSearch(f Objective, lower, upper []float64, inc []int, workers int, cancel func() bool) (*Result, error) {
	n := len(lower)
	if n == 0 {
		return nil, fmt.Errorf("goNMR/minimise.GridSearch: empty bounds")
	}
	if len(upper) != n || len(inc) != n {
		return nil, fmt.Errorf("goNMR/minimise.GridSearch: bounds and increments disagree: %d, %d, %d", n, len(upper), len(inc))
	}
	total := 1
	for i, k := range inc {
		if k < 1 {
			return nil, fmt.Errorf("goNMR/minimise.GridSearch: increment %d is %d, want >= 1", i, k)
		}
		if upper[i] < lower[i] {
			return nil, fmt.Errorf("goNMR/minimise.GridSearch: dimension %d has upper %v below lower %v", i, upper[i], lower[i])
		}
		total *= k
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > total {
		workers = total
	}

	type best struct {
		f float64
		x []float64
		n int //points actually evaluated
	}
	results := make([]best, workers)
	var wg sync.WaitGroup
	chunk := (total + workers - 1) / workers
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			lo, hi := w*chunk, (w+1)*chunk
			if hi > total {
				hi = total
			}
			x := make([]float64, n)
			b := best{f: math.Inf(1), x: make([]float64, n)}
			for idx := lo; idx < hi; idx++ {
				if cancel != nil && cancel() {
					break
				}
				gridPoint(idx, lower, upper, inc, x)
				fx := f(x)
				b.n++
				if fx < b.f {
					b.f = fx
					copy(b.x, x)
				}
			}
			results[w] = b
		}(w)
	}
	wg.Wait()

	res := &Result{X: make([]float64, n), F: math.Inf(1), Status: Converged}
	for _, b := range results {
		res.FuncEvals += b.n
		if b.f < res.F {
			res.F = b.f
			copy(res.X, b.x)
		}
	}
	if res.FuncEvals < total {
		res.Status = Cancelled
	}
	res.Iter = res.FuncEvals
	return res, nil
}

// gridPoint decodes flat index idx into grid coordinates, the first dimension varying
// fastest.
func gridPoint(idx int, lower, upper []float64, inc []int, dst []float64) {
	for i := range dst {
		k := inc[i]
		j := idx % k
		idx /= k
		if k == 1 {
			dst[i] = lower[i]
			continue
		}
		dst[i] = lower[i] + float64(j)*(upper[i]-lower[i])/float64(k-1)
	}
}
