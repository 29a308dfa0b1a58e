/*
 * driver.go, part of goNMR.
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

	"gonum.org/v1/gonum/floats"
)

// Objective is a scalar function of a parameter vector. Implementations must not
// retain or modify the slice.
type Objective func(x []float64) float64

// Gradient fills dst with the gradient of the objective at x. dst and x have the same
// length.
type Gradient func(dst, x []float64)

// Status tags the way a run ended. A non-converged status is a report, not an error.
type Status int

const (
	//Converged means the relative change in the function value dropped below FuncTol.
	Converged Status = iota
	//GradConverged means the gradient norm dropped below GradTol.
	GradConverged
	//MaxIter means the iteration budget ran out first.
	MaxIter
	//LineSearchFailed means no Wolfe point could be bracketed along the current
	//direction, usually because the objective is returning sentinel values or the
	//minimum has been reached to machine precision.
	LineSearchFailed
	//Cancelled means the Cancel hook asked the run to stop.
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Converged:
		return "converged"
	case GradConverged:
		return "gradient converged"
	case MaxIter:
		return "maximum iterations reached"
	case LineSearchFailed:
		return "line search failed"
	case Cancelled:
		return "cancelled"
	}
	return fmt.Sprintf("unknown status %d", int(s))
}

// Result carries the outcome of a minimisation run.
type Result struct {
	//X is the best parameter vector found.
	X []float64
	//F is the objective value at X.
	F float64
	//Iter is the number of iterations performed.
	Iter int
	//FuncEvals and GradEvals count objective and gradient evaluations, including
	//those made by the line search and by numeric differentiation.
	FuncEvals, GradEvals int
	//Status tags how the run ended.
	Status Status
}

// Algorithm selects a line-search step strategy for Minimise.
type Algorithm int

const (
	//SteepestDescent follows the negative gradient.
	SteepestDescent Algorithm = iota
	//FletcherReeves is the classic conjugate gradient variant.
	FletcherReeves
	//PolakRibiere is the PR+ conjugate gradient variant with automatic restart, the
	//workhorse of the dispersion fits.
	PolakRibiere
	//BFGS maintains a dense inverse-Hessian approximation.
	BFGS
)

func (a Algorithm) String() string {
	switch a {
	case SteepestDescent:
		return "steepest descent"
	case FletcherReeves:
		return "Fletcher-Reeves"
	case PolakRibiere:
		return "Polak-Ribiere+"
	case BFGS:
		return "BFGS"
	}
	return fmt.Sprintf("unknown algorithm %d", int(a))
}

// StepComputer turns gradients into search directions. Implementations keep whatever
// per-run memory their algorithm needs (previous gradients, inverse-Hessian estimate).
type StepComputer interface {
	//Reset prepares the computer for a fresh run in dimension n.
	Reset(n int)
	//Direction writes the search direction for gradient g into dst.
	Direction(dst, g []float64)
	//Observe reports the accepted step so the computer can update its memory.
	Observe(xOld, xNew, gOld, gNew []float64)
}

// stepper builds the StepComputer for an algorithm.
func stepper(alg Algorithm) (StepComputer, error) {
	switch alg {
	case SteepestDescent:
		return &steepest{}, nil
	case FletcherReeves:
		return &conjGrad{variant: betaFR}, nil
	case PolakRibiere:
		return &conjGrad{variant: betaPRPlus}, nil
	case BFGS:
		return newBFGS(), nil
	}
	return nil, fmt.Errorf("goNMR/minimise.Minimise: unknown algorithm %d", int(alg))
}

// Minimise runs the line-search driver loop from x0 with the given algorithm. grad may
// be nil, in which case a central-difference gradient with relative step
// Options.GradStep is used. opts may be nil for the defaults. x0 is not modified.
//
// Only a broken configuration produces an error; every numerical outcome, including
// non-convergence, is reported through Result.Status.
func Minimise(f Objective, grad Gradient, x0 []float64, alg Algorithm, opts *Options) (*Result, error) {
	if f == nil {
		return nil, fmt.Errorf("goNMR/minimise.Minimise: nil objective")
	}
	if len(x0) == 0 {
		return nil, fmt.Errorf("goNMR/minimise.Minimise: empty starting vector")
	}
	o := copyOpts(opts)
	step, err := stepper(alg)
	if err != nil {
		return nil, err
	}
	n := len(x0)
	step.Reset(n)

	res := &Result{X: make([]float64, n)}
	copy(res.X, x0)
	fc := &evalCounter{f: f, grad: grad, step: o.GradStep, res: res}

	x := make([]float64, n)
	g := make([]float64, n)
	xNew := make([]float64, n)
	gNew := make([]float64, n)
	dir := make([]float64, n)
	copy(x, x0)
	fx := fc.eval(x)
	fc.gradient(g, x)

	res.Status = MaxIter //overwritten by every other way out of the loop
	for res.Iter = 0; res.Iter < o.MaxIter; res.Iter++ {
		if o.Cancel != nil && o.Cancel() {
			res.Status = Cancelled
			break
		}
		if o.GradTol > 0 && floats.Norm(g, 2) < o.GradTol {
			res.Status = GradConverged
			break
		}
		step.Direction(dir, g)
		if floats.Dot(dir, g) >= 0 {
			//not a descent direction, restart on the gradient
			step.Reset(n)
			step.Direction(dir, g)
		}
		_, fNew, ok := wolfe(fc, x, dir, fx, g, xNew, gNew, o)
		if !ok {
			res.Status = LineSearchFailed
			break
		}
		step.Observe(x, xNew, g, gNew)
		df := math.Abs(fx - fNew)
		x, xNew = xNew, x
		g, gNew = gNew, g
		fx = fNew
		if df <= o.FuncTol*math.Max(1.0, math.Abs(fx)) {
			res.Status = Converged
			res.Iter++
			break
		}
	}
	copy(res.X, x)
	res.F = fx
	return res, nil
}

// evalCounter wraps the objective and gradient so evaluation counts land on the
// Result, and supplies the central-difference fallback when grad is nil.
type evalCounter struct {
	f    Objective
	grad Gradient
	step float64
	res  *Result
}

func (e *evalCounter) eval(x []float64) float64 {
	e.res.FuncEvals++
	return e.f(x)
}

func (e *evalCounter) gradient(dst, x []float64) {
	if e.grad != nil {
		e.res.GradEvals++
		e.grad(dst, x)
		return
	}
	//central differences, two evaluations per coordinate
	xt := make([]float64, len(x))
	copy(xt, x)
	for i := range x {
		h := e.step * math.Max(1.0, math.Abs(x[i]))
		xt[i] = x[i] + h
		fp := e.eval(xt)
		xt[i] = x[i] - h
		fm := e.eval(xt)
		xt[i] = x[i]
		dst[i] = (fp - fm) / (2.0 * h)
	}
}
