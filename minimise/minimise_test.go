package minimise

import (
	"fmt"
	"math"
	"testing"
)

//The standard test problems: a shifted quadratic bowl and the Rosenbrock valley.

func quadratic(x []float64) float64 {
	return (x[0]-3.0)*(x[0]-3.0) + 10.0*(x[1]+1.0)*(x[1]+1.0)
}

func quadraticGrad(dst, x []float64) {
	dst[0] = 2.0 * (x[0] - 3.0)
	dst[1] = 20.0 * (x[1] + 1.0)
}

func rosenbrock(x []float64) float64 {
	a := 1.0 - x[0]
	b := x[1] - x[0]*x[0]
	return a*a + 100.0*b*b
}

func rosenbrockGrad(dst, x []float64) {
	dst[0] = -2.0*(1.0-x[0]) - 400.0*x[0]*(x[1]-x[0]*x[0])
	dst[1] = 200.0 * (x[1] - x[0]*x[0])
}

func checkNear(Te *testing.T, name string, got, want []float64, tol float64) {
	for i := range want {
		if math.Abs(got[i]-want[i]) > tol {
			Te.Errorf("%s: coordinate %d: got %v, want %v", name, i, got[i], want[i])
		}
	}
}

func TestQuadraticAllAlgorithms(Te *testing.T) {
	for _, alg := range []Algorithm{SteepestDescent, FletcherReeves, PolakRibiere, BFGS} {
		res, err := Minimise(quadratic, quadraticGrad, []float64{-5, 7}, alg, nil)
		if err != nil {
			Te.Fatal(err)
		}
		if res.Status != Converged && res.Status != GradConverged {
			Te.Errorf("%v: bad status %v", alg, res.Status)
		}
		checkNear(Te, alg.String(), res.X, []float64{3, -1}, 1e-4)
		fmt.Println(alg, "took", res.Iter, "iterations,", res.FuncEvals, "evaluations")
	}
}

func TestRosenbrock(Te *testing.T) {
	for _, alg := range []Algorithm{PolakRibiere, BFGS} {
		res, err := Minimise(rosenbrock, rosenbrockGrad, []float64{-1.2, 1}, alg, nil)
		if err != nil {
			Te.Fatal(err)
		}
		if res.Status != Converged && res.Status != GradConverged {
			Te.Errorf("%v: bad status %v", alg, res.Status)
		}
		checkNear(Te, alg.String(), res.X, []float64{1, 1}, 1e-3)
	}
}

func TestNumericGradient(Te *testing.T) {
	//same problem, no analytic gradient
	res, err := Minimise(rosenbrock, nil, []float64{-1.2, 1}, PolakRibiere, nil)
	if err != nil {
		Te.Fatal(err)
	}
	checkNear(Te, "numeric PR+", res.X, []float64{1, 1}, 1e-3)
	if res.GradEvals != 0 {
		Te.Errorf("numeric runs must not count analytic gradient calls, got %d", res.GradEvals)
	}
}

func TestMaxIterStatus(Te *testing.T) {
	o := DefaultOptions()
	o.MaxIter = 2
	res, err := Minimise(rosenbrock, rosenbrockGrad, []float64{-1.2, 1}, SteepestDescent, o)
	if err != nil {
		Te.Fatal(err)
	}
	if res.Status != MaxIter {
		Te.Errorf("want MaxIter status, got %v", res.Status)
	}
	if res.Iter != 2 {
		Te.Errorf("want 2 iterations, got %d", res.Iter)
	}
}

func TestCancelStatus(Te *testing.T) {
	calls := 0
	o := DefaultOptions()
	o.Cancel = func() bool { calls++; return calls > 3 }
	res, err := Minimise(rosenbrock, rosenbrockGrad, []float64{-1.2, 1}, BFGS, o)
	if err != nil {
		Te.Fatal(err)
	}
	if res.Status != Cancelled {
		Te.Errorf("want Cancelled status, got %v", res.Status)
	}
}

func TestBadConfig(Te *testing.T) {
	if _, err := Minimise(nil, nil, []float64{1}, BFGS, nil); err == nil {
		Te.Error("nil objective should be an error")
	}
	if _, err := Minimise(quadratic, nil, nil, BFGS, nil); err == nil {
		Te.Error("empty starting vector should be an error")
	}
	if _, err := Minimise(quadratic, nil, []float64{1, 1}, Algorithm(99), nil); err == nil {
		Te.Error("unknown algorithm should be an error")
	}
}

func TestSimplexQuadratic(Te *testing.T) {
	o := DefaultOptions()
	o.FuncTol = 1e-12
	res, err := Simplex(quadratic, []float64{-5, 7}, o)
	if err != nil {
		Te.Fatal(err)
	}
	if res.Status != Converged {
		Te.Errorf("bad status %v", res.Status)
	}
	checkNear(Te, "simplex", res.X, []float64{3, -1}, 1e-4)
}

func TestSimplexRosenbrock(Te *testing.T) {
	o := DefaultOptions()
	o.FuncTol = 1e-14
	res, err := Simplex(rosenbrock, []float64{-1.2, 1}, o)
	if err != nil {
		Te.Fatal(err)
	}
	checkNear(Te, "simplex rosenbrock", res.X, []float64{1, 1}, 1e-3)
}

func TestGridSearchExact(Te *testing.T) {
	//11 points over [0,10] in each dimension puts a grid node exactly on the
	//minimum of (x-3)^2 + (y-7)^2.
	f := func(x []float64) float64 {
		return (x[0]-3.0)*(x[0]-3.0) + (x[1]-7.0)*(x[1]-7.0)
	}
	res, err := GridSearch(f, []float64{0, 0}, []float64{10, 10}, []int{11, 11}, 4, nil)
	if err != nil {
		Te.Fatal(err)
	}
	checkNear(Te, "grid", res.X, []float64{3, 7}, 1e-12)
	if res.FuncEvals != 121 {
		Te.Errorf("want 121 evaluations, got %d", res.FuncEvals)
	}
	if res.F != 0 {
		Te.Errorf("want exact zero at the node, got %v", res.F)
	}
}

func TestGridSearchPinnedDimension(Te *testing.T) {
	f := func(x []float64) float64 { return x[0]*x[0] + x[1]*x[1] }
	res, err := GridSearch(f, []float64{-1, 5}, []float64{1, 9}, []int{21, 1}, 0, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if res.X[1] != 5 {
		Te.Errorf("pinned dimension moved: %v", res.X[1])
	}
	if res.X[0] != 0 {
		Te.Errorf("want 0 for the swept dimension, got %v", res.X[0])
	}
}

func TestGridSearchBadConfig(Te *testing.T) {
	f := func(x []float64) float64 { return 0 }
	if _, err := GridSearch(f, nil, nil, nil, 0, nil); err == nil {
		Te.Error("empty bounds should be an error")
	}
	if _, err := GridSearch(f, []float64{0}, []float64{1, 2}, []int{3}, 0, nil); err == nil {
		Te.Error("mismatched shapes should be an error")
	}
	if _, err := GridSearch(f, []float64{0}, []float64{1}, []int{0}, 0, nil); err == nil {
		Te.Error("zero increments should be an error")
	}
}

func TestMultipliersActiveBound(Te *testing.T) {
	//the unconstrained minimum of (x-3)^2 sits outside x <= 2, so the constrained
	//solution lands on the bound.
	f := func(x []float64) float64 { return (x[0] - 3.0) * (x[0] - 3.0) }
	g := func(dst, x []float64) { dst[0] = 2.0 * (x[0] - 3.0) }
	cons, err := BoundConstraints([]float64{0}, []float64{2})
	if err != nil {
		Te.Fatal(err)
	}
	res, err := Multipliers(f, g, []float64{1}, cons, BFGS, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(res.X[0]-2.0) > 1e-4 {
		Te.Errorf("want the bound at 2, got %v", res.X[0])
	}
}

func TestMultipliersInactiveBound(Te *testing.T) {
	//with generous bounds the constrained answer matches the free one
	cons, err := BoundConstraints([]float64{-100, -100}, []float64{100, 100})
	if err != nil {
		Te.Fatal(err)
	}
	res, err := Multipliers(quadratic, quadraticGrad, []float64{0, 0}, cons, PolakRibiere, nil)
	if err != nil {
		Te.Fatal(err)
	}
	checkNear(Te, "inactive bounds", res.X, []float64{3, -1}, 1e-3)
}

func TestBoundConstraintsShape(Te *testing.T) {
	cons, err := BoundConstraints([]float64{0, math.Inf(-1)}, []float64{1, 5})
	if err != nil {
		Te.Fatal(err)
	}
	if cons.NConstraints() != 3 {
		Te.Errorf("want 3 constraint rows, got %d", cons.NConstraints())
	}
	if _, err := BoundConstraints([]float64{0}, []float64{1, 2}); err == nil {
		Te.Error("mismatched bound lengths should be an error")
	}
}
