package montecarlo

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"nmr"
	"nmr/minimise"
	"nmr/target"
)

//A flat (no exchange) single-spin cluster: the fitted parameter is the weighted mean
//of the points, so the Monte Carlo error has the exact analytic value
//sigma/sqrt(npoints) to compare against.

const (
	testR20   = 5.0
	testSigma = 0.5
)

func flatCluster(Te *testing.T, npoints int) (*target.Dispersion, []float64) {
	axis := make([]float64, npoints)
	for i := range axis {
		axis[i] = float64(i+1) * 50.0
	}
	sp := &nmr.Spin{
		Name:     "s1",
		Values:   [][]float64{make([]float64, npoints)},
		Errors:   [][]float64{make([]float64, npoints)},
		Missing:  [][]bool{make([]bool, npoints)},
		Selected: true,
	}
	for i := range sp.Values[0] {
		sp.Values[0][i] = testR20
		sp.Errors[0][i] = testSigma
	}
	cluster, err := nmr.NewCluster([]*nmr.Spin{sp}, [][]float64{{nmr.LarmorFactor(600e6)}})
	require.NoError(Te, err)
	cond := &nmr.Conditions{Experiment: nmr.CPMG, CpmgFrqs: axis}
	obj, err := target.NewDispersion(nmr.NoRex, cluster, cond)
	require.NoError(Te, err)
	return obj, []float64{testR20}
}

func TestStateMachineOrder(Te *testing.T) {
	obj, params := flatCluster(Te, 7)
	e := NewEnsemble(obj, 1)
	//every step before its prerequisite must fail
	require.Error(Te, e.CreateData(Direct, params))
	require.Error(Te, e.InitialValues(params))
	_, err := e.ErrorAnalysis(0)
	require.Error(Te, err)

	require.NoError(Te, e.Setup(10))
	require.Error(Te, e.Setup(10), "double Setup must fail")
	require.Error(Te, e.InitialValues(params), "InitialValues before CreateData must fail")
	require.NoError(Te, e.CreateData(Direct, params))
	require.NoError(Te, e.InitialValues(params))
	require.NoError(Te, e.Fit(context.Background(), minimise.BFGS, nil))
	errs, err := e.ErrorAnalysis(0)
	require.NoError(Te, err)
	require.Len(Te, errs, 1)
}

func TestDirectRoundTrip(Te *testing.T) {
	if testing.Short() {
		Te.Skip("1000 replicate fits")
	}
	obj, params := flatCluster(Te, 7)
	e := NewEnsemble(obj, 42)
	require.NoError(Te, e.Setup(1000))
	require.NoError(Te, e.CreateData(Direct, params))
	require.NoError(Te, e.InitialValues(params))
	require.NoError(Te, e.Fit(context.Background(), minimise.BFGS, nil))
	errs, err := e.ErrorAnalysis(0)
	require.NoError(Te, err)
	//the flat model fits the plain mean of the 7 points
	want := testSigma / math.Sqrt(7)
	require.InEpsilon(Te, want, errs[0], 0.1, "Monte Carlo error should reproduce the analytic propagation")
}

func TestBackCalcCentres(Te *testing.T) {
	obj, params := flatCluster(Te, 7)
	e := NewEnsemble(obj, 7)
	require.NoError(Te, e.Setup(50))
	//corrupt the measured data after the central fit: BackCalc mode must centre the
	//replicates on the model curve, not on the measurements
	obj.Cluster().Spins[0].Values[0][0] = 1e3
	require.NoError(Te, e.CreateData(BackCalc, params))
	mean := 0.0
	for _, sim := range e.sims {
		mean += sim.Spins[0].Values[0][0]
	}
	mean /= 50.0
	require.InDelta(Te, testR20, mean, 5*testSigma/math.Sqrt(50))
}

func TestMissingPointsSurvive(Te *testing.T) {
	obj, params := flatCluster(Te, 7)
	obj.Cluster().Spins[0].Missing[0][2] = true
	obj.Cluster().Spins[0].Values[0][2] = -1.0 //marker
	e := NewEnsemble(obj, 1)
	require.NoError(Te, e.Setup(5))
	require.NoError(Te, e.CreateData(Direct, params))
	for _, sim := range e.sims {
		require.True(Te, sim.Spins[0].Missing[0][2])
		require.Equal(Te, -1.0, sim.Spins[0].Values[0][2], "missing points must not be resampled")
	}
}

func TestPruneCount(Te *testing.T) {
	obj, params := flatCluster(Te, 7)
	e := NewEnsemble(obj, 3)
	require.NoError(Te, e.Setup(10))
	require.NoError(Te, e.CreateData(Direct, params))
	require.NoError(Te, e.InitialValues(params))
	require.NoError(Te, e.Fit(context.Background(), minimise.BFGS, nil))

	require.Len(Te, e.Pruned(0), 10, "prune 0 keeps everything")
	//2*floor(10*0.2/2) = 2 replicates discarded, one from each end
	kept := e.Pruned(0.2)
	require.Len(Te, kept, 8)
	//the trim is by chi2 rank and symmetric: survivors exclude the extremes
	all := e.Pruned(0)
	require.Equal(Te, all[1:9], kept)

	//an odd request rounds down to an even discard
	require.Len(Te, e.Pruned(0.15), 10)
	require.Len(Te, e.Pruned(0.25), 8)
}

func TestPruneBounds(Te *testing.T) {
	obj, params := flatCluster(Te, 7)
	e := NewEnsemble(obj, 3)
	require.NoError(Te, e.Setup(4))
	require.NoError(Te, e.CreateData(Direct, params))
	require.NoError(Te, e.InitialValues(params))
	require.NoError(Te, e.Fit(context.Background(), minimise.BFGS, nil))
	_, err := e.ErrorAnalysis(-0.1)
	require.Error(Te, err)
	_, err = e.ErrorAnalysis(1.0)
	require.Error(Te, err)
}

func TestFitCancellation(Te *testing.T) {
	obj, params := flatCluster(Te, 7)
	e := NewEnsemble(obj, 5)
	require.NoError(Te, e.Setup(100))
	require.NoError(Te, e.CreateData(Direct, params))
	require.NoError(Te, e.InitialValues(params))
	ctx, cancel := context.WithCancel(context.Background())
	cancel() //cancelled before any replicate starts
	err := e.Fit(ctx, minimise.BFGS, nil)
	require.ErrorIs(Te, err, context.Canceled)
}

func TestSeedReproducibility(Te *testing.T) {
	obj, params := flatCluster(Te, 7)
	a := NewEnsemble(obj, 99)
	b := NewEnsemble(obj, 99)
	require.NoError(Te, a.Setup(3))
	require.NoError(Te, b.Setup(3))
	require.NoError(Te, a.CreateData(Direct, params))
	require.NoError(Te, b.CreateData(Direct, params))
	for i := range a.sims {
		require.Equal(Te, a.sims[i].Spins[0].Values, b.sims[i].Spins[0].Values)
	}
}
