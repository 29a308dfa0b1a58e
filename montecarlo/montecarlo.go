/*
 * montecarlo.go, part of goNMR.
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

// Package montecarlo estimates parameter errors by Monte Carlo simulation: many
// synthetic replicates of the measured curves are generated, each replicate is fitted
// exactly like the real data, and the spread of the replicate parameters around their
// mean is the parameter error.
//
// The Ensemble is a small state machine mirroring how an analysis actually proceeds:
// Setup fixes the replicate count, CreateData generates the synthetic curves,
// InitialValues seeds every replicate with the central fit, Fit runs the replicates
// through a worker pool, and ErrorAnalysis turns the replicate parameters into
// standard deviations. Calling a step out of order is a configuration error.
package montecarlo

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"nmr"
	"nmr/minimise"
	"nmr/target"
)

// DataMode selects how replicate data is generated.
type DataMode int

const (
	//BackCalc draws each replicate point from a gaussian centred on the
	//back-calculated curve of the central fit, the proper Monte Carlo simulation.
	BackCalc DataMode = iota
	//Direct draws each replicate point from a gaussian centred on the measured value
	//itself. The replicate parameter spread then reproduces the input errors, which
	//makes Direct the standard cross-check that the machinery is wired correctly.
	Direct
)

// Ensemble drives one Monte Carlo error analysis over a fitted cluster.
type Ensemble struct {
	obj  *target.Dispersion
	n    int
	seed uint64

	//replicate state
	sims      []*nmr.Cluster
	initials  [][]float64
	simParams [][]float64
	simChi2   []float64
	simOK     []bool

	dataDone bool
	fitDone  bool
}

// NewEnsemble wraps a fitted objective for Monte Carlo analysis. The seed feeds the
// replicate-data generator, so runs are reproducible.
func NewEnsemble(obj *target.Dispersion, seed uint64) *Ensemble {
	return &Ensemble{obj: obj, seed: seed}
}

// Setup fixes the number of replicates. It fails if the ensemble is already set up;
// start a fresh Ensemble to redo an analysis.
func (E *Ensemble) Setup(n int) error {
	if E.n != 0 {
		return nmr.BadParam("montecarlo.Setup", "n", n, fmt.Sprintf("ensemble already holds %d replicates", E.n))
	}
	if n < 2 {
		return nmr.BadParam("montecarlo.Setup", "n", n, "at least 2 replicates required")
	}
	E.n = n
	return nil
}

// CreateData generates the n replicate clusters. params is the central fit parameter
// vector, used to back-calculate the gaussian centres in BackCalc mode (it is ignored
// in Direct mode but must still have the right length). Missing points stay missing
// and keep their measured values.
func (E *Ensemble) CreateData(mode DataMode, params []float64) error {
	if E.n == 0 {
		return nmr.BadParam("montecarlo.CreateData", "n", 0, "Setup must run first")
	}
	if len(params) != E.obj.K() {
		return nmr.BadParam("montecarlo.CreateData", "params", len(params), fmt.Sprintf("the model takes %d parameters", E.obj.K()))
	}
	gauss := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(E.seed)}
	cluster := E.obj.Cluster()
	E.sims = make([]*nmr.Cluster, E.n)
	for i := range E.sims {
		spins := make([]*nmr.Spin, cluster.NSpins())
		for s, sp := range cluster.Spins {
			ns := sp.Copy()
			for f := range ns.Values {
				var centre []float64
				if mode == BackCalc {
					centre = E.obj.BackCalc(params, s, f)
				} else {
					centre = sp.Values[f]
				}
				for p := range ns.Values[f] {
					if ns.Missing[f][p] {
						continue
					}
					ns.Values[f][p] = centre[p] + ns.Errors[f][p]*gauss.Rand()
				}
			}
			spins[s] = ns
		}
		sim, err := nmr.NewCluster(spins, cluster.Frqs)
		if err != nil {
			return err
		}
		E.sims[i] = sim
	}
	E.dataDone = true
	return nil
}

// InitialValues seeds every replicate fit with the given starting vector, normally
// the central fit parameters.
func (E *Ensemble) InitialValues(params []float64) error {
	if !E.dataDone {
		return nmr.BadParam("montecarlo.InitialValues", "params", len(params), "CreateData must run first")
	}
	if len(params) != E.obj.K() {
		return nmr.BadParam("montecarlo.InitialValues", "params", len(params), fmt.Sprintf("the model takes %d parameters", E.obj.K()))
	}
	E.initials = make([][]float64, E.n)
	for i := range E.initials {
		E.initials[i] = make([]float64, len(params))
		copy(E.initials[i], params)
	}
	return nil
}

// Fit runs every replicate through the given algorithm on a small worker pool, each
// worker with its own objective over its replicate cluster. Cancelling the context
// stops new replicates from starting; replicates already fitted keep their results. A
// replicate whose fit lands on a sentinel-sized chi2 is flagged as failed rather than
// aborting the whole analysis.
func (E *Ensemble) Fit(ctx context.Context, alg minimise.Algorithm, opts *minimise.Options) error {
	if E.initials == nil {
		return nmr.BadParam("montecarlo.Fit", "initials", nil, "InitialValues must run first")
	}
	E.simParams = make([][]float64, E.n)
	E.simChi2 = make([]float64, E.n)
	E.simOK = make([]bool, E.n)

	workers := 8
	if workers > E.n {
		workers = E.n
	}
	jobs := make(chan int)
	var wg sync.WaitGroup
	var firstErr error
	var errOnce sync.Once
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				obj, err := target.NewDispersion(E.obj.Model(), E.sims[i], E.obj.Conditions())
				if err != nil {
					errOnce.Do(func() { firstErr = err })
					continue
				}
				res, err := minimise.Minimise(obj.Func, obj.Grad, E.initials[i], alg, opts)
				if err != nil {
					errOnce.Do(func() { firstErr = err })
					continue
				}
				E.simParams[i] = res.X
				E.simChi2[i] = res.F
				E.simOK[i] = res.F < 1e98 && !math.IsNaN(res.F)
			}
		}()
	}
feed:
	for i := 0; i < E.n; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	if firstErr != nil {
		return firstErr
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("goNMR/montecarlo.Fit: %w", err)
	}
	E.fitDone = true
	return nil
}

// SimParams returns the fitted replicate parameter vectors; nil entries mark
// replicates that never ran or failed to produce parameters.
func (E *Ensemble) SimParams() [][]float64 {
	return E.simParams
}

// SimChi2 returns the replicate chi-squared values, aligned with SimParams.
func (E *Ensemble) SimChi2() []float64 {
	return E.simChi2
}

// ErrorAnalysis computes the per-parameter standard deviation over the replicates.
// prune in [0, 1) discards the extreme tails by chi-squared rank before the
// statistics: 2*floor(n*prune/2) replicates go, half from each end, keeping the trim
// symmetric. A parameter that is NaN in any surviving replicate gets a NaN error, so
// broken replicate fits surface instead of silently shrinking the error bars.
func (E *Ensemble) ErrorAnalysis(prune float64) ([]float64, error) {
	if !E.fitDone {
		return nil, nmr.BadParam("montecarlo.ErrorAnalysis", "prune", prune, "Fit must run first")
	}
	if prune < 0 || prune >= 1 {
		return nil, nmr.BadParam("montecarlo.ErrorAnalysis", "prune", prune, "want 0 <= prune < 1")
	}
	kept := E.Pruned(prune)
	if len(kept) < 2 {
		return nil, nmr.BadParam("montecarlo.ErrorAnalysis", "prune", prune, "fewer than 2 replicates survive the trim")
	}
	k := E.obj.K()
	errs := make([]float64, k)
	col := make([]float64, len(kept))
	for j := 0; j < k; j++ {
		for c, i := range kept {
			col[c] = E.simParams[i][j]
		}
		errs[j] = stat.StdDev(col, nil)
	}
	return errs, nil
}

// Pruned returns the replicate indices surviving the symmetric chi-squared trim, in
// chi-squared rank order. Failed replicates are dropped before the trim is applied.
func (E *Ensemble) Pruned(prune float64) []int {
	var idx []int
	for i := 0; i < E.n; i++ {
		if E.simOK[i] && E.simParams[i] != nil {
			idx = append(idx, i)
		}
	}
	sort.Slice(idx, func(a, b int) bool { return E.simChi2[idx[a]] < E.simChi2[idx[b]] })
	cut := int(math.Floor(float64(len(idx))*prune/2.0)) * 2
	lo := cut / 2
	hi := len(idx) - cut/2
	return idx[lo:hi]
}
