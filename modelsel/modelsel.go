/*
 * modelsel.go, part of goNMR.
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

// Package modelsel weeds out failed fits and picks between exchange models.
//
// Elimination inspects fitted parameter values against model-independent rules: a fit
// whose exchange amplitude collapsed to zero, whose population ran into its boundary
// or whose rate escaped the physically sensible range is a failed fit dressed up as a
// result, and carrying it into model selection would bias the comparison. The same
// rules apply to the central fit and, replicate by replicate, to Monte Carlo
// simulations.
//
// Selection scores the survivors with information criteria computed from the
// chi-squared, the parameter count and the data count.
package modelsel

import (
	"fmt"
	"math"

	"nmr"
)

// Rule inspects one named parameter value. A true return eliminates the fit; the
// reason string says why.
type Rule func(name string, value float64) (bad bool, reason string)

// PhiExFloor eliminates fits whose exchange amplitude (phi_ex, padw2 or dw) dropped
// below eps: the model has degenerated to no exchange and a simpler model should be
// fitted instead.
func PhiExFloor(eps float64) Rule {
	return func(name string, value float64) (bool, string) {
		switch name {
		case "phi_ex", "padw2", "dw":
			if value < eps {
				return true, fmt.Sprintf("exchange amplitude %s = %v below %v, no exchange left in the model", name, value, eps)
			}
		}
		return false, ""
	}
}

// PABoundary eliminates fits whose ground-state population sits within eps of either
// end of its [0.5, 1] range, where the exchange parameters are no longer identifiable.
func PABoundary(eps float64) Rule {
	return func(name string, value float64) (bool, string) {
		if name != "pA" {
			return false, ""
		}
		if value >= 1.0-eps {
			return true, fmt.Sprintf("pA = %v pinned at the no-exchange boundary", value)
		}
		if value <= 0.5+eps {
			return true, fmt.Sprintf("pA = %v pinned at the equal-population boundary", value)
		}
		return false, ""
	}
}

// RateWindow eliminates fits whose exchange rate (kex or k_AB, or the equivalent
// 1/tex) left the [min, max] window in 1/s.
func RateWindow(min, max float64) Rule {
	return func(name string, value float64) (bool, string) {
		rate := value
		switch name {
		case "kex", "k_AB":
		case "tex":
			if value <= 0 {
				return true, fmt.Sprintf("tex = %v is not a positive time", value)
			}
			rate = 1.0 / value
		default:
			return false, ""
		}
		if rate < min || rate > max {
			return true, fmt.Sprintf("exchange rate %v from %s outside [%v, %v]", rate, name, min, max)
		}
		return false, ""
	}
}

// DefaultRules returns the standard elimination rule set for dispersion fits.
func DefaultRules() []Rule {
	return []Rule{
		PhiExFloor(1e-6),
		PABoundary(1e-4),
		RateWindow(1.0, 1e6),
	}
}

// Verdict reports the outcome of eliminating one fit. OK means the fit survives;
// otherwise Param, Value and Reason identify the offending parameter.
type Verdict struct {
	OK     bool
	Param  string
	Value  float64
	Reason string
}

// Apply flips the Selected flag of every spin in the cluster when the verdict
// eliminates the fit. The kinetic parameters are shared across the cluster, so one
// offending parameter takes the whole cluster out.
func (V *Verdict) Apply(c *nmr.Cluster) {
	if V.OK {
		return
	}
	for _, s := range c.Spins {
		s.Selected = false
	}
}

// Eliminate checks a fitted parameter vector against the rules. The vector length
// must match the model over the given cluster shape; that mismatch is a configuration
// error, not an elimination.
func Eliminate(model nmr.Model, nspins, nfields int, params []float64, rules []Rule) (*Verdict, error) {
	names := model.ParamNames(nspins, nfields)
	if len(params) != len(names) {
		return nil, nmr.BadParam("modelsel.Eliminate", "params", len(params),
			fmt.Sprintf("model %v over %d spins and %d fields takes %d parameters", model, nspins, nfields, len(names)))
	}
	for i, name := range names {
		for _, rule := range rules {
			if bad, reason := rule(name, params[i]); bad {
				return &Verdict{OK: false, Param: name, Value: params[i], Reason: reason}, nil
			}
		}
	}
	return &Verdict{OK: true}, nil
}

// EliminateSims applies the rules to every Monte Carlo replicate independently and
// returns one verdict per replicate, aligned with sims. Nil replicates (failed fits)
// are eliminated outright.
func EliminateSims(model nmr.Model, nspins, nfields int, sims [][]float64, rules []Rule) ([]*Verdict, error) {
	out := make([]*Verdict, len(sims))
	for i, sim := range sims {
		if sim == nil {
			out[i] = &Verdict{OK: false, Reason: "replicate fit failed"}
			continue
		}
		v, err := Eliminate(model, nspins, nfields, sim, rules)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Stats bundles the fit quality numbers a selection criterion consumes.
type Stats struct {
	Chi2 float64
	K    int //free parameters
	N    int //data points fitted
	AIC  float64
	AICc float64
	BIC  float64
}

// NewStats computes the information criteria for one fit. AICc needs n > k + 1; below
// that it is NaN (and Rank refuses to use it).
func NewStats(chi2 float64, k, n int) (*Stats, error) {
	if k < 1 || n < 1 {
		return nil, nmr.BadParam("modelsel.NewStats", "k/n", fmt.Sprintf("%d/%d", k, n), "parameter and data counts must be positive")
	}
	s := &Stats{Chi2: chi2, K: k, N: n}
	kf, nf := float64(k), float64(n)
	s.AIC = chi2 + 2.0*kf
	s.BIC = chi2 + kf*math.Log(nf)
	if n > k+1 {
		s.AICc = s.AIC + 2.0*kf*(kf+1.0)/(nf-kf-1.0)
	} else {
		s.AICc = math.NaN()
	}
	return s, nil
}

// Criterion selects which information criterion Rank compares.
type Criterion int

const (
	//AIC is chi2 + 2k, the default.
	AIC Criterion = iota
	//AICc adds the small-sample correction 2k(k+1)/(n-k-1).
	AICc
	//BIC is chi2 + k*ln(n).
	BIC
)

func (c Criterion) String() string {
	switch c {
	case AIC:
		return "AIC"
	case AICc:
		return "AICc"
	case BIC:
		return "BIC"
	}
	return fmt.Sprintf("Criterion(%d)", int(c))
}

// Rank returns the index of the best (lowest-criterion) entry. Ties keep the earliest
// entry, so callers ordering candidates from simplest to most complex get the
// simplest of equally good models. NaN criteria (failed AICc preconditions,
// eliminated fits scored as NaN) never win.
func Rank(stats []*Stats, c Criterion) (int, error) {
	if len(stats) == 0 {
		return 0, nmr.BadParam("modelsel.Rank", "stats", 0, "nothing to rank")
	}
	best := -1
	bestVal := math.Inf(1)
	for i, s := range stats {
		v := s.value(c)
		if math.IsNaN(v) {
			continue
		}
		if v < bestVal {
			best = i
			bestVal = v
		}
	}
	if best < 0 {
		return 0, nmr.BadParam("modelsel.Rank", "stats", len(stats), "every candidate has a NaN criterion")
	}
	return best, nil
}

func (s *Stats) value(c Criterion) float64 {
	switch c {
	case AICc:
		return s.AICc
	case BIC:
		return s.BIC
	}
	return s.AIC
}
