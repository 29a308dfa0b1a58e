/*
 * data.go, part of goNMR.
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

package nmr

import "fmt"

// Experiment selects the kind of dispersion experiment a curve comes from.
type Experiment int

const (
	//CPMG experiments: the condition axis is the CPMG pulsing frequency in Hz.
	CPMG Experiment = iota
	//R1rho experiments: the condition axis is the spin-lock field strength in Hz.
	R1rho
)

func (E Experiment) String() string {
	switch E {
	case CPMG:
		return "CPMG"
	case R1rho:
		return "R1rho"
	}
	return fmt.Sprintf("Experiment(%d)", int(E))
}

// Spin holds the measured dispersion data of one spin: one curve per spectrometer
// field, each curve with one value/error pair per dispersion point. Missing points
// are flagged, never fabricated. Omega and R1 are only consumed by the R1rho models.
type Spin struct {
	Name     string
	Values   [][]float64 //[field][point], measured R2eff/R1rho in 1/s
	Errors   [][]float64 //[field][point], standard deviations, same shape as Values
	Missing  [][]bool    //[field][point]
	Omega    float64     //chemical shift position in rad/s (R1rho models)
	R1       float64     //longitudinal relaxation rate in 1/s (R1rho models)
	Selected bool
}

// Copy returns a deep copy of the spin.
func (S *Spin) Copy() *Spin {
	if S == nil {
		panic("goNMR: attempted to copy a nil spin")
	}
	n := new(Spin)
	*n = *S
	n.Values = copyCurves(S.Values)
	n.Errors = copyCurves(S.Errors)
	n.Missing = make([][]bool, len(S.Missing))
	for i, v := range S.Missing {
		n.Missing[i] = make([]bool, len(v))
		copy(n.Missing[i], v)
	}
	return n
}

func copyCurves(c [][]float64) [][]float64 {
	r := make([][]float64, len(c))
	for i, v := range c {
		r[i] = make([]float64, len(v))
		copy(r[i], v)
	}
	return r
}

// Cluster is an ordered set of spins that share the global kinetic parameters (pA, kex)
// while keeping per-spin local parameters (R20, dw/phi_ex). The clustering is fixed
// before optimisation begins; nothing mutates it during a fit.
type Cluster struct {
	Spins []*Spin
	//Frqs are the per-spin, per-field Larmor frequency factors (2*pi*MHz) used for the
	//ppm to rad/s conversion of dw and phi_ex, [spin][field].
	Frqs [][]float64
}

// NewCluster builds a cluster and verifies that every spin carries the same number of
// fields and points per field as the first one, and that the frequency table matches.
// These are configuration errors, caught before any numeric work.
func NewCluster(spins []*Spin, frqs [][]float64) (*Cluster, error) {
	if len(spins) == 0 {
		return nil, BadParam("nmr.NewCluster", "spins", len(spins), "a cluster needs at least one spin")
	}
	if len(frqs) != len(spins) {
		return nil, BadParam("nmr.NewCluster", "frqs", len(frqs), fmt.Sprintf("one frequency row per spin required, have %d spins", len(spins)))
	}
	nf := len(spins[0].Values)
	for i, s := range spins {
		if len(s.Values) != nf || len(s.Errors) != nf || len(s.Missing) != nf {
			return nil, BadParam("nmr.NewCluster", "spins", s.Name, fmt.Sprintf("spin %d does not have %d fields in all of Values/Errors/Missing", i, nf))
		}
		if len(frqs[i]) != nf {
			return nil, BadParam("nmr.NewCluster", "frqs", len(frqs[i]), fmt.Sprintf("spin %d needs %d frequency entries", i, nf))
		}
		for f := 0; f < nf; f++ {
			np := len(spins[0].Values[f])
			if len(s.Values[f]) != np || len(s.Errors[f]) != np || len(s.Missing[f]) != np {
				return nil, BadParam("nmr.NewCluster", "spins", s.Name, fmt.Sprintf("spin %d, field %d: point counts are not comparable across the cluster", i, f))
			}
		}
	}
	return &Cluster{Spins: spins, Frqs: frqs}, nil
}

// NSpins returns the number of spins in the cluster.
func (C *Cluster) NSpins() int {
	return len(C.Spins)
}

// NFields returns the number of spectrometer fields per spin.
func (C *Cluster) NFields() int {
	return len(C.Spins[0].Values)
}

// NPoints returns the number of dispersion points of the given field.
func (C *Cluster) NPoints(field int) int {
	return len(C.Spins[0].Values[field])
}

// Conditions describes the experimental axis shared by every curve in a cluster.
type Conditions struct {
	Experiment Experiment
	CpmgFrqs   []float64 //CPMG pulsing frequencies in Hz, one per dispersion point
	SpinLock   []float64 //spin-lock field strengths in Hz, one per dispersion point (R1rho)
	Offset     float64   //spin-lock offset in rad/s (R1rho)
	RelaxTime  float64   //total relaxation period in s (numerical models)
}

// NPoints returns the number of dispersion points on the active condition axis.
func (c *Conditions) NPoints() int {
	if c.Experiment == R1rho {
		return len(c.SpinLock)
	}
	return len(c.CpmgFrqs)
}
