/*
 * model.go, part of goNMR.
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

// Model tags one of the supported exchange topologies. The tag fully determines the set
// and the order of free parameters: local parameters come first (the R20 block, spin
// major and field minor, then the per-spin shift parameters), the global kinetic tail
// comes last. Optimisers index parameter vectors through this fixed contract.
type Model int

const (
	//NoRex models the absence of chemical exchange (flat dispersion curves).
	NoRex Model = iota
	//LM63 is the Luz and Meiboom (1963) 2-site fast exchange CPMG model.
	LM63
	//CR72 is the Carver and Richards (1972) 2-site CPMG model for all time scales.
	CR72
	//IT99 is the Ishima and Torchia (1999) 2-site CPMG model for skewed populations.
	IT99
	//TSMFK01 is the Tollinger et al. (2001) 2-site slow exchange CPMG model.
	TSMFK01
	//M61 is the Meiboom (1961) 2-site fast exchange R1rho model.
	M61
	//DPL94 is the Davis, Perlman and London (1994) off-resonance R1rho model.
	DPL94
	//M61b is the Meiboom (1961) on-resonance R1rho model for skewed populations.
	M61b
	//NS2siteStar is the numerical 2-site Bloch-McConnell CPMG solution using
	//complex conjugate 2x2 matrices (the "star" method).
	NS2siteStar
	//NSR1rho2site is the numerical 2-site Bloch-McConnell R1rho solution in the
	//full 3D (x, y, z per site) basis.
	NSR1rho2site
)

var modelNames = map[Model]string{
	NoRex:        "No Rex",
	LM63:         "LM63",
	CR72:         "CR72",
	IT99:         "IT99",
	TSMFK01:      "TSMFK01",
	M61:          "M61",
	DPL94:        "DPL94",
	M61b:         "M61 skew",
	NS2siteStar:  "NS 2-site star",
	NSR1rho2site: "NS R1rho 2-site",
}

func (M Model) String() string {
	if s, ok := modelNames[M]; ok {
		return s
	}
	return fmt.Sprintf("Model(%d)", int(M))
}

// Valid returns whether the tag names a supported model.
func (M Model) Valid() bool {
	_, ok := modelNames[M]
	return ok
}

// Experiment returns the experiment type the model applies to.
func (M Model) Experiment() Experiment {
	switch M {
	case M61, DPL94, M61b, NSR1rho2site:
		return R1rho
	}
	return CPMG
}

// baseline returns the name of the no-exchange rate parameter of the model.
func (M Model) baseline() string {
	if M.Experiment() == R1rho {
		return "r1rho_prime"
	}
	if M == NS2siteStar || M == TSMFK01 {
		return "r20a"
	}
	return "r20"
}

// shift returns the per-spin shift parameter names of the model, in order.
func (M Model) shift() []string {
	switch M {
	case NoRex:
		return nil
	case LM63, M61, DPL94:
		return []string{"phi_ex"}
	case IT99:
		return []string{"phi_ex", "padw2"}
	}
	return []string{"dw"}
}

// tail returns the global kinetic parameter names of the model, in order.
func (M Model) tail() []string {
	switch M {
	case NoRex:
		return nil
	case LM63, M61, DPL94:
		return []string{"kex"}
	case IT99:
		return []string{"tex"}
	case TSMFK01:
		return []string{"k_AB"}
	}
	return []string{"pA", "kex"}
}

// K returns the number of free parameters for a cluster of nspins spins measured at
// nfields spectrometer fields.
func (M Model) K(nspins, nfields int) int {
	k := nspins * nfields //the R20 block
	if M == NS2siteStar {
		k *= 2 //separate R20A and R20B blocks
	}
	return k + nspins*len(M.shift()) + len(M.tail())
}

// ParamNames returns the ordered names of the free parameters for a cluster of the
// given shape. Repeated local parameters keep their base name; the position in the
// returned slice is the position in the optimiser vector.
func (M Model) ParamNames(nspins, nfields int) []string {
	names := make([]string, 0, M.K(nspins, nfields))
	for i := 0; i < nspins*nfields; i++ {
		names = append(names, M.baseline())
	}
	if M == NS2siteStar {
		for i := 0; i < nspins*nfields; i++ {
			names = append(names, "r20b")
		}
	}
	for _, s := range M.shift() {
		for i := 0; i < nspins; i++ {
			names = append(names, s)
		}
	}
	names = append(names, M.tail()...)
	return names
}

// Default parameter bounds, used to build grid-search boxes and Method of Multipliers
// constraints. Rates in 1/s, dw in ppm, phi_ex and padw2 in ppm^2, tex in s.
var defaultBounds = map[string][2]float64{
	"r20":         {0.0, 100.0},
	"r20a":        {0.0, 100.0},
	"r20b":        {0.0, 100.0},
	"r1rho_prime": {0.0, 100.0},
	"phi_ex":      {0.0, 10.0},
	"padw2":       {0.0, 10.0},
	"dw":          {0.0, 10.0},
	"pA":          {0.5, 1.0},
	"kex":         {1.0, 1e5},
	"tex":         {1e-5, 1.0},
	"k_AB":        {0.1, 100.0},
}

// Bounds returns the default lower and upper parameter bounds for a cluster of the
// given shape, aligned with ParamNames.
func (M Model) Bounds(nspins, nfields int) (lower, upper []float64) {
	names := M.ParamNames(nspins, nfields)
	lower = make([]float64, len(names))
	upper = make([]float64, len(names))
	for i, n := range names {
		b, ok := defaultBounds[n]
		if !ok {
			panic("goNMR/nmr.Bounds: no default bounds for parameter " + n)
		}
		lower[i] = b[0]
		upper[i] = b[1]
	}
	return lower, upper
}
