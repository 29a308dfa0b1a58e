package nmr

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"testing"
)

func TestParamNamesLayout(Te *testing.T) {
	//2 spins, 2 fields under CR72: the R20 block is spin major, field minor, then the
	//dw block, then the kinetic tail
	names := CR72.ParamNames(2, 2)
	want := []string{"r20", "r20", "r20", "r20", "dw", "dw", "pA", "kex"}
	if len(names) != len(want) {
		Te.Fatalf("got %d names, want %d: %v", len(names), len(want), names)
	}
	for i := range want {
		if names[i] != want[i] {
			Te.Errorf("name %d: got %q, want %q", i, names[i], want[i])
		}
	}
	if CR72.K(2, 2) != len(want) {
		Te.Errorf("K = %d disagrees with ParamNames length %d", CR72.K(2, 2), len(want))
	}
}

func TestParamNamesStarDoublesR20(Te *testing.T) {
	names := NS2siteStar.ParamNames(1, 2)
	want := []string{"r20a", "r20a", "r20b", "r20b", "dw", "pA", "kex"}
	for i := range want {
		if names[i] != want[i] {
			Te.Errorf("name %d: got %q, want %q", i, names[i], want[i])
		}
	}
	if NS2siteStar.K(1, 2) != 7 {
		Te.Errorf("K = %d, want 7", NS2siteStar.K(1, 2))
	}
}

func TestKPerModel(Te *testing.T) {
	//single spin, single field parameter counts
	wants := map[Model]int{
		NoRex:        1,
		LM63:         3,
		CR72:         4,
		IT99:         4,
		TSMFK01:      3,
		M61:          3,
		DPL94:        3,
		M61b:         4,
		NS2siteStar:  5,
		NSR1rho2site: 4,
	}
	for m, k := range wants {
		if got := m.K(1, 1); got != k {
			Te.Errorf("%v: K = %d, want %d", m, got, k)
		}
	}
}

func TestBoundsAligned(Te *testing.T) {
	lower, upper := CR72.Bounds(2, 2)
	names := CR72.ParamNames(2, 2)
	if len(lower) != len(names) || len(upper) != len(names) {
		Te.Fatalf("bounds misaligned: %d/%d vs %d names", len(lower), len(upper), len(names))
	}
	for i := range names {
		if lower[i] >= upper[i] {
			Te.Errorf("%s: lower %v not below upper %v", names[i], lower[i], upper[i])
		}
	}
	//pA sits at the end of the tail minus one
	if lower[len(lower)-2] != 0.5 || upper[len(upper)-2] != 1.0 {
		Te.Errorf("pA bounds wrong: [%v, %v]", lower[len(lower)-2], upper[len(upper)-2])
	}
}

func TestModelExperiment(Te *testing.T) {
	for _, m := range []Model{M61, DPL94, M61b, NSR1rho2site} {
		if m.Experiment() != R1rho {
			Te.Errorf("%v should be an R1rho model", m)
		}
	}
	for _, m := range []Model{LM63, CR72, IT99, TSMFK01, NS2siteStar} {
		if m.Experiment() != CPMG {
			Te.Errorf("%v should be a CPMG model", m)
		}
	}
	if Model(99).Valid() {
		Te.Error("Model(99) should not be valid")
	}
}

func testSpin(name string, nfields, npoints int) *Spin {
	s := &Spin{
		Name:     name,
		Values:   make([][]float64, nfields),
		Errors:   make([][]float64, nfields),
		Missing:  make([][]bool, nfields),
		Selected: true,
	}
	for f := 0; f < nfields; f++ {
		s.Values[f] = make([]float64, npoints)
		s.Errors[f] = make([]float64, npoints)
		s.Missing[f] = make([]bool, npoints)
	}
	return s
}

func TestNewClusterShapes(Te *testing.T) {
	frqs := [][]float64{{1.0, 2.0}, {1.0, 2.0}}
	good := []*Spin{testSpin("a", 2, 5), testSpin("b", 2, 5)}
	if _, err := NewCluster(good, frqs); err != nil {
		Te.Fatal(err)
	}
	if _, err := NewCluster(nil, nil); err == nil {
		Te.Error("empty cluster should be rejected")
	}
	if _, err := NewCluster(good, frqs[:1]); err == nil {
		Te.Error("frequency table with the wrong spin count should be rejected")
	}
	ragged := []*Spin{testSpin("a", 2, 5), testSpin("b", 1, 5)}
	if _, err := NewCluster(ragged, frqs); err == nil {
		Te.Error("mismatched field counts should be rejected")
	}
	ragged2 := []*Spin{testSpin("a", 2, 5), testSpin("b", 2, 4)}
	if _, err := NewCluster(ragged2, frqs); err == nil {
		Te.Error("mismatched point counts should be rejected")
	}
	//the errors are *ParamError values
	_, err := NewCluster(nil, nil)
	var pe *ParamError
	if !errors.As(err, &pe) {
		Te.Errorf("want a *ParamError, got %T", err)
	}
}

func TestSpinCopyIsDeep(Te *testing.T) {
	s := testSpin("a", 1, 3)
	s.Values[0][1] = 7.0
	c := s.Copy()
	c.Values[0][1] = -1.0
	c.Missing[0][2] = true
	if s.Values[0][1] != 7.0 || s.Missing[0][2] {
		Te.Error("Copy shares backing arrays with the original")
	}
}

func TestKinetics(Te *testing.T) {
	k := NewKinetics(0.9, 1000.0)
	if math.Abs(k.PA+k.PB-1.0) > 1e-15 {
		Te.Errorf("populations do not sum to one: %v + %v", k.PA, k.PB)
	}
	if math.Abs(k.KAB-100.0) > 1e-10 || math.Abs(k.KBA-900.0) > 1e-10 {
		Te.Errorf("rate constants wrong: kAB %v, kBA %v", k.KAB, k.KBA)
	}
	if math.Abs(k.KAB+k.KBA-k.Kex) > 1e-10 {
		Te.Error("kAB + kBA should reconstruct kex")
	}
}

func TestConversions(Te *testing.T) {
	frq := LarmorFactor(600e6) //2*pi*600
	if math.Abs(frq-600.0*2.0*math.Pi) > 1e-9 {
		Te.Errorf("LarmorFactor: %v", frq)
	}
	if math.Abs(PPMToRad(2.0, frq)-2.0*frq) > 1e-9 {
		Te.Error("PPMToRad")
	}
	if math.Abs(PPM2ToRad2(2.0, frq)-2.0*frq*frq) > 1e-6 {
		Te.Error("PPM2ToRad2")
	}
}

func sampleSnapshot() *Snapshot {
	return &Snapshot{
		Model:       CR72.String(),
		ParamNames:  CR72.ParamNames(1, 1),
		Params:      []float64{5.0, 2.0, 0.92, 1500.0},
		ParamErrors: []float64{0.1, 0.05, 0.01, 120.0},
		Chi2:        12.5,
		K:           4,
		Iter:        183,
		Status:      "converged",
		Selected:    true,
		SimParams:   [][]float64{{5.1, 2.1, 0.91, 1480.0}, {4.9, 1.9, 0.93, 1530.0}},
		SimChi2:     []float64{11.0, 13.1},
		SimSelected: []bool{true, true},
	}
}

func TestSnapshotRoundTrip(Te *testing.T) {
	dir := Te.TempDir()
	for _, ext := range []string{"json", "gz", "zst"} {
		fname := filepath.Join(dir, "snap."+ext)
		s := sampleSnapshot()
		if err := s.Write(fname); err != nil {
			Te.Fatalf("%s: %v", ext, err)
		}
		r, err := ReadSnapshot(fname)
		if err != nil {
			Te.Fatalf("%s: %v", ext, err)
		}
		if r.Model != s.Model || r.Chi2 != s.Chi2 || r.Iter != s.Iter {
			Te.Errorf("%s: scalar fields did not survive: %+v", ext, r)
		}
		for i := range s.Params {
			if r.Params[i] != s.Params[i] || r.ParamErrors[i] != s.ParamErrors[i] {
				Te.Errorf("%s: parameter %d did not survive", ext, i)
			}
		}
		if len(r.SimParams) != 2 || r.SimParams[1][3] != 1530.0 {
			Te.Errorf("%s: simulation arrays did not survive", ext)
		}
		fmt.Println("snapshot round trip through", fname, "ok")
	}
}

func TestSnapshotExplicitFormat(Te *testing.T) {
	//an explicit format wins over the extension
	fname := filepath.Join(Te.TempDir(), "snap.dat")
	s := sampleSnapshot()
	if err := s.Write(fname, "gz"); err != nil {
		Te.Fatal(err)
	}
	if _, err := ReadSnapshot(fname); err == nil {
		Te.Error("reading gzip data as plain JSON should fail")
	}
	r, err := ReadSnapshot(fname, "gz")
	if err != nil {
		Te.Fatal(err)
	}
	if r.Chi2 != s.Chi2 {
		Te.Error("explicit-format round trip lost data")
	}
}

func TestBadParamDecorate(Te *testing.T) {
	err := BadParam("nmr.Test", "x", 42, "just testing")
	if err.Arg != "x" || err.Value != "42" {
		Te.Errorf("fields not set: %+v", err)
	}
	deco := err.Decorate("")
	if len(deco) != 1 || deco[0] != "nmr.Test" {
		Te.Errorf("initial decoration wrong: %v", deco)
	}
	deco = err.Decorate("caller2")
	if len(deco) != 2 || deco[1] != "caller2" {
		Te.Errorf("decoration not appended: %v", deco)
	}
}
