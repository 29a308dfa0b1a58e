package curveplot

import (
	"os"
	"path/filepath"
	"testing"

	"nmr"
	"nmr/dispersion"
	"nmr/target"
)

func fittedLM63(Te *testing.T) (*target.Dispersion, []float64) {
	ncyc := []float64{2, 4, 8, 10, 20, 40, 500}
	relaxT := 0.04
	axis := make([]float64, len(ncyc))
	for i, n := range ncyc {
		axis[i] = n / relaxT
	}
	frq := nmr.LarmorFactor(600e6)
	params := []float64{2.0, 0.2, 1200.0} //r20, phi_ex (ppm^2), kex
	sp := &nmr.Spin{
		Name:     "G10",
		Values:   [][]float64{make([]float64, len(axis))},
		Errors:   [][]float64{make([]float64, len(axis))},
		Missing:  [][]bool{make([]bool, len(axis))},
		Selected: true,
	}
	dispersion.LM63(params[0], nmr.PPM2ToRad2(params[1], frq), params[2], axis, sp.Values[0])
	for i := range sp.Errors[0] {
		sp.Errors[0][i] = 0.3
	}
	sp.Missing[0][2] = true
	cluster, err := nmr.NewCluster([]*nmr.Spin{sp}, [][]float64{{frq}})
	if err != nil {
		Te.Fatal(err)
	}
	cond := &nmr.Conditions{Experiment: nmr.CPMG, CpmgFrqs: axis, RelaxTime: relaxT}
	obj, err := target.NewDispersion(nmr.LM63, cluster, cond)
	if err != nil {
		Te.Fatal(err)
	}
	return obj, params
}

func TestDispersionPNG(Te *testing.T) {
	obj, params := fittedLM63(Te)
	fname := filepath.Join(Te.TempDir(), "G10.png")
	if err := Dispersion(obj, params, 0, 0, fname); err != nil {
		Te.Fatal(err)
	}
	info, err := os.Stat(fname)
	if err != nil {
		Te.Fatal(err)
	}
	if info.Size() == 0 {
		Te.Error("empty plot file")
	}
}

func TestDispersionBadIndices(Te *testing.T) {
	obj, params := fittedLM63(Te)
	fname := filepath.Join(Te.TempDir(), "bad.png")
	if err := Dispersion(obj, params, 5, 0, fname); err == nil {
		Te.Error("out-of-range spin index should be an error")
	}
	if err := Dispersion(obj, params, 0, -1, fname); err == nil {
		Te.Error("out-of-range field index should be an error")
	}
}
