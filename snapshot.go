/*
 * snapshot.go, part of goNMR.
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

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Snapshot is a plain serializable image of one fitted instance (a spin or a cluster):
// the model tag, the named parameter vector with its Monte Carlo errors, the fit
// statistics, and the per-simulation arrays when an ensemble was run. It carries no
// behaviour; external report writers consume it as data.
type Snapshot struct {
	Model       string      `json:"model"`
	ParamNames  []string    `json:"param_names"`
	Params      []float64   `json:"params"`
	ParamErrors []float64   `json:"param_errors,omitempty"`
	Chi2        float64     `json:"chi2"`
	K           int         `json:"k"`
	Iter        int         `json:"iter"`
	Status      string      `json:"status"`
	Selected    bool        `json:"selected"`
	SimParams   [][]float64 `json:"sim_params,omitempty"`
	SimChi2     []float64   `json:"sim_chi2,omitempty"`
	SimSelected []bool      `json:"sim_selected,omitempty"`
}

// Write writes the snapshot as JSON to fname. The compression is taken from the format
// string, or deduced from the file extension if the format string is empty: .zst
// (zstd), .gz (gzip), anything else is written uncompressed. An unknown extension is
// logged and plain JSON is assumed, so Write only fails on I/O or encoding problems.
func (S *Snapshot) Write(fname string, format ...string) error {
	fk := snapshotFormat(fname, format...)
	f, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("goNMR/nmr.Snapshot.Write: %v", err)
	}
	defer f.Close()
	var h io.WriteCloser
	switch fk {
	case "zst":
		h, err = zstd.NewWriter(f)
		if err != nil {
			return fmt.Errorf("goNMR/nmr.Snapshot.Write: %v", err)
		}
	case "gz":
		h = gzip.NewWriter(f)
	default:
		h = f
	}
	enc := json.NewEncoder(h)
	if err := enc.Encode(S); err != nil {
		return fmt.Errorf("goNMR/nmr.Snapshot.Write: %v", err)
	}
	if h != io.WriteCloser(f) {
		if err := h.Close(); err != nil {
			return fmt.Errorf("goNMR/nmr.Snapshot.Write: %v", err)
		}
	}
	return nil
}

// ReadSnapshot reads a snapshot written by Write, deducing the compression the same
// way.
func ReadSnapshot(fname string, format ...string) (*Snapshot, error) {
	fk := snapshotFormat(fname, format...)
	f, err := os.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("goNMR/nmr.ReadSnapshot: %v", err)
	}
	defer f.Close()
	var r io.Reader = bufio.NewReader(f)
	switch fk {
	case "zst":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("goNMR/nmr.ReadSnapshot: %v", err)
		}
		defer zr.Close()
		r = zr
	case "gz":
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("goNMR/nmr.ReadSnapshot: %v", err)
		}
		defer gr.Close()
		r = gr
	}
	ret := new(Snapshot)
	if err := json.NewDecoder(r).Decode(ret); err != nil {
		return nil, fmt.Errorf("goNMR/nmr.ReadSnapshot: %v", err)
	}
	return ret, nil
}

// snapshotFormat resolves the compression key from an explicit format or the file
// extension.
func snapshotFormat(fname string, format ...string) string {
	var fk string
	if len(format) > 0 && format[0] != "" {
		fk = format[0]
	} else {
		temp := strings.Split(fname, ".")
		fk = strings.ToLower(temp[len(temp)-1])
	}
	switch fk {
	case "zst", "gz":
		return fk
	case "json":
		return "json"
	}
	if len(format) > 0 && format[0] != "" {
		log.Printf("goNMR/nmr.snapshotFormat: unknown format %q, writing plain JSON", fk)
	}
	return "json"
}
