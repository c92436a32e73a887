// Copyright 2026 The Gowave Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fdtd

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func Test_chunk01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("chunk01. side-file round-trip is bit-identical")

	dir := filepath.Join(os.TempDir(), "gowave", "chunk01")
	os.MkdirAll(dir, 0777)
	defer os.RemoveAll(dir)

	c := NewChunk(5, 4, 6, 3)
	c.Alloc()
	for fi, fld := range c.Fields() {
		for p := range fld.X {
			fld.X[p] = float32(math.Sin(float64(p*7+fi*13) * 0.731))
		}
	}
	want := make([][]float32, 9)
	for fi, fld := range c.Fields() {
		want[fi] = append([]float32(nil), fld.X...)
	}

	err := c.Save(dir)
	if err != nil {
		tst.Errorf("save failed: %v\n", err)
		return
	}
	c.Release()
	if c.Resident() {
		tst.Errorf("chunk must not be resident after release\n")
	}

	err = c.Load(dir)
	if err != nil {
		tst.Errorf("load failed: %v\n", err)
		return
	}
	for fi, fld := range c.Fields() {
		for p := range fld.X {
			if fld.X[p] != want[fi][p] {
				tst.Errorf("field %d voxel %d: %v != %v\n", fi, p, fld.X[p], want[fi][p])
				return
			}
		}
	}
	io.Pf("all 9 fields reproduced exactly\n")
}

func Test_chunk02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("chunk02. bad side-files are rejected")

	dir := filepath.Join(os.TempDir(), "gowave", "chunk02")
	os.MkdirAll(dir, 0777)
	defer os.RemoveAll(dir)

	// missing file
	c := NewChunk(4, 4, 0, 2)
	if err := c.Load(dir); err == nil {
		tst.Errorf("loading a missing side-file must fail\n")
	}

	// wrong magic
	err := os.WriteFile(c.FileName(dir), []byte("not a chunk dump at all"), 0666)
	if err != nil {
		tst.Errorf("cannot write test file: %v\n", err)
		return
	}
	if err := c.Load(dir); err == nil {
		tst.Errorf("loading a corrupt side-file must fail\n")
	}
	if c.Resident() {
		tst.Errorf("a failed load must not leave arrays behind\n")
	}

	// geometry mismatch
	good := NewChunk(4, 4, 0, 2)
	good.Alloc()
	if err := good.Save(dir); err != nil {
		tst.Errorf("save failed: %v\n", err)
		return
	}
	other := NewChunk(4, 5, 0, 2)
	if err := other.Load(dir); err == nil {
		tst.Errorf("a side-file with different geometry must be rejected\n")
	}
}
