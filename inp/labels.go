// Copyright 2026 The Gowave Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/mattemangia/gowave/vol"
)

// ReadLabels reads a segmented label volume from a raw uint8 file laid out
// x-fastest (idx = i + j·nx + k·nx·ny), the layout segmentation tools export
func ReadLabels(fn string, nx, ny, nz int) (labels *vol.U8, err error) {
	b, err := io.ReadFile(fn)
	if err != nil {
		return nil, err
	}
	n := nx * ny * nz
	if len(b) != n {
		return nil, chk.Err("labels file %q holds %d bytes but the grid needs %d", fn, len(b), n)
	}
	labels = vol.NewU8(nx, ny, nz)
	copy(labels.X, b)
	return
}
