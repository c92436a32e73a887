// Copyright 2026 The Gowave Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/plt"
)

// Styles holds one set of plot arguments per curve
type Styles []plt.A

// colour cycle for profile curves
var profileColors = []string{"b", "g", "r", "c", "m", "y", "k", "orange"}

// ReceiverStyles returns the styles for the vx, vy and vz receiver series
func ReceiverStyles() Styles {
	return Styles{
		{C: "b", Lw: 1, L: GetTexLabel("vx", "")},
		{C: "g", Lw: 1, L: GetTexLabel("vy", "")},
		{C: "r", Lw: 1, L: GetTexLabel("vz", "")},
	}
}

// ProfileStyles returns one style per snapshot profile, labelled by time
func ProfileStyles(times []float64) Styles {
	sty := make([]plt.A, len(times))
	for i, t := range times {
		sty[i].C = profileColors[i%len(profileColors)]
		sty[i].Lw = 1
		sty[i].L = io.Sf("t=%.3g us", t*1e6)
	}
	return sty
}

// GetTexLabel returns the TeX label of a plot quantity
func GetTexLabel(key, unit string) string {
	l := "$"
	switch key {
	case "time":
		l += "t"
	case "vx":
		l += "v_x"
	case "vy":
		l += "v_y"
	case "vz":
		l += "v_z"
	case "vmag":
		l += "|v|"
	case "z":
		l += "z"
	case "damage":
		l += "D"
	default:
		l += key
	}
	if unit != "" {
		l += "\\;" + unit
	}
	l += "$"
	return l
}
