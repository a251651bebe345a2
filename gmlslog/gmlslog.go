// Copyright 2024 The GMLS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package gmlslog is a thin wrapper around gosl/io's colored console
// printers, giving the engine and its callers one place to report progress
// and failures the way the rest of the stack does.
package gmlslog

import (
	"github.com/cpmech/gosl/io"

	"github.com/cpmech/gmls/gerr"
)

// Verbose controls whether Progress emits anything; off by default so a
// library consumer embedding the engine doesn't get unsolicited console
// output.
var Verbose = false

// Progress prints a progress line when Verbose is set, mirroring the
// "> stage description" lines the finite-element driver prints per stage.
func Progress(format string, args ...interface{}) {
	if !Verbose {
		return
	}
	io.Pf("> "+format, args...)
}

// Success prints a green completion line.
func Success(format string, args ...interface{}) {
	if !Verbose {
		return
	}
	io.PfGreen("> "+format, args...)
}

// Failure prints a red failure line and, if err is a *gerr.Error, includes
// its kind and target index.
func Failure(err error) {
	if !Verbose {
		return
	}
	if e, ok := err.(*gerr.Error); ok && e.Target != nil {
		io.PfRed("> failed at target %d: %v\n", *e.Target, err)
		return
	}
	io.PfRed("> failed: %v\n", err)
}
