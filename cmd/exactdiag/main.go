// SPDX-License-Identifier: MIT

// Command exactdiag runs block-decomposed exact diagonalization of
// fermionic lattice models described by a YAML run file.
//
//	exactdiag run -c dimer.yaml --workers 4
//	exactdiag plot results.yaml -o gf.png
package main

import (
	"fmt"
	"os"
)

// version is overridden at link time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "exactdiag:", err)
		os.Exit(1)
	}
}
