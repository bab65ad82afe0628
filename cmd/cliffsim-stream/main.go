// Command cliffsim-stream drives a stabilizer simulator straight from the
// text operation-stream format: one record per line in, one measurement
// bit per line out, matching original_source/chp_sim.cc's file-to-file
// simulate() mode.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"

	"github.com/cliffsim/cliffsim/stab/chp"
	"github.com/cliffsim/cliffsim/stab/opstream"
)

func main() {
	qubits := flag.Int("qubits", 0, "initial qubit count (grows automatically as larger indices are referenced)")
	seed := flag.Int64("seed", 0, "PRNG seed; 0 picks a random seed")
	flag.Parse()

	var in io.Reader = os.Stdin
	if path := flag.Arg(0); path != "" {
		f, err := os.Open(path)
		if err != nil {
			log.Fatalf("opening %s: %v", path, err)
		}
		defer f.Close()
		in = f
	}

	s := *seed
	if s == 0 {
		s = rand.Int63()
	}
	sim := chp.NewSimulator(*qubits, rand.New(rand.NewSource(s)))

	if err := opstream.Run(sim, in, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "cliffsim-stream:", err)
		os.Exit(1)
	}
}
