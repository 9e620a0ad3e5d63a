package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"mpsim/gate"
	"mpsim/mps"
	"mpsim/sim"
	"mpsim/store"
)

var (
	n        = flag.Int("n", 8, "number of qubits")
	circuit  = flag.String("circuit", "ghz", "benchmark circuit (ghz|random)")
	depth    = flag.Int("depth", 4, "random circuit depth")
	maxBond  = flag.Int("maxbond", 16, "maximum bond dimension, 0 for unbounded")
	cutoff   = flag.Float64("cutoff", 0, "relative singular value cutoff")
	samples  = flag.Int("samples", 16, "measurement samples to draw")
	seed     = flag.Uint64("seed", 0, "RNG seed")
	dbPath   = flag.String("db", "", "sqlite database for run records")
	stateVec = flag.Bool("statevector", false, "print the full state vector")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds | log.Llongfile | log.LstdFlags)

	if err := mainWithErr(); err != nil {
		log.Fatalf("%+v", err)
	}
}

func mainWithErr() error {
	ops, err := buildCircuit(*circuit, *n, *depth, *seed)
	if err != nil {
		return errors.Wrap(err, "")
	}

	cfg := sim.Config{
		Qudits:      *n,
		Dim:         2,
		Policy:      mps.TruncationPolicy{MaxBond: *maxBond, Cutoff: *cutoff},
		StateVector: *stateVec,
		Samples:     *samples,
		Seed:        *seed,
	}
	res, err := sim.Run(cfg, ops)
	if err != nil {
		return errors.Wrap(err, *circuit)
	}

	fmt.Printf("id,circuit,n,maxbond,cutoff,discarded,maxdim\n")
	fmt.Printf("%s,%s,%d,%d,%g,%g,%d\n", res.ID, *circuit, *n, *maxBond, *cutoff, res.DiscardedWeight, maxDim(res.BondDims))

	if *stateVec {
		for i, a := range res.State {
			p := float64(real(a)*real(a) + imag(a)*imag(a))
			if p < 1e-12 {
				continue
			}
			fmt.Printf("%0*b %v\n", *n, i, a)
		}
	}
	if len(res.Samples) > 0 {
		printSampleCounts(res.Samples)
	}

	if *dbPath != "" {
		db, err := store.Open(*dbPath)
		if err != nil {
			return errors.Wrap(err, *dbPath)
		}
		defer db.Close()
		rec := store.Record{
			ID:              res.ID,
			Qudits:          *n,
			Dim:             2,
			MaxBond:         *maxBond,
			Cutoff:          *cutoff,
			DiscardedWeight: res.DiscardedWeight,
			BondDims:        res.BondDims,
			Samples:         res.Samples,
		}
		if err := db.Save(rec); err != nil {
			return errors.Wrap(err, res.ID)
		}
		log.Printf("saved %s to %s", res.ID, *dbPath)
	}
	return nil
}

func buildCircuit(kind string, n, depth int, seed uint64) ([]gate.Operation, error) {
	switch kind {
	case "ghz":
		ops := []gate.Operation{gate.H(0)}
		for q := 0; q+1 < n; q++ {
			ops = append(ops, gate.CNOT(q, q+1))
		}
		return ops, nil
	case "random":
		return randomCircuit(n, depth, seed), nil
	default:
		return nil, errors.Errorf("unknown circuit %q", kind)
	}
}

// randomCircuit builds depth layers of random single-qubit rotations followed
// by a brick pattern of CNOTs.
func randomCircuit(n, depth int, seed uint64) []gate.Operation {
	rng := rand.New(rand.NewPCG(seed, seed))
	ops := make([]gate.Operation, 0)
	for layer := 0; layer < depth; layer++ {
		for q := 0; q < n; q++ {
			ops = append(ops, gate.RZ(q, 2*math.Pi*rng.Float64()))
			ops = append(ops, gate.RX(q, 2*math.Pi*rng.Float64()))
		}
		for q := layer % 2; q+1 < n; q += 2 {
			ops = append(ops, gate.CNOT(q, q+1))
		}
	}
	return ops
}

func printSampleCounts(samples [][]int) {
	counts := make(map[string]int)
	for _, outcome := range samples {
		ss := make([]string, 0, len(outcome))
		for _, s := range outcome {
			ss = append(ss, fmt.Sprintf("%d", s))
		}
		counts[strings.Join(ss, "")]++
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s %d\n", k, counts[k])
	}
}

func maxDim(dims []int) int {
	m := 1
	for _, d := range dims {
		if d > m {
			m = d
		}
	}
	return m
}
