// Package stab adapts the polynomial-time stabilizer engine in
// stab/chp to the qc/simulator plugin surface, so a circuit built with
// qc/builder can be run on either the dense statevector oracle
// (qc/simulator/itsu) or this Clifford-only engine by name.
package stab

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cliffsim/cliffsim/internal/logger"
	"github.com/cliffsim/cliffsim/internal/qrand"
	"github.com/cliffsim/cliffsim/qc/circuit"
	"github.com/cliffsim/cliffsim/qc/simulator"
	"github.com/cliffsim/cliffsim/stab/chp"
	"github.com/rs/zerolog"
)

// StabOneShotRunner executes a circuit on a fresh stab/chp.Simulator per
// shot. Unlike the itsu backend it runs in time polynomial in qubit
// count, at the cost of only accepting the Clifford gate set chp
// implements plus MEASURE and R (reset).
type StabOneShotRunner struct {
	log     logger.Logger
	mu      sync.Mutex
	config  map[string]interface{}
	rng     *rand.Rand
	metrics stabMetrics
}

type stabMetrics struct {
	totalExecutions atomic.Int64
	successfulRuns  atomic.Int64
	failedRuns      atomic.Int64
	totalTime       atomic.Int64 // nanoseconds
	lastError       atomic.Value // string
	lastRunTime     atomic.Value // time.Time
}

// supportedGates is chp's Clifford catalogue plus the two operations the
// circuit model exposes that chp itself doesn't treat as gates: MEASURE
// (handled by Simulator.Measure) and R (handled by Simulator.Reset).
var supportedGates = append(append([]string{}, chp.SupportedGates()...), "MEASURE", "R")

func NewStabOneShotRunner() *StabOneShotRunner {
	return &StabOneShotRunner{
		log: *logger.NewLogger(logger.LoggerOptions{
			Debug: false,
		}),
		config: make(map[string]any),
		rng:    rand.New(rand.NewSource(qrand.QuantumSeed())),
	}
}

// BackendProvider implementation
func (s *StabOneShotRunner) GetBackendInfo() simulator.BackendInfo {
	return simulator.BackendInfo{
		Name:        "Stabilizer Tableau Simulator",
		Version:     "v1",
		Description: "Polynomial-time Clifford circuit simulator using the Aaronson-Gottesman stabilizer formalism",
		Vendor:      "cliffsim",
		Capabilities: map[string]bool{
			"context_support":    true,
			"batch_execution":    true,
			"circuit_validation": true,
			"metrics_collection": true,
			"configuration":      true,
			"reset":              true,
		},
		Metadata: map[string]string{
			"backend_type": "stabilizer_simulator",
			"language":     "go",
		},
	}
}

func (s *StabOneShotRunner) Configure(options map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, value := range options {
		s.config[key] = value
	}
	return nil
}

func (s *StabOneShotRunner) GetConfiguration() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := make(map[string]any, len(s.config))
	for k, v := range s.config {
		cfg[k] = v
	}
	return cfg
}

func (s *StabOneShotRunner) SetVerbose(verbose bool) {
	if verbose {
		s.log.Logger = s.log.Logger.Level(zerolog.DebugLevel)
	} else {
		s.log.Logger = s.log.Logger.Level(zerolog.InfoLevel)
	}
}

// nextRand derives a fresh, independently-seeded PRNG for one shot from
// the runner's shared source, guarded so concurrent workers don't race it.
func (s *StabOneShotRunner) nextRand() *rand.Rand {
	s.mu.Lock()
	defer s.mu.Unlock()
	seed := s.rng.Int63()
	return rand.New(rand.NewSource(seed))
}

func (s *StabOneShotRunner) RunOnce(c circuit.Circuit) (string, error) {
	start := time.Now()
	defer func() {
		s.metrics.totalExecutions.Add(1)
		s.metrics.totalTime.Add(int64(time.Since(start)))
		s.metrics.lastRunTime.Store(start)
	}()

	result, err := runOnce(chp.NewSimulator(c.Qubits(), s.nextRand()), c)
	if err != nil {
		s.metrics.failedRuns.Add(1)
		s.metrics.lastError.Store(err.Error())
	} else {
		s.metrics.successfulRuns.Add(1)
	}
	return result, err
}

// runOnce plays the circuit exactly once on sim, returning the measured
// classical bit-string (little-endian, matching qc/simulator/itsu).
func runOnce(sim *chp.Simulator, c circuit.Circuit) (string, error) {
	cbits := make([]byte, c.Clbits())
	for i := range cbits {
		cbits[i] = '0'
	}

	for i, op := range c.Operations() {
		name := op.G.Name()
		switch name {
		case "MEASURE":
			if op.Cbit < 0 || op.Cbit >= len(cbits) {
				return "", fmt.Errorf("stab: invalid classical bit index %d for MEASURE (op %d)", op.Cbit, i)
			}
			outcome, err := sim.Measure(op.Qubits[0])
			if err != nil {
				return "", fmt.Errorf("stab: measure failed at op %d: %w", i, err)
			}
			if outcome {
				cbits[op.Cbit] = '1'
			}
		case "R":
			if err := sim.Reset(op.Qubits[0]); err != nil {
				return "", fmt.Errorf("stab: reset failed at op %d: %w", i, err)
			}
		default:
			if err := sim.ApplyGate(name, op.Qubits); err != nil {
				return "", fmt.Errorf("stab: gate %s failed at op %d: %w", name, i, err)
			}
		}
	}
	return string(cbits), nil
}

func (s *StabOneShotRunner) Reset() {
	s.metrics.totalExecutions.Store(0)
	s.metrics.successfulRuns.Store(0)
	s.metrics.failedRuns.Store(0)
	s.metrics.totalTime.Store(0)
	s.metrics.lastError.Store("")
	s.metrics.lastRunTime.Store(time.Time{})
}

func (s *StabOneShotRunner) GetMetrics() simulator.ExecutionMetrics {
	totalExec := s.metrics.totalExecutions.Load()
	totalTimeNs := s.metrics.totalTime.Load()

	var avgTime time.Duration
	if totalExec > 0 {
		avgTime = time.Duration(totalTimeNs / totalExec)
	}

	lastErr, _ := s.metrics.lastError.Load().(string)
	lastRun, _ := s.metrics.lastRunTime.Load().(time.Time)

	return simulator.ExecutionMetrics{
		TotalExecutions: totalExec,
		SuccessfulRuns:  s.metrics.successfulRuns.Load(),
		FailedRuns:      s.metrics.failedRuns.Load(),
		AverageTime:     avgTime,
		TotalTime:       time.Duration(totalTimeNs),
		LastError:       lastErr,
		LastRunTime:     lastRun,
	}
}

func (s *StabOneShotRunner) ResetMetrics() { s.Reset() }

// ValidateCircuit rejects any gate this engine cannot apply — the dense
// oracle-only gates TOFFOLI and FREDKIN in particular — before a run
// gets anywhere near chp.Simulator.ApplyGate.
func (s *StabOneShotRunner) ValidateCircuit(c circuit.Circuit) error {
	for i, op := range c.Operations() {
		name := op.G.Name()
		if !slices.Contains(supportedGates, name) {
			return fmt.Errorf("%w: %s at operation %d", chp.ErrUnsupportedOperation, name, i)
		}
		for _, q := range op.Qubits {
			if q < 0 || q >= c.Qubits() {
				return fmt.Errorf("stab: invalid qubit index %d for gate %s (op %d)", q, name, i)
			}
		}
		if name == "MEASURE" && (op.Cbit < 0 || op.Cbit >= c.Clbits()) {
			return fmt.Errorf("stab: invalid classical bit index %d for MEASURE (op %d)", op.Cbit, i)
		}
	}
	return nil
}

func (s *StabOneShotRunner) GetSupportedGates() []string {
	gates := make([]string, len(supportedGates))
	copy(gates, supportedGates)
	return gates
}

func (s *StabOneShotRunner) RunOnceWithContext(ctx context.Context, c circuit.Circuit) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	resultChan := make(chan struct {
		result string
		err    error
	}, 1)

	go func() {
		result, err := s.RunOnce(c)
		resultChan <- struct {
			result string
			err    error
		}{result, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-resultChan:
		return res.result, res.err
	}
}

func (s *StabOneShotRunner) RunBatch(c circuit.Circuit, shots int) ([]string, error) {
	if shots <= 0 {
		return nil, fmt.Errorf("shots must be positive, got %d", shots)
	}
	results := make([]string, shots)
	for i := range shots {
		result, err := s.RunOnce(c)
		if err != nil {
			return results[:i], fmt.Errorf("batch execution failed at shot %d: %w", i+1, err)
		}
		results[i] = result
	}
	return results, nil
}

func init() {
	simulator.MustRegisterRunner("stab", func() simulator.OneShotRunner {
		return NewStabOneShotRunner()
	})
	simulator.MustRegisterRunner("chp", func() simulator.OneShotRunner {
		return NewStabOneShotRunner()
	})
}

var _ simulator.OneShotRunner = (*StabOneShotRunner)(nil)
