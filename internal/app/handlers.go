package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/cliffsim/cliffsim/qc/circuit"
	"github.com/cliffsim/cliffsim/qc/dag"
	"github.com/cliffsim/cliffsim/qc/gate"
	"github.com/cliffsim/cliffsim/qc/simulator"
	"github.com/cliffsim/cliffsim/stab/crosscheck"

	// Registering a backend by name requires importing its package for
	// its init() side effect.
	_ "github.com/cliffsim/cliffsim/qc/simulator/itsu"
	_ "github.com/cliffsim/cliffsim/qc/simulator/stab"
)

// OperationRequest is one gate/measurement record in a CircuitRequest, in
// the same (name, targets) shape as stab/opstream's text records.
type OperationRequest struct {
	Name    string `json:"name" binding:"required"`
	Targets []int  `json:"targets" binding:"required"`
	// Cbit names the classical bit an M record's single target is
	// written to. Ignored for every other gate. Defaults to the target
	// qubit index when omitted.
	Cbit *int `json:"cbit,omitempty"`
}

// CircuitRequest is the JSON body accepted by POST /api/v1/circuits:execute.
type CircuitRequest struct {
	Qubits     int                `json:"qubits" binding:"required"`
	Clbits     int                `json:"clbits,omitempty"`
	Operations []OperationRequest `json:"operations" binding:"required"`
	Backend    string             `json:"backend,omitempty"`
	Shots      int                `json:"shots,omitempty"`
}

// CircuitResponse is the JSON body returned by a successful execution.
type CircuitResponse struct {
	Backend       string         `json:"backend"`
	Shots         int            `json:"shots"`
	Counts        map[string]int `json:"counts"`
	ExecutionTime float64        `json:"execution_time_ms"`
}

var internalServerErrorMsg = "Internal Server Error - please contact the administrator"

const maxRequestQubits = 28

// RootHandler is the handler for the / endpoint.
func (a *appServer) RootHandler(c *gin.Context) {
	l, err := a.getLoggerFromContext(c)
	if err != nil {
		panic("logger not found in context")
	}
	l.Debug().Msg("serving root endpoint")

	c.JSON(http.StatusOK, gin.H{
		"name":     "cliffsim",
		"version":  a.version,
		"backends": simulator.ListRunners(),
	})
}

// HealthHandler is the handler for the /health endpoint.
func (a *appServer) HealthHandler(c *gin.Context) {
	l, err := a.getLoggerFromContext(c)
	if err != nil {
		panic("logger not found in context")
	}
	l.Debug().Msg("serving health endpoint")
	c.String(http.StatusOK, "OK")
}

// ExecuteCircuit is the handler for POST /api/v1/circuits:execute: it
// builds a circuit from the request body, runs it for the requested
// number of shots on the requested backend, and returns the resulting
// outcome histogram.
func (a *appServer) ExecuteCircuit(c *gin.Context) {
	l, err := a.getLoggerFromContext(c)
	if err != nil {
		panic("logger not found in context")
	}
	l.Debug().Msg("serving circuit execution endpoint")

	var req CircuitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Error().Err(err).Msg("binding JSON failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	if req.Qubits <= 0 || req.Qubits > maxRequestQubits {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("qubits must be in [1, %d]", maxRequestQubits)})
		return
	}
	if req.Clbits <= 0 {
		req.Clbits = req.Qubits
	}
	if req.Shots <= 0 {
		req.Shots = a.config.GetInt("default_shots")
	}
	if req.Backend == "" {
		req.Backend = a.config.GetString("default_backend")
	}

	circ, err := buildCircuitFromRequest(req)
	if err != nil {
		l.Error().Err(err).Msg("building circuit failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to build circuit: " + err.Error()})
		return
	}

	start := time.Now()
	counts, err := executeCircuit(circ, req.Backend, req.Shots)
	elapsed := time.Since(start)
	if err != nil {
		l.Error().Err(err).Str("backend", req.Backend).Msg("circuit execution failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "circuit execution failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, CircuitResponse{
		Backend:       req.Backend,
		Shots:         req.Shots,
		Counts:        counts,
		ExecutionTime: elapsed.Seconds() * 1000,
	})
}

// buildCircuitFromRequest converts the JSON request into a validated
// circuit, dispatching every gate name through the same qc/gate.Factory
// the text op-stream parser uses so the two front ends accept exactly the
// same catalogue.
func buildCircuitFromRequest(req CircuitRequest) (circuit.Circuit, error) {
	d := dag.New(req.Qubits, req.Clbits)

	for i, op := range req.Operations {
		switch op.Name {
		case "M", "MEASURE":
			if len(op.Targets) != 1 {
				return nil, fmt.Errorf("operation %d: %s requires exactly 1 target", i, op.Name)
			}
			cbit := op.Targets[0]
			if op.Cbit != nil {
				cbit = *op.Cbit
			}
			if err := d.AddMeasure(op.Targets[0], cbit); err != nil {
				return nil, fmt.Errorf("operation %d: %w", i, err)
			}
		default:
			g, err := gate.Factory(op.Name)
			if err != nil {
				return nil, fmt.Errorf("operation %d: %w", i, err)
			}
			if err := d.AddGate(g, op.Targets); err != nil {
				return nil, fmt.Errorf("operation %d: %w", i, err)
			}
		}
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}
	return circuit.FromDAG(d), nil
}

// executeCircuit runs circ for shots executions on the named backend and
// returns the resulting outcome histogram.
func executeCircuit(circ circuit.Circuit, backend string, shots int) (map[string]int, error) {
	runner, err := simulator.CreateRunner(backend)
	if err != nil {
		return nil, fmt.Errorf("creating %s runner: %w", backend, err)
	}

	sim := simulator.NewSimulator(simulator.SimulatorOptions{
		Shots:  shots,
		Runner: runner,
	})

	counts, err := sim.RunSerial(circ)
	if err != nil {
		return nil, fmt.Errorf("running circuit: %w", err)
	}
	return counts, nil
}

// CrossCheckRequest is the JSON body accepted by
// POST /api/v1/circuits:crosscheck.
type CrossCheckRequest struct {
	Qubits     int                `json:"qubits" binding:"required"`
	Clbits     int                `json:"clbits,omitempty"`
	Operations []OperationRequest `json:"operations" binding:"required"`
	Shots      int                `json:"shots,omitempty"`
}

// CrossCheckCircuit runs the same circuit on the stabilizer engine and on
// the dense itsubaki/q oracle and reports how far their empirical
// measurement distributions diverge — an HTTP-reachable form of the
// differential oracle stab/crosscheck exists to provide.
func (a *appServer) CrossCheckCircuit(c *gin.Context) {
	l, err := a.getLoggerFromContext(c)
	if err != nil {
		panic("logger not found in context")
	}
	l.Debug().Msg("serving crosscheck endpoint")

	var req CrossCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}
	if req.Qubits <= 0 || req.Qubits > maxRequestQubits {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("qubits must be in [1, %d]", maxRequestQubits)})
		return
	}
	if req.Clbits <= 0 {
		req.Clbits = req.Qubits
	}
	if req.Shots <= 0 {
		req.Shots = a.config.GetInt("default_shots")
	}

	circ, err := buildCircuitFromRequest(CircuitRequest{
		Qubits:     req.Qubits,
		Clbits:     req.Clbits,
		Operations: req.Operations,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to build circuit: " + err.Error()})
		return
	}

	report, err := crosscheck.Compare(circ, req.Shots)
	if err != nil {
		l.Error().Err(err).Msg("crosscheck failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}
