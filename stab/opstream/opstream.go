// Package opstream implements the external operation-record and
// output-bit-stream formats: a sequence of (name, targets[]) records in,
// one '0'/'1' plus newline per measured bit out, in target order, for
// each M record — matching original_source/chp_sim.cc's
// simulate(FILE *in, FILE *out), which reads a circuit file moment by
// moment and writes one measurement bit per line as it goes.
//
// The record syntax itself ("the parser is external") is this package's
// own choice: one record per line, "<NAME> <target> [<target> ...]",
// blank lines and '#' comments ignored. Any front end that can produce
// that text, or that wants a different syntax over the same Decoder/
// Encoder/Run plumbing, can swap NewDecoder's reader for its own.
package opstream

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cliffsim/cliffsim/qc/gate"
	"github.com/cliffsim/cliffsim/stab/chp"
)

// ErrMalformedRecord is returned for a record line that isn't a gate name
// followed by non-negative integer targets.
var ErrMalformedRecord = errors.New("opstream: malformed record")

// ErrArityMismatch is returned when a record's target count does not
// match its gate's qubit span.
var ErrArityMismatch = errors.New("opstream: target count does not match gate arity")

// Op is one decoded operation record.
type Op struct {
	Name    string
	Targets []int
}

// Decoder reads Op records from a text stream.
type Decoder struct {
	sc *bufio.Scanner
}

// NewDecoder wraps r for line-oriented record decoding.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{sc: bufio.NewScanner(r)}
}

// Decode reads and validates the next record, returning io.EOF once the
// stream is exhausted.
func (d *Decoder) Decode() (Op, error) {
	for d.sc.Scan() {
		line := strings.TrimSpace(d.sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		name := strings.ToUpper(fields[0])
		targets := make([]int, 0, len(fields)-1)
		for _, f := range fields[1:] {
			q, err := strconv.Atoi(f)
			if err != nil || q < 0 {
				return Op{}, fmt.Errorf("%w: invalid qubit index %q in %q", ErrMalformedRecord, f, line)
			}
			targets = append(targets, q)
		}

		if err := checkArity(name, len(targets)); err != nil {
			return Op{}, err
		}
		return Op{Name: name, Targets: targets}, nil
	}
	if err := d.sc.Err(); err != nil {
		return Op{}, err
	}
	return Op{}, io.EOF
}

// ReadAll decodes every remaining record in the stream.
func (d *Decoder) ReadAll() ([]Op, error) {
	var ops []Op
	for {
		op, err := d.Decode()
		if errors.Is(err, io.EOF) {
			return ops, nil
		}
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
}

// checkArity enforces that single-qubit gate names take exactly one
// target and two-qubit names exactly two, per spec.md's gate name table.
// M and R take however many targets the record lists, at least one.
func checkArity(name string, n int) error {
	switch name {
	case "M", "R":
		if n == 0 {
			return fmt.Errorf("%w: %s requires at least one target", ErrArityMismatch, name)
		}
		return nil
	}
	g, err := gate.Factory(name)
	if err != nil {
		return fmt.Errorf("opstream: %w", err)
	}
	if n != g.QubitSpan() {
		return fmt.Errorf("%w: %s expects %d target(s), got %d", ErrArityMismatch, name, g.QubitSpan(), n)
	}
	return nil
}

// Encoder writes the output bit stream: one '0'/'1' plus newline per bit,
// in the order WriteBit/WriteBits is called.
type Encoder struct {
	w *bufio.Writer
}

// NewEncoder wraps w for bit-stream encoding.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w)}
}

// WriteBit emits one measurement outcome.
func (e *Encoder) WriteBit(b bool) error {
	c := byte('0')
	if b {
		c = '1'
	}
	if err := e.w.WriteByte(c); err != nil {
		return err
	}
	return e.w.WriteByte('\n')
}

// WriteBits emits each outcome in order, as produced by an M record.
func (e *Encoder) WriteBits(bits []bool) error {
	for _, b := range bits {
		if err := e.WriteBit(b); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes any buffered bytes out to the underlying writer.
func (e *Encoder) Flush() error { return e.w.Flush() }

// Run decodes every record from r and drives sim with it, writing the
// resulting bit stream to w. Gate names and targets are applied directly
// (ApplyGate/Measure/Reset all grow sim's qubit count on demand, so no
// moment-by-moment qubit prescan like chp_sim.cc's is needed here).
func Run(sim *chp.Simulator, r io.Reader, w io.Writer) error {
	dec := NewDecoder(r)
	enc := NewEncoder(w)

	for {
		op, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			return enc.Flush()
		}
		if err != nil {
			return err
		}

		switch op.Name {
		case "M":
			bits, err := sim.MeasureMany(op.Targets)
			if err != nil {
				return fmt.Errorf("opstream: measuring %v: %w", op.Targets, err)
			}
			if err := enc.WriteBits(bits); err != nil {
				return fmt.Errorf("opstream: writing bits: %w", err)
			}
		case "R":
			if err := sim.ResetMany(op.Targets); err != nil {
				return fmt.Errorf("opstream: resetting %v: %w", op.Targets, err)
			}
		default:
			if err := sim.ApplyGate(op.Name, op.Targets); err != nil {
				return fmt.Errorf("opstream: applying %s: %w", op.Name, err)
			}
		}
	}
}
