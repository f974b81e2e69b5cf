// Package calc implements the peripheral's calculator protocol: a byte-fed
// state machine accepting "digits operator digits" and answering on '='.
package calc

import "calcbridge-go/x/mathx"

// Terminator ends an expression and triggers a computation.
const Terminator = '='

// Phase is what the engine expects next.
type Phase uint8

const (
	AwaitingFirstOperand Phase = iota
	AwaitingSecondOperand
)

func (p Phase) String() string {
	switch p {
	case AwaitingSecondOperand:
		return "awaiting_second_operand"
	default:
		return "awaiting_first_operand"
	}
}

// IsOperator reports whether c is one of + - * /.
func IsOperator(c byte) bool {
	switch c {
	case '+', '-', '*', '/':
		return true
	}
	return false
}

// State is a copy of the engine's parse state.
type State struct {
	First  string
	Op     byte
	Second string
	Phase  Phase
}

// Engine holds the expression being typed. The zero value is not ready; use
// New. An Engine is owned by a single receive handler and is not safe for
// concurrent use.
type Engine struct {
	first  Operand
	second Operand
	op     byte
	phase  Phase
}

func New() *Engine {
	e := &Engine{}
	e.Reset()
	return e
}

// Reset returns the engine to AwaitingFirstOperand with empty operands and
// the default operator.
func (e *Engine) Reset() {
	e.first.Clear()
	e.second.Clear()
	e.op = '+'
	e.phase = AwaitingFirstOperand
}

func (e *Engine) State() State {
	return State{
		First:  e.first.String(),
		Op:     e.op,
		Second: e.second.String(),
		Phase:  e.phase,
	}
}

// Transition feeds one input character. It reports whether the character
// was accepted; rejected input leaves the state unchanged.
func (e *Engine) Transition(c byte) bool {
	switch e.phase {
	case AwaitingFirstOperand:
		if isDigit(c) {
			return e.first.Append(c)
		}
		if IsOperator(c) {
			e.op = c
			e.phase = AwaitingSecondOperand
			return true
		}
		return false
	case AwaitingSecondOperand:
		return e.second.Append(c)
	}
	return false
}

// Compute evaluates the current expression and resets the engine.
//
// Without an operator the result is the first operand. Addition and
// multiplication wrap modulo 2^32, subtraction saturates at 0 and a zero
// divisor is replaced by 1.
func (e *Engine) Compute() uint32 {
	r := e.first.Value()
	if e.phase == AwaitingSecondOperand {
		r = Apply(e.op, r, e.second.Value())
	}
	e.Reset()
	return r
}

// Apply evaluates a op b with the engine's numeric policies. An unknown
// operator yields 0.
func Apply(op byte, a, b uint32) uint32 {
	switch op {
	case '+':
		return a + b
	case '*':
		return a * b
	case '-':
		return mathx.SatSub(a, b)
	case '/':
		return mathx.WrapDiv(a, b)
	}
	return 0
}

// Process is the bridge hook: on the terminator it appends the reply, on an
// accepted character it appends the echo, otherwise nothing.
func (e *Engine) Process(dst []byte, c byte) []byte {
	if c == Terminator {
		return AppendReply(dst, e.Compute())
	}
	if e.Transition(c) {
		dst = append(dst, c)
	}
	return dst
}
