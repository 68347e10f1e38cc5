// Package intcode provides an implementation of an Intcode computer,
// called Machine, that can be used to execute Intcode programs.
package intcode

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Machine is an Intcode computer.
type Machine struct {
	Mem Memory
	PC  int64
	In  Reader
	Out Writer

	// Trace, if non-nil, is called before each instruction is executed.
	Trace func(format string, args ...any)

	// Steps counts the instructions executed so far,
	// including HALT but not an instruction that failed.
	Steps int

	state State
	err   error
}

// State is the execution state of a Machine.
type State int

const (
	Running State = iota
	Halted
	Failed
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Halted:
		return "halted"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// NewMachine returns a Machine loaded with a copy of program,
// ready to execute from address 0.
func NewMachine(program []int64, in Reader, out Writer) *Machine {
	return &Machine{
		Mem: Memory(program).Clone(),
		In:  in,
		Out: out,
	}
}

// ErrHalt is returned by Step once the machine has executed HALT.
var ErrHalt = errors.New("halt")

// State reports the current execution state of m.
func (m *Machine) State() State { return m.state }

// Err returns the error that put m into the Failed state, or nil.
func (m *Machine) Err() error { return m.err }

// Run executes instructions until the machine halts or fails.
// It returns nil if the machine halted normally.
func (m *Machine) Run() error {
	for {
		if err := m.Step(); err == ErrHalt {
			return nil
		} else if err != nil {
			return err
		}
	}
}

// Step executes the instruction at m.PC. It returns ErrHalt if that
// instruction is HALT, and otherwise only returns a non-nil error if
// execution fails, in which case the error is a HaltError.
// Once the machine has halted or failed, Step does nothing and
// returns the same result again.
func (m *Machine) Step() error {
	switch m.state {
	case Halted:
		return ErrHalt
	case Failed:
		return m.err
	}
	err := m.exec()
	switch {
	case err == nil:
		m.Steps++
	case err == ErrHalt:
		m.Steps++
		m.state = Halted
	default:
		m.state, m.err = Failed, err
	}
	return err
}

func (m *Machine) exec() error {
	ins, err := Decode(m.Mem, m.PC)
	if err != nil {
		return err
	}
	if m.Trace != nil {
		m.Trace("%.4d %s", m.PC, Disassemble(ins))
	}
	var (
		pc   = m.PC
		word = m.Mem[pc]
		fail = func(code HaltCode, addr int64, err error) error {
			return HaltError{HaltCode: code, Word: word, PC: pc, Addr: addr, Err: err}
		}
		read = func(p Param) (int64, error) {
			if p.Mode == Immediate {
				return p.Raw, nil
			}
			v, ok := m.Mem.Get(p.Raw)
			if !ok {
				return 0, fail(OutOfBounds, p.Raw, nil)
			}
			return v, nil
		}
		// dest resolves p as a write target and checks it against
		// the bounds of memory, without writing anything.
		dest = func(p Param) (int64, error) {
			if p.Mode == Immediate {
				return 0, fail(InvalidWriteTarget, p.Raw, nil)
			}
			if _, ok := m.Mem.Get(p.Raw); !ok {
				return 0, fail(OutOfBounds, p.Raw, nil)
			}
			return p.Raw, nil
		}
		write = func(p Param, v int64) error {
			addr, err := dest(p)
			if err != nil {
				return err
			}
			m.Mem[addr] = v
			return nil
		}
		// binary reads a and b and stores f(a, b) at dst.
		binary = func(a, b, dst Param, f func(a, b int64) (int64, bool)) error {
			av, err := read(a)
			if err != nil {
				return err
			}
			bv, err := read(b)
			if err != nil {
				return err
			}
			v, ok := f(av, bv)
			if !ok {
				return fail(ArithmeticOverflow, 0, nil)
			}
			return write(dst, v)
		}
		jump = func(cond, target Param, taken func(int64) bool) error {
			c, err := read(cond)
			if err != nil {
				return err
			}
			if !taken(c) {
				m.PC += JNZ.Size()
				return nil
			}
			t, err := read(target)
			if err != nil {
				return err
			}
			if t < 0 {
				return fail(OutOfBounds, t, nil)
			}
			m.PC = t
			return nil
		}
	)

	switch ins := ins.(type) {
	case Add:
		err = binary(ins.A, ins.B, ins.Dst, add)
	case Mul:
		err = binary(ins.A, ins.B, ins.Dst, mul)
	case LessThan:
		err = binary(ins.A, ins.B, ins.Dst, func(a, b int64) (int64, bool) {
			return boolInt(a < b), true
		})
	case Equals:
		err = binary(ins.A, ins.B, ins.Dst, func(a, b int64) (int64, bool) {
			return boolInt(a == b), true
		})
	case Input:
		if _, err := dest(ins.Dst); err != nil {
			return err
		}
		if m.In == nil {
			return fail(InputExhausted, 0, nil)
		}
		v, rerr := m.In.ReadInt()
		if rerr != nil {
			return fail(inputCode(rerr), 0, rerr)
		}
		err = write(ins.Dst, v)
	case Output:
		v, rerr := read(ins.Src)
		if rerr != nil {
			return rerr
		}
		if m.Out == nil {
			return fail(OutputFailed, v, nil)
		}
		if werr := m.Out.WriteInt(v); werr != nil {
			return fail(OutputFailed, v, werr)
		}
	case JumpIfTrue:
		return jump(ins.Cond, ins.Target, func(c int64) bool { return c != 0 })
	case JumpIfFalse:
		return jump(ins.Cond, ins.Target, func(c int64) bool { return c == 0 })
	case Halt:
		return ErrHalt
	default:
		panic(fmt.Errorf("internal error: %T not implemented", ins))
	}
	if err != nil {
		return err
	}
	m.PC += ins.Op().Size()
	return nil
}

func inputCode(err error) HaltCode {
	var numErr *strconv.NumError
	switch {
	case errors.Is(err, ErrInputExhausted):
		return InputExhausted
	case errors.As(err, &numErr):
		return InputParseError
	}
	return InputFailed
}

func add(a, b int64) (int64, bool) {
	c := a + b
	if (b > 0 && c < a) || (b < 0 && c > a) {
		return 0, false
	}
	return c, true
}

func mul(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	c := a * b
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) || c/b != a {
		return 0, false
	}
	return c, true
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// HaltError is returned by Step and Run if execution fails.
type HaltError struct {
	HaltCode
	Word int64 // instruction word being executed
	PC   int64 // address of that instruction
	Addr int64 // offending address or value, depending on HaltCode
	Err  error // underlying Reader or Writer error, if any
}

func (e HaltError) Error() string {
	var what string
	switch e.HaltCode {
	case OutOfBounds, InvalidWriteTarget:
		what = fmt.Sprintf("%s %d", e.HaltCode, e.Addr)
	default:
		what = e.HaltCode.String()
	}
	if e.Err != nil {
		what += ": " + e.Err.Error()
	}
	op, _ := SplitWord(e.Word)
	if !op.Valid() && e.HaltCode != InvalidOpcode {
		return fmt.Sprintf("%s at %.4d", what, e.PC)
	}
	return fmt.Sprintf("%s executing %s (%d) at %.4d", what, op, e.Word, e.PC)
}

func (e HaltError) Unwrap() error { return e.Err }

// Is reports whether target is e's HaltCode, so that callers
// may write errors.Is(err, intcode.OutOfBounds).
func (e HaltError) Is(target error) bool {
	c, ok := target.(HaltCode)
	return ok && c == e.HaltCode
}

// HaltCode signifies the type of condition that halted execution.
type HaltCode byte

const (
	InvalidOpcode HaltCode = iota + 1
	TruncatedInstruction
	OutOfBounds
	InvalidWriteTarget
	InputExhausted
	InputParseError
	InputFailed
	OutputFailed
	ArithmeticOverflow
)

func (c HaltCode) String() string {
	if s, ok := map[HaltCode]string{
		InvalidOpcode:        "invalid opcode",
		TruncatedInstruction: "truncated instruction",
		OutOfBounds:          "out of bounds address",
		InvalidWriteTarget:   "immediate write target",
		InputExhausted:       "input exhausted",
		InputParseError:      "invalid input",
		InputFailed:          "input failed",
		OutputFailed:         "output failed",
		ArithmeticOverflow:   "arithmetic overflow",
	}[c]; ok {
		return s
	}
	return fmt.Sprintf("unknown (%.2x)", byte(c))
}

func (c HaltCode) Error() string { return c.String() }
