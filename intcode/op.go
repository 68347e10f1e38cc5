package intcode

import "fmt"

// Op represents an Intcode opcode, the two low decimal digits
// of an instruction word.
type Op int64

const (
	ADD  Op = 1
	MUL  Op = 2
	IN   Op = 3
	OUT  Op = 4
	JNZ  Op = 5 // jump-if-true
	JZ   Op = 6 // jump-if-false
	LTH  Op = 7
	EQU  Op = 8
	HALT Op = 99
)

var opStrings = map[Op]string{
	ADD:  "ADD",
	MUL:  "MUL",
	IN:   "IN",
	OUT:  "OUT",
	JNZ:  "JNZ",
	JZ:   "JZ",
	LTH:  "LTH",
	EQU:  "EQU",
	HALT: "HALT",
}

func (o Op) String() string {
	if s, ok := opStrings[o]; ok {
		return s
	}
	return fmt.Sprintf("op(%d)", int64(o))
}

// Valid reports whether o is a supported opcode.
func (o Op) Valid() bool {
	_, ok := opStrings[o]
	return ok
}

// Size returns the number of memory cells occupied by an instruction with
// opcode o, including the instruction word itself. It returns 0 for an
// unsupported opcode.
func (o Op) Size() int64 {
	switch o {
	case ADD, MUL, LTH, EQU:
		return 4
	case JNZ, JZ:
		return 3
	case IN, OUT:
		return 2
	case HALT:
		return 1
	}
	return 0
}

// Mode is a parameter addressing mode.
type Mode int64

const (
	Positional Mode = 0 // the parameter is an address
	Immediate  Mode = 1 // the parameter is the value
)

func (m Mode) String() string {
	switch m {
	case Positional:
		return "positional"
	case Immediate:
		return "immediate"
	default:
		return fmt.Sprintf("mode(%d)", int64(m))
	}
}

// Modes lists the parameter modes given by an instruction word,
// first parameter first.
type Modes []Mode

// Get returns the mode of the i'th parameter (counting from 0),
// which is Positional if the word did not specify one.
func (ms Modes) Get(i int) Mode {
	if i < len(ms) {
		return ms[i]
	}
	return Positional
}

// SplitWord splits an instruction word into its opcode and the parameter
// modes given by its remaining digits, read from least to most significant.
// A digit of 1 is Immediate and any other digit is Positional.
// It does not check that the opcode is valid.
func SplitWord(word int64) (Op, Modes) {
	op := Op(word % 100)
	var ms Modes
	for w := word / 100; w != 0; w /= 10 {
		m := Positional
		if w%10 == 1 {
			m = Immediate
		}
		ms = append(ms, m)
	}
	return op, ms
}

// Param is an undecoded instruction parameter.
type Param struct {
	Raw  int64
	Mode Mode
}

func (p Param) String() string {
	if p.Mode == Immediate {
		return fmt.Sprint(p.Raw)
	}
	return fmt.Sprintf("[%d]", p.Raw)
}

// Instruction is a decoded Intcode instruction.
// Its dynamic type is one of Add, Mul, Input, Output,
// JumpIfTrue, JumpIfFalse, LessThan, Equals or Halt.
type Instruction interface {
	Op() Op
	instruction()
}

// Add stores A+B at Dst.
type Add struct{ A, B, Dst Param }

// Mul stores A*B at Dst.
type Mul struct{ A, B, Dst Param }

// Input reads one value and stores it at Dst.
type Input struct{ Dst Param }

// Output writes the value of Src.
type Output struct{ Src Param }

// JumpIfTrue sets the program counter to Target if Cond is non-zero.
type JumpIfTrue struct{ Cond, Target Param }

// JumpIfFalse sets the program counter to Target if Cond is zero.
type JumpIfFalse struct{ Cond, Target Param }

// LessThan stores 1 at Dst if A < B, and 0 otherwise.
type LessThan struct{ A, B, Dst Param }

// Equals stores 1 at Dst if A == B, and 0 otherwise.
type Equals struct{ A, B, Dst Param }

// Halt stops the machine.
type Halt struct{}

func (Add) Op() Op         { return ADD }
func (Mul) Op() Op         { return MUL }
func (Input) Op() Op       { return IN }
func (Output) Op() Op      { return OUT }
func (JumpIfTrue) Op() Op  { return JNZ }
func (JumpIfFalse) Op() Op { return JZ }
func (LessThan) Op() Op    { return LTH }
func (Equals) Op() Op      { return EQU }
func (Halt) Op() Op        { return HALT }

func (Add) instruction()         {}
func (Mul) instruction()         {}
func (Input) instruction()       {}
func (Output) instruction()      {}
func (JumpIfTrue) instruction()  {}
func (JumpIfFalse) instruction() {}
func (LessThan) instruction()    {}
func (Equals) instruction()      {}
func (Halt) instruction()        {}

// Decode decodes the instruction at pc.
// It returns a HaltError if pc is outside mem, if the opcode is not
// supported, or if the instruction runs past the end of mem.
func Decode(mem Memory, pc int64) (Instruction, error) {
	word, ok := mem.Get(pc)
	if !ok {
		return nil, HaltError{HaltCode: OutOfBounds, PC: pc, Addr: pc}
	}
	op, modes := SplitWord(word)
	if !op.Valid() {
		return nil, HaltError{HaltCode: InvalidOpcode, Word: word, PC: pc}
	}
	size := op.Size()
	if pc+size > int64(len(mem)) {
		return nil, HaltError{HaltCode: TruncatedInstruction, Word: word, PC: pc}
	}
	p := func(i int) Param {
		return Param{Raw: mem[pc+1+int64(i)], Mode: modes.Get(i)}
	}
	switch op {
	case ADD:
		return Add{p(0), p(1), p(2)}, nil
	case MUL:
		return Mul{p(0), p(1), p(2)}, nil
	case IN:
		return Input{p(0)}, nil
	case OUT:
		return Output{p(0)}, nil
	case JNZ:
		return JumpIfTrue{p(0), p(1)}, nil
	case JZ:
		return JumpIfFalse{p(0), p(1)}, nil
	case LTH:
		return LessThan{p(0), p(1), p(2)}, nil
	case EQU:
		return Equals{p(0), p(1), p(2)}, nil
	case HALT:
		return Halt{}, nil
	}
	panic(fmt.Errorf("internal error: %v not implemented", op))
}

// Disassemble returns a human readable form of ins, for example
// "ADD [9] 3 [10]".
func Disassemble(ins Instruction) string {
	s := ins.Op().String()
	var ps []Param
	switch i := ins.(type) {
	case Add:
		ps = []Param{i.A, i.B, i.Dst}
	case Mul:
		ps = []Param{i.A, i.B, i.Dst}
	case Input:
		ps = []Param{i.Dst}
	case Output:
		ps = []Param{i.Src}
	case JumpIfTrue:
		ps = []Param{i.Cond, i.Target}
	case JumpIfFalse:
		ps = []Param{i.Cond, i.Target}
	case LessThan:
		ps = []Param{i.A, i.B, i.Dst}
	case Equals:
		ps = []Param{i.A, i.B, i.Dst}
	}
	for _, p := range ps {
		s += " " + p.String()
	}
	return s
}
