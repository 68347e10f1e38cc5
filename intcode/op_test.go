package intcode

import (
	"errors"
	"reflect"
	"testing"
)

func TestSplitWord(t *testing.T) {
	for _, c := range []struct {
		word  int64
		op    Op
		modes Modes
	}{
		{2, MUL, nil},
		{99, HALT, nil},
		{1002, MUL, Modes{Positional, Immediate}},
		{1097, 97, Modes{Positional, Immediate}},
		{11101, ADD, Modes{Immediate, Immediate, Immediate}},
		{104, OUT, Modes{Immediate}},
		{204, OUT, Modes{Positional}},
		{91201, ADD, Modes{Positional, Immediate, Positional}},
	} {
		op, modes := SplitWord(c.word)
		if op != c.op || !reflect.DeepEqual(modes, c.modes) {
			t.Errorf("SplitWord(%d) = %v, %v, want %v, %v", c.word, op, modes, c.op, c.modes)
		}
	}
}

func TestModesDefault(t *testing.T) {
	_, modes := SplitWord(1002)
	for i, want := range []Mode{Positional, Immediate, Positional, Positional} {
		if got := modes.Get(i); got != want {
			t.Errorf("mode of parameter %d is %v, want %v", i, got, want)
		}
	}
}

// Check that every supported opcode has a size and a string,
// and that nothing else does.
func TestOpTable(t *testing.T) {
	for o := Op(-1); o <= 100; o++ {
		_, named := opStrings[o]
		if o.Valid() != named {
			t.Errorf("%d.Valid() = %v, want %v", o, o.Valid(), named)
		}
		if (o.Size() > 0) != named {
			t.Errorf("Op(%d).Size() = %d", o, o.Size())
		}
	}
}

func TestDecode(t *testing.T) {
	for _, c := range []struct {
		mem  Memory
		pc   int64
		want Instruction
	}{
		{Memory{1, 2, 3, 4}, 0, Add{Param{2, Positional}, Param{3, Positional}, Param{4, Positional}}},
		{Memory{0, 1002, 4, 3, 4}, 1, Mul{Param{4, Positional}, Param{3, Immediate}, Param{4, Positional}}},
		{Memory{3, 7}, 0, Input{Param{7, Positional}}},
		{Memory{104, -7}, 0, Output{Param{-7, Immediate}}},
		{Memory{1105, 1, 9}, 0, JumpIfTrue{Param{1, Immediate}, Param{9, Immediate}}},
		{Memory{6, 1, 9}, 0, JumpIfFalse{Param{1, Positional}, Param{9, Positional}}},
		{Memory{107, 8, 21, 20}, 0, LessThan{Param{8, Immediate}, Param{21, Positional}, Param{20, Positional}}},
		{Memory{1008, 21, 8, 20}, 0, Equals{Param{21, Positional}, Param{8, Immediate}, Param{20, Positional}}},
		{Memory{1, 0, 0, 0, 99}, 4, Halt{}},
	} {
		got, err := Decode(c.mem, c.pc)
		if err != nil {
			t.Errorf("Decode(%v, %d): %v", c.mem, c.pc, err)
			continue
		}
		if got != c.want {
			t.Errorf("Decode(%v, %d) = %#v, want %#v", c.mem, c.pc, got, c.want)
		}
	}
}

func TestDecodeError(t *testing.T) {
	for _, c := range []struct {
		mem  Memory
		pc   int64
		want HaltError
	}{
		{Memory{97}, 0, HaltError{HaltCode: InvalidOpcode, Word: 97}},
		{Memory{1, 0, 0, 1097}, 3, HaltError{HaltCode: InvalidOpcode, Word: 1097, PC: 3}},
		{Memory{99, 1101, 1, 2}, 1, HaltError{HaltCode: TruncatedInstruction, Word: 1101, PC: 1}},
		{Memory{99}, 1, HaltError{HaltCode: OutOfBounds, PC: 1, Addr: 1}},
		{Memory{99}, -1, HaltError{HaltCode: OutOfBounds, PC: -1, Addr: -1}},
	} {
		_, err := Decode(c.mem, c.pc)
		var h HaltError
		if !errors.As(err, &h) || h != c.want {
			t.Errorf("Decode(%v, %d) returned %v, want %v", c.mem, c.pc, err, c.want)
		}
	}
}

func TestDisassemble(t *testing.T) {
	for _, c := range []struct {
		ins  Instruction
		want string
	}{
		{Add{Param{9, Positional}, Param{3, Immediate}, Param{10, Positional}}, "ADD [9] 3 [10]"},
		{Input{Param{0, Positional}}, "IN [0]"},
		{JumpIfFalse{Param{0, Immediate}, Param{36, Immediate}}, "JZ 0 36"},
		{Halt{}, "HALT"},
	} {
		if got := Disassemble(c.ins); got != c.want {
			t.Errorf("Disassemble(%#v) = %q, want %q", c.ins, got, c.want)
		}
	}
}

func TestMemory(t *testing.T) {
	m := Memory{1, 2, 3}
	if v, ok := m.Get(2); !ok || v != 3 {
		t.Errorf("Get(2) = %d, %v, want 3, true", v, ok)
	}
	for _, addr := range []int64{-1, 3, 1 << 40} {
		if _, ok := m.Get(addr); ok {
			t.Errorf("Get(%d) succeeded", addr)
		}
		if m.Set(addr, 7) {
			t.Errorf("Set(%d) succeeded", addr)
		}
	}
	if !m.Set(0, 7) || m[0] != 7 {
		t.Errorf("Set(0, 7) left memory %v", m)
	}
	c := m.Clone()
	c[1] = 42
	if m[1] != 2 {
		t.Errorf("writing to clone changed original: %v", m)
	}
	if got, want := m.String(), "[7,2,3]"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
