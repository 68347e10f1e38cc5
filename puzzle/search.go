package puzzle

import (
	"errors"
	"fmt"

	"github.com/nf/intcode/intcode"
)

// Addresses patched with the noun and verb before a run,
// and the address holding the result afterwards.
const (
	NounAddr   = 1
	VerbAddr   = 2
	ResultAddr = 0
)

// ErrNotFound is returned by Search if no noun and verb
// produce the target.
var ErrNotFound = errors.New("no noun and verb produce the target")

// Patch runs a copy of prog with noun and verb stored at NounAddr and
// VerbAddr, and returns the value left at ResultAddr.
func Patch(prog []int64, noun, verb int64) (int64, error) {
	m := intcode.NewMachine(prog, nil, nil)
	if !m.Mem.Set(NounAddr, noun) || !m.Mem.Set(VerbAddr, verb) {
		return 0, fmt.Errorf("program of length %d is too short to patch", len(prog))
	}
	if err := m.Run(); err != nil {
		return 0, err
	}
	v, _ := m.Mem.Get(ResultAddr)
	return v, nil
}

// Search tries every noun and verb in [0, limit), verb varying fastest,
// and returns the first pair for which Patch produces target.
// Pairs for which the program fails are skipped.
func Search(prog []int64, target, limit int64) (noun, verb int64, err error) {
	if len(prog) <= VerbAddr {
		return 0, 0, fmt.Errorf("program of length %d is too short to patch", len(prog))
	}
	for noun = 0; noun < limit; noun++ {
		for verb = 0; verb < limit; verb++ {
			v, err := Patch(prog, noun, verb)
			if err == nil && v == target {
				return noun, verb, nil
			}
		}
	}
	return 0, 0, ErrNotFound
}

// Answer combines a noun and verb into a single number.
func Answer(noun, verb int64) int64 { return 100*noun + verb }
