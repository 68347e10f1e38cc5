package intcode

import (
	"fmt"
	"strings"
)

// Memory holds an Intcode program and its data.
// All access goes through Get and Set, which never panic.
type Memory []int64

// Get returns the value at addr and reports whether addr is in range.
func (m Memory) Get(addr int64) (int64, bool) {
	if addr < 0 || addr >= int64(len(m)) {
		return 0, false
	}
	return m[addr], true
}

// Set stores v at addr and reports whether addr is in range.
// Memory is left unchanged if it is not.
func (m Memory) Set(addr, v int64) bool {
	if addr < 0 || addr >= int64(len(m)) {
		return false
	}
	m[addr] = v
	return true
}

// Clone returns a copy of m that shares no storage with it.
func (m Memory) Clone() Memory {
	c := make(Memory, len(m))
	copy(c, m)
	return c
}

func (m Memory) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range m {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprint(&b, v)
	}
	b.WriteByte(']')
	return b.String()
}
