// Package puzzle drives Intcode machines to answer puzzle questions:
// it loads programs, patches and searches their inputs, and connects
// several machines into pipelines.
package puzzle

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Load reads an Intcode program: decimal integers separated by commas,
// optionally spread across lines. Tokens that are not integers are
// dropped.
func Load(r io.Reader) ([]int64, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var prog []int64
	for _, tok := range strings.FieldsFunc(string(b), func(r rune) bool {
		return r == ',' || r == '\n'
	}) {
		v, err := strconv.ParseInt(strings.TrimSpace(tok), 10, 64)
		if err != nil {
			continue
		}
		prog = append(prog, v)
	}
	return prog, nil
}

// LoadFile reads the Intcode program in the named file.
func LoadFile(name string) ([]int64, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	prog, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if len(prog) == 0 {
		return nil, fmt.Errorf("%s: no program found", name)
	}
	return prog, nil
}

// ParseList parses a comma-separated list of integers, such as the value
// of a command line flag. Unlike Load it rejects malformed entries.
func ParseList(s string) ([]int64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var vs []int64
	for _, tok := range strings.Split(s, ",") {
		v, err := strconv.ParseInt(strings.TrimSpace(tok), 10, 64)
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	return vs, nil
}
