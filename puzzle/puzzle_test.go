package puzzle

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/nf/intcode/intcode"
)

func TestLoad(t *testing.T) {
	for _, c := range []struct {
		in   string
		want []int64
	}{
		{"1,0,0,0,99", []int64{1, 0, 0, 0, 99}},
		{"1,0,0,3,\n1,1,2,3,\n99\n", []int64{1, 0, 0, 3, 1, 1, 2, 3, 99}},
		{" 1 , -2,x,3\r\n", []int64{1, -2, 3}},
		{"1,,2,1.5,", []int64{1, 2}},
		{"", nil},
	} {
		got, err := Load(strings.NewReader(c.in))
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("Load(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "prog.txt")
	if err := os.WriteFile(name, []byte("2,3,0,3,99\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	prog, err := LoadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	if want := []int64{2, 3, 0, 3, 99}; !reflect.DeepEqual(prog, want) {
		t.Errorf("LoadFile = %v, want %v", prog, want)
	}

	empty := filepath.Join(dir, "empty.txt")
	os.WriteFile(empty, []byte("nothing here"), 0o644)
	if _, err := LoadFile(empty); err == nil {
		t.Error("LoadFile of a file with no integers succeeded")
	}
	if _, err := LoadFile(filepath.Join(dir, "missing")); err == nil {
		t.Error("LoadFile of a missing file succeeded")
	}
}

func TestParseList(t *testing.T) {
	got, err := ParseList("4, 3,2,1,0")
	if err != nil {
		t.Fatal(err)
	}
	if want := []int64{4, 3, 2, 1, 0}; !reflect.DeepEqual(got, want) {
		t.Errorf("ParseList = %v, want %v", got, want)
	}
	if _, err := ParseList("1,x"); err == nil {
		t.Error("ParseList(\"1,x\") succeeded")
	}
	if got, err := ParseList(" "); got != nil || err != nil {
		t.Errorf("ParseList(\" \") = %v, %v, want nil, nil", got, err)
	}
}

var (
	// Leaves 100*noun+verb at address 0.
	answerProg = []int64{1101, 0, 0, 3, 1002, 1, 100, 0, 1, 0, 2, 0, 99}
	// Leaves noun+verb at address 0.
	sumProg = []int64{1101, 0, 0, 3, 1, 1, 2, 0, 99}
	// Leaves mem[noun]+mem[verb] at address 0, failing unless both are
	// below 5.
	addProg = []int64{1, 0, 0, 0, 99}
)

func TestPatch(t *testing.T) {
	for _, c := range []struct {
		prog       []int64
		noun, verb int64
		want       int64
	}{
		{answerProg, 12, 2, 1202},
		{answerProg, 0, 99, 99},
		{sumProg, 3, 4, 7},
		{addProg, 4, 4, 198},
		{addProg, 0, 0, 2},
	} {
		got, err := Patch(c.prog, c.noun, c.verb)
		if err != nil {
			t.Errorf("Patch(%v, %d, %d): %v", c.prog, c.noun, c.verb, err)
			continue
		}
		if got != c.want {
			t.Errorf("Patch(%v, %d, %d) = %d, want %d", c.prog, c.noun, c.verb, got, c.want)
		}
	}
	if _, err := Patch(addProg, 5, 0); !errors.Is(err, intcode.OutOfBounds) {
		t.Errorf("Patch out of range returned %v, want %v", err, intcode.OutOfBounds)
	}
	if _, err := Patch([]int64{99}, 1, 2); err == nil {
		t.Error("Patch of a one-word program succeeded")
	}
}

func TestSearch(t *testing.T) {
	for _, c := range []struct {
		prog       []int64
		target     int64
		noun, verb int64
	}{
		{answerProg, 1202, 12, 2},
		{answerProg, 9999, 99, 99},
		{sumProg, 5, 0, 5}, // verb varies fastest
		{addProg, 198, 4, 4},
	} {
		for run := 0; run < 2; run++ {
			noun, verb, err := Search(c.prog, c.target, 100)
			if err != nil {
				t.Fatalf("Search(%v, %d): %v", c.prog, c.target, err)
			}
			if noun != c.noun || verb != c.verb {
				t.Errorf("Search(%v, %d) = %d, %d, want %d, %d",
					c.prog, c.target, noun, verb, c.noun, c.verb)
			}
		}
	}
	prog := append([]int64(nil), answerProg...)
	if _, _, err := Search(prog, 10000, 100); err != ErrNotFound {
		t.Errorf("Search for unreachable target returned %v, want %v", err, ErrNotFound)
	}
	if !reflect.DeepEqual(prog, answerProg) {
		t.Errorf("Search modified the program: %v", prog)
	}
}

// Exactly one pair in range produces each answer.
func TestSearchUnique(t *testing.T) {
	matches := 0
	for noun := int64(0); noun < 100; noun++ {
		for verb := int64(0); verb < 100; verb++ {
			if v, err := Patch(answerProg, noun, verb); err == nil && v == 4321 {
				matches++
			}
		}
	}
	if matches != 1 {
		t.Errorf("%d pairs produce 4321, want 1", matches)
	}
	if got := Answer(43, 21); got != 4321 {
		t.Errorf("Answer(43, 21) = %d, want 4321", got)
	}
}

var (
	// Outputs 10*signal+setting.
	chainProg = []int64{3, 15, 3, 16, 1002, 16, 10, 16, 1, 16, 15, 15, 4, 15, 99, 0, 0}
	// Outputs 2*signal+setting-4, five times.
	loopProg = []int64{
		3, 26, 1001, 26, -4, 26, 3, 27, 1002, 27, 2, 27, 1, 27, 26, 27, 4, 27,
		1001, 28, -1, 28, 1005, 28, 6, 99, 0, 0, 5,
	}
)

func TestPipeline(t *testing.T) {
	ctx := context.Background()
	got, err := Pipeline(ctx, chainProg, []int64{4, 3, 2, 1, 0}, 0, false)
	if err != nil {
		t.Fatal(err)
	}
	if got != 43210 {
		t.Errorf("Pipeline = %d, want 43210", got)
	}

	got, err = Pipeline(ctx, loopProg, []int64{9, 8, 7, 6, 5}, 0, true)
	if err != nil {
		t.Fatal(err)
	}
	if got != 139629729 {
		t.Errorf("feedback Pipeline = %d, want 139629729", got)
	}
}

func TestBestPipeline(t *testing.T) {
	ctx := context.Background()
	best, order, err := BestPipeline(ctx, chainProg, []int64{0, 1, 2, 3, 4}, 0, false)
	if err != nil {
		t.Fatal(err)
	}
	if best != 43210 || !reflect.DeepEqual(order, []int64{4, 3, 2, 1, 0}) {
		t.Errorf("BestPipeline = %d, %v, want 43210, [4 3 2 1 0]", best, order)
	}

	best, order, err = BestPipeline(ctx, loopProg, []int64{5, 6, 7, 8, 9}, 0, true)
	if err != nil {
		t.Fatal(err)
	}
	if best != 139629729 || !reflect.DeepEqual(order, []int64{9, 8, 7, 6, 5}) {
		t.Errorf("feedback BestPipeline = %d, %v, want 139629729, [9 8 7 6 5]", best, order)
	}
}

func TestPipelineError(t *testing.T) {
	ctx := context.Background()
	// The first machine reads more input than it is sent.
	prog := []int64{3, 9, 3, 9, 3, 9, 4, 9, 99, 0}
	_, err := Pipeline(ctx, prog, []int64{1, 2}, 0, false)
	if !errors.Is(err, intcode.InputExhausted) {
		t.Errorf("Pipeline returned %v, want %v", err, intcode.InputExhausted)
	}
	if !strings.Contains(err.Error(), "machine 0") {
		t.Errorf("error %q does not name machine 0", err)
	}

	_, err = Pipeline(ctx, []int64{3, 0, 3, 0, 42}, []int64{1, 2, 3}, 0, true)
	if !errors.Is(err, intcode.InvalidOpcode) {
		t.Errorf("Pipeline returned %v, want %v", err, intcode.InvalidOpcode)
	}

	if _, err := Pipeline(ctx, chainProg, nil, 0, false); err == nil {
		t.Error("Pipeline with no settings succeeded")
	}
}

// A machine set to 0 outputs twenty values and halts; any other setting
// outputs the setting and halts without reading anything more.
func chattyProg() []int64 {
	const (
		other = 46
		cell  = 49
	)
	prog := []int64{3, cell, 1005, cell, other}
	for i := 0; i < 20; i++ {
		prog = append(prog, 104, 1)
	}
	return append(prog, 99, 4, cell, 99, 0)
}

func TestPipelineEarlyHalt(t *testing.T) {
	for _, feedback := range []bool{false, true} {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		type result struct {
			v   int64
			err error
		}
		done := make(chan result, 1)
		go func() {
			v, err := Pipeline(ctx, chattyProg(), []int64{0, 7}, 0, feedback)
			done <- result{v, err}
		}()
		select {
		case r := <-done:
			if r.err != nil || r.v != 7 {
				t.Errorf("feedback %v: Pipeline = %d, %v, want 7, nil", feedback, r.v, r.err)
			}
		case <-time.After(5 * time.Second):
			t.Errorf("feedback %v: Pipeline did not return after every machine halted", feedback)
		}
		cancel()
	}
}

func TestPermutations(t *testing.T) {
	ps := permutations([]int64{1, 2, 3})
	want := [][]int64{{1, 2, 3}, {1, 3, 2}, {2, 1, 3}, {2, 3, 1}, {3, 1, 2}, {3, 2, 1}}
	if !reflect.DeepEqual(ps, want) {
		t.Errorf("permutations = %v, want %v", ps, want)
	}
}
