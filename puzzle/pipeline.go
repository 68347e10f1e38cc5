package puzzle

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/nf/intcode/intcode"
)

// pipeSize is the buffer size of the pipes between machines.
// It must hold a setting and a signal without blocking.
const pipeSize = 16

// Pipeline runs one machine per setting, all executing prog. Each machine
// first reads its setting, and the first machine then reads signal. Each
// machine's output feeds the next machine's input. If feedback is true the
// last machine's output also feeds the first machine, and the pipeline
// runs until every machine halts. Values output to a machine that has
// already halted are discarded.
//
// Pipeline returns the last value output by the last machine.
// If any machine fails, the others are stopped and the first error
// is returned.
func Pipeline(ctx context.Context, prog, settings []int64, signal int64, feedback bool) (int64, error) {
	if len(settings) == 0 {
		return 0, errors.New("pipeline has no machines")
	}
	g, ctx := errgroup.WithContext(ctx)

	pipes := make([]*intcode.Pipe, len(settings))
	for i, s := range settings {
		pipes[i] = intcode.NewPipe(ctx, pipeSize)
		if err := pipes[i].WriteInt(s); err != nil {
			return 0, err
		}
	}
	if err := pipes[0].WriteInt(signal); err != nil {
		return 0, err
	}
	if !feedback {
		pipes[0].Close()
	}

	var result intcode.Buffer
	for i := range settings {
		var out intcode.Writer = &result
		if next := i + 1; next < len(pipes) {
			out = pipes[next]
		} else if feedback {
			out = intcode.Tee{pipes[0], &result}
		}
		var (
			i = i
			m = intcode.NewMachine(prog, pipes[i], out)
		)
		g.Go(func() error {
			// Output sent to a machine that has stopped is dropped.
			defer pipes[i].Stop()
			if err := m.Run(); err != nil {
				// The group's context stops the other machines.
				return fmt.Errorf("machine %d: %w", i, err)
			}
			// Nothing more will be written by this machine.
			if next := i + 1; next < len(pipes) {
				pipes[next].Close()
			} else if feedback {
				pipes[0].Close()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	v, ok := result.Last()
	if !ok {
		return 0, errors.New("pipeline produced no output")
	}
	return v, nil
}

// BestPipeline runs Pipeline for every ordering of settings
// and returns the highest result and the ordering that produced it.
func BestPipeline(ctx context.Context, prog, settings []int64, signal int64, feedback bool) (best int64, order []int64, err error) {
	found := false
	for _, p := range permutations(settings) {
		v, err := Pipeline(ctx, prog, p, signal, feedback)
		if err != nil {
			return 0, nil, fmt.Errorf("settings %v: %w", p, err)
		}
		if !found || v > best {
			best, order, found = v, p, true
		}
	}
	return best, order, nil
}

// permutations returns every ordering of vs, in lexical order of index.
func permutations(vs []int64) [][]int64 {
	if len(vs) <= 1 {
		return [][]int64{append([]int64(nil), vs...)}
	}
	var ps [][]int64
	for i, v := range vs {
		rest := make([]int64, 0, len(vs)-1)
		rest = append(rest, vs[:i]...)
		rest = append(rest, vs[i+1:]...)
		for _, p := range permutations(rest) {
			ps = append(ps, append([]int64{v}, p...))
		}
	}
	return ps
}
