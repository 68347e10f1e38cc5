package main

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/nf/intcode/console"
	"github.com/nf/intcode/intcode"
	"github.com/nf/intcode/puzzle"
)

// runFile loads cfg.Program and executes it in the mode cfg selects.
func runFile(cfg *Config, stdin io.Reader, stdout io.Writer) error {
	prog, err := puzzle.LoadFile(cfg.Program)
	if err != nil {
		return err
	}
	return execute(cfg, prog, stdin, stdout)
}

func execute(cfg *Config, prog []int64, stdin io.Reader, stdout io.Writer) error {
	mode, err := cfg.Mode()
	if err != nil {
		return err
	}
	switch mode {
	case PatchMode:
		noun, verb := *cfg.Patch.Noun, *cfg.Patch.Verb
		v, err := puzzle.Patch(prog, noun, verb)
		if err != nil {
			return fmt.Errorf("noun %d verb %d: %w", noun, verb, err)
		}
		fmt.Fprintln(stdout, v)
	case SearchMode:
		target := *cfg.Search.Target
		noun, verb, err := puzzle.Search(prog, target, cfg.Search.Limit)
		if err != nil {
			return fmt.Errorf("target %d: %w", target, err)
		}
		fmt.Fprintf(stdout, "noun=%d verb=%d answer=%d\n", noun, verb, puzzle.Answer(noun, verb))
	case PipelineMode:
		p := cfg.Pipeline
		best, order, err := puzzle.BestPipeline(context.Background(), prog, p.Settings, p.Signal, p.Feedback)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "signal=%d settings=%s\n", best, intcode.Memory(order))
	default:
		m := newMachine(cfg, prog, stdin, stdout)
		if err := m.Run(); err != nil {
			return err
		}
		if cfg.Trace {
			log.Printf("halted after %d steps", m.Steps)
		}
	}
	return nil
}

// newMachine returns a Machine that reads cfg.Input if it is set,
// and stdin otherwise, and writes to stdout.
func newMachine(cfg *Config, prog []int64, stdin io.Reader, stdout io.Writer) *intcode.Machine {
	con := console.New(stdin, stdout)
	con.Prompt = cfg.Prompt
	if !console.Interactive(stdin) {
		con.Prompt = ""
	}
	var in intcode.Reader = con
	if cfg.Input != nil {
		vs := intcode.Values(append([]int64(nil), cfg.Input...))
		in = &vs
	}
	m := intcode.NewMachine(prog, in, con)
	if cfg.Trace {
		m.Trace = log.Printf
	}
	return m
}

func parseList(flag, s string) ([]int64, error) {
	vs, err := puzzle.ParseList(s)
	if err != nil {
		return nil, fmt.Errorf("-%s: %w", flag, err)
	}
	return vs, nil
}
