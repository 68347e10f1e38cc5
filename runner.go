package main

import (
	"context"
	"log"

	"github.com/nf/intcode/intcode"
)

// StateKind describes why a Runner reported its machine's state.
type StateKind int

const (
	ClearState StateKind = iota // running freely
	QuietState                  // still running; refresh watches only
	StepState                   // stopped after single-stepping
	BreakState                  // stopped at the breakpoint
	PauseState                  // stopped by request
	HaltState                   // halted or failed
)

// quietInterval is how many instructions a freely running machine
// executes between QuietState reports.
const quietInterval = 1000

// Runner executes a Machine under the control of debugger commands.
type Runner struct {
	m     *intcode.Machine
	state func(*intcode.Machine, StateKind)
	cmds  chan runCmd
}

type runCmd struct {
	name string
	arg  int64
}

// newRunner returns a Runner for m. The state function is called from
// the goroutine executing Run, whenever the machine stops or at
// intervals while it runs.
func newRunner(m *intcode.Machine, state func(*intcode.Machine, StateKind)) *Runner {
	return &Runner{
		m:     m,
		state: state,
		cmds:  make(chan runCmd, 16),
	}
}

// Debug sends a command to the Runner and reports whether it was queued.
// The commands are:
//
//	step n   execute n instructions (at least 1) then stop
//	cont     run until the breakpoint, a halt, or a pause
//	pause    stop running
//	break a  stop whenever the program counter reaches a (negative clears)
//	exit     make Run return
func (r *Runner) Debug(cmd string, arg int64) bool {
	select {
	case r.cmds <- runCmd{cmd, arg}:
		return true
	default:
		return false
	}
}

// Run executes the machine, starting paused, until it receives the exit
// command or ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	var (
		m      = r.m
		paused = true
		steps  int64
		brk    = int64(-1)
		quiet  int
	)
	r.state(m, PauseState)
	for {
		var (
			c  runCmd
			ok bool
		)
		if paused && steps == 0 {
			select {
			case c = <-r.cmds:
				ok = true
			case <-ctx.Done():
				return ctx.Err()
			}
		} else {
			select {
			case c = <-r.cmds:
				ok = true
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
		if ok {
			switch c.name {
			case "step":
				paused, steps = true, max(c.arg, 1)
			case "cont":
				paused, steps = false, 0
				r.state(m, ClearState)
			case "pause":
				paused, steps = true, 0
				r.state(m, PauseState)
			case "break":
				brk = c.arg
			case "exit":
				return nil
			default:
				log.Printf("unknown command %q", c.name)
			}
		}
		if paused && steps == 0 {
			continue
		}
		if m.State() != intcode.Running {
			paused, steps = true, 0
			r.state(m, HaltState)
			continue
		}

		err := m.Step()
		switch {
		case err == intcode.ErrHalt:
			log.Printf("halted after %d steps", m.Steps)
		case err != nil:
			log.Print(err)
		}
		switch {
		case err != nil:
			paused, steps = true, 0
			r.state(m, HaltState)
		case m.PC == brk:
			paused, steps = true, 0
			log.Printf("break at %.4d", m.PC)
			r.state(m, BreakState)
		case steps > 0:
			if steps--; steps == 0 {
				r.state(m, StepState)
			}
		default:
			if quiet++; quiet == quietInterval {
				quiet = 0
				r.state(m, QuietState)
			}
		}
	}
}
