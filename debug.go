package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/nf/intcode/intcode"
	"github.com/nf/intcode/puzzle"
)

// debugMode runs the program under an interactive debugger.
// Input values come from cfg.Input and from "input" commands.
func debugMode(cfg *Config) error {
	prog, err := puzzle.LoadFile(cfg.Program)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := intcode.NewPipe(ctx, len(cfg.Input)+64)
	for _, v := range cfg.Input {
		if err := in.WriteInt(v); err != nil {
			return err
		}
	}
	m := intcode.NewMachine(prog, in, outputLog{})
	if cfg.Trace {
		m.Trace = log.Printf
	}

	d := newDebugger(in)
	d.run = newRunner(m, d.StateFunc)
	log.SetPrefix("")
	log.SetOutput(d.log)
	defer func() {
		log.SetOutput(os.Stderr)
		log.SetPrefix("intcode: ")
	}()

	done := make(chan error, 1)
	go func() { done <- d.run.Run(ctx) }()
	err = d.Run()
	cancel()
	<-done
	return err
}

// outputLog is a Writer that logs each value.
type outputLog struct{}

func (outputLog) WriteInt(v int64) error {
	log.Printf("output: %d", v)
	return nil
}

type debugger struct {
	run *Runner
	in  *intcode.Pipe

	log   *tview.TextView
	watch *tview.TextView
	state *tview.TextView
	input *tview.InputField
	cols  *tview.Flex
	rows  *tview.Flex
	app   *tview.Application

	mu      sync.Mutex
	brk     int64 // -1 if unset
	watches []int64
}

var debugCommands = map[string]string{
	"s": "step", "step": "step",
	"c": "cont", "cont": "cont",
	"p": "pause", "pause": "pause",
	"b": "break", "break": "break",
	"w": "watch", "watch": "watch",
	"i": "input", "input": "input",
	"exit": "exit",
}

func newDebugger(in *intcode.Pipe) *debugger {
	d := &debugger{
		in:  in,
		brk: -1,
		log: tview.NewTextView().
			SetMaxLines(1000),
		watch: tview.NewTextView().
			SetWrap(false).
			SetTextAlign(tview.AlignRight),
		state: tview.NewTextView().
			SetWrap(false),
		input: tview.NewInputField(),
		cols:  tview.NewFlex(),
		rows: tview.NewFlex().
			SetDirection(tview.FlexRow),
		app: tview.NewApplication(),
	}
	d.log.SetChangedFunc(func() { d.app.Draw() })
	d.watch.SetBackgroundColor(tcell.ColorDarkBlue)
	d.state.SetBackgroundColor(tcell.ColorDarkGrey)
	d.cols.
		AddItem(d.watch, 0, 1, false).
		AddItem(d.log, 0, 2, false)
	d.rows.
		AddItem(d.cols, 0, 1, false).
		AddItem(d.state, 3, 0, false).
		AddItem(d.input, 1, 0, true)
	d.app.SetRoot(d.rows, true)

	d.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		line := d.input.GetText()
		if line == "" {
			return
		}
		d.input.SetText("")
		if err := d.command(line); err != nil {
			log.Print(err)
		}
	})
	return d
}

// command executes one line typed into the input field.
func (d *debugger) command(line string) error {
	name, arg, hasArg := strings.Cut(strings.TrimSpace(line), " ")
	cmd, ok := debugCommands[name]
	if !ok {
		return fmt.Errorf("unknown command %q (try step, cont, pause, break, watch, input, exit)", name)
	}
	var n int64
	if hasArg {
		var err error
		if n, err = strconv.ParseInt(strings.TrimSpace(arg), 10, 64); err != nil {
			return fmt.Errorf("%s: invalid number %q", cmd, arg)
		}
	}
	switch cmd {
	case "exit":
		d.run.Debug(cmd, 0)
		d.app.Stop()
		return nil
	case "input":
		if !hasArg {
			return fmt.Errorf("input: missing value")
		}
		go func() {
			if err := d.in.WriteInt(n); err != nil {
				log.Printf("input %d: %v", n, err)
			}
		}()
		log.Printf("queued input %d", n)
		return nil
	case "watch":
		if !hasArg || n < 0 {
			return fmt.Errorf("watch: invalid address")
		}
		d.mu.Lock()
		d.watches = append(d.watches, n)
		d.mu.Unlock()
		log.Printf("watching %.4d", n)
		return nil
	case "break":
		if !hasArg {
			n = -1
		}
		d.mu.Lock()
		d.brk = n
		d.mu.Unlock()
		if n < 0 {
			log.Print("cleared break")
		} else {
			log.Printf("set break %.4d", n)
		}
	}
	if !d.run.Debug(cmd, n) {
		return fmt.Errorf("%s: machine busy", cmd)
	}
	return nil
}

func (d *debugger) Run() error { return d.app.Run() }

// StateFunc is called by the Runner with the machine it controls.
func (d *debugger) StateFunc(m *intcode.Machine, k StateKind) {
	var (
		watch = d.watchContent(m)
		state string
	)
	if k != ClearState && k != QuietState {
		state = stateMsg(m, k)
	}
	d.app.QueueUpdateDraw(func() {
		switch k {
		case StepState, ClearState:
			d.state.SetTextColor(tcell.ColorBlack)
			d.state.SetBackgroundColor(tcell.ColorDarkGrey)
		case BreakState:
			d.state.SetTextColor(tcell.ColorYellow)
			d.state.SetBackgroundColor(tcell.ColorDarkBlue)
		case PauseState:
			d.state.SetTextColor(tcell.ColorWhite)
			d.state.SetBackgroundColor(tcell.ColorDarkBlue)
		case HaltState:
			d.state.SetTextColor(tcell.ColorWhite)
			d.state.SetBackgroundColor(tcell.ColorDarkRed)
		}
		d.watch.SetText(watch)
		if k != QuietState {
			d.state.SetText(state)
		}
	})
}

func stateMsg(m *intcode.Machine, k StateKind) string {
	ins := "?"
	if i, err := intcode.Decode(m.Mem, m.PC); err == nil {
		ins = intcode.Disassemble(i)
	}
	kind := "       "
	switch k {
	case BreakState:
		kind = "[break]"
	case StepState:
		kind = "[step] "
	case PauseState:
		kind = "[pause]"
	case HaltState:
		kind = "[HALT!]"
	}
	msg := fmt.Sprintf("%.4d %-24s %s\nsteps: %d  state: %v\n", m.PC, ins, kind, m.Steps, m.State())
	if err := m.Err(); err != nil {
		msg += err.Error()
	}
	return msg
}

// memoryRows is how many rows of memory around the program counter
// are shown above the watches.
const memoryRows = 4

func (d *debugger) watchContent(m *intcode.Machine) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var b strings.Builder
	start := max(m.PC-m.PC%4-4, 0)
	for row := int64(0); row < memoryRows; row++ {
		addr := start + 4*row
		if addr >= int64(len(m.Mem)) {
			break
		}
		fmt.Fprintf(&b, "%.4d:", addr)
		for a := addr; a < addr+4 && a < int64(len(m.Mem)); a++ {
			mark := " "
			if a == m.PC {
				mark = ">"
			}
			fmt.Fprintf(&b, "%s%6d", mark, m.Mem[a])
		}
		b.WriteByte('\n')
	}
	if d.brk >= 0 {
		fmt.Fprintf(&b, "\n[%.4d] brk!\n", d.brk)
	}
	for _, addr := range d.watches {
		b.WriteByte('\n')
		v, ok := m.Mem.Get(addr)
		if !ok {
			fmt.Fprintf(&b, "[%.4d]      out of range", addr)
			continue
		}
		fmt.Fprintf(&b, "[%.4d] %d", addr, v)
	}
	return b.String()
}
