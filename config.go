package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/nf/intcode/console"
)

// Config holds the settings for one invocation of the command.
// It may be loaded from a TOML file and overridden by flags.
type Config struct {
	Program string  `toml:"program"`
	Prompt  string  `toml:"prompt"`
	Input   []int64 `toml:"input"`
	Trace   bool    `toml:"trace"`

	Patch    PatchConfig    `toml:"patch"`
	Search   SearchConfig   `toml:"search"`
	Pipeline PipelineConfig `toml:"pipeline"`
}

// PatchConfig selects a single run with a noun and verb.
type PatchConfig struct {
	Noun *int64 `toml:"noun"`
	Verb *int64 `toml:"verb"`
}

// SearchConfig selects a search for the noun and verb producing Target.
type SearchConfig struct {
	Target *int64 `toml:"target"`
	Limit  int64  `toml:"limit"`
}

// PipelineConfig selects a pipeline of machines.
type PipelineConfig struct {
	Settings []int64 `toml:"settings"`
	Signal   int64   `toml:"signal"`
	Feedback bool    `toml:"feedback"`
}

func defaultConfig() *Config {
	return &Config{
		Prompt: console.DefaultPrompt,
		Search: SearchConfig{Limit: 100},
	}
}

// loadConfig reads the named TOML file on top of the default config.
// A relative program path is resolved against the file's directory.
func loadConfig(name string) (*Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", name, err)
	}
	if p := cfg.Program; p != "" && !filepath.IsAbs(p) {
		cfg.Program = filepath.Join(filepath.Dir(name), p)
	}
	if cfg.Search.Limit <= 0 {
		return nil, fmt.Errorf("%s: search limit must be positive", name)
	}
	return cfg, nil
}

// Mode is what the command does with the program.
type Mode int

const (
	RunMode Mode = iota
	PatchMode
	SearchMode
	PipelineMode
)

func (m Mode) String() string {
	switch m {
	case PatchMode:
		return "patch"
	case SearchMode:
		return "search"
	case PipelineMode:
		return "pipeline"
	}
	return "run"
}

// Mode reports which mode c selects. Patching takes precedence over
// searching, which takes precedence over running a pipeline.
func (c *Config) Mode() (Mode, error) {
	switch p := c.Patch; {
	case p.Noun != nil && p.Verb != nil:
		return PatchMode, nil
	case p.Noun != nil || p.Verb != nil:
		return 0, fmt.Errorf("patching needs both a noun and a verb")
	case c.Search.Target != nil:
		return SearchMode, nil
	case len(c.Pipeline.Settings) > 0:
		return PipelineMode, nil
	}
	return RunMode, nil
}

// flagValues holds the raw values of the command line flags
// that may override a config file.
type flagValues struct {
	prompt   string
	input    string
	trace    bool
	noun     int64
	verb     int64
	target   int64
	limit    int64
	settings string
	signal   int64
	feedback bool
}

func (v *flagValues) register(fs *flag.FlagSet) {
	fs.StringVar(&v.prompt, "prompt", console.DefaultPrompt, "input prompt shown on a terminal")
	fs.StringVar(&v.input, "input", "", "comma-separated input `values` to use instead of the console")
	fs.BoolVar(&v.trace, "trace", false, "log each instruction as it is executed")
	fs.Int64Var(&v.noun, "noun", 0, "patch address 1 with `noun` before running")
	fs.Int64Var(&v.verb, "verb", 0, "patch address 2 with `verb` before running")
	fs.Int64Var(&v.target, "search", 0, "search for the noun and verb that produce `target`")
	fs.Int64Var(&v.limit, "limit", 100, "search nouns and verbs below `n`")
	fs.StringVar(&v.settings, "pipeline", "", "run a pipeline with these comma-separated `settings`")
	fs.Int64Var(&v.signal, "signal", 0, "initial pipeline input")
	fs.BoolVar(&v.feedback, "feedback", false, "feed the last pipeline machine back into the first")
}

// apply copies the flags that were set on the command line into c.
func (v *flagValues) apply(fs *flag.FlagSet, c *Config) error {
	var err error
	fs.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "prompt":
			c.Prompt = v.prompt
		case "input":
			c.Input, err = parseList("input", v.input)
		case "trace":
			c.Trace = v.trace
		case "noun":
			c.Patch.Noun = &v.noun
		case "verb":
			c.Patch.Verb = &v.verb
		case "search":
			c.Search.Target = &v.target
		case "limit":
			if v.limit <= 0 {
				err = fmt.Errorf("-limit must be positive")
			}
			c.Search.Limit = v.limit
		case "pipeline":
			c.Pipeline.Settings, err = parseList("pipeline", v.settings)
		case "signal":
			c.Pipeline.Signal = v.signal
		case "feedback":
			c.Pipeline.Feedback = v.feedback
		}
	})
	return err
}
