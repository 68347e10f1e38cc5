// Command intcode executes Intcode programs.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/pprof"
)

func main() {
	log.SetPrefix("intcode: ")
	log.SetFlags(0)

	var (
		configFlag = flag.String("config", "", "read settings from TOML `file`")
		devFlag    = flag.Bool("dev", false, "enable developer mode (re-run the program whenever it changes)")
		debugFlag  = flag.Bool("debug", false, "enable debugger")

		cpuProfileFlag = flag.String("cpu_profile", "", "write CPU profile to `file`")

		fv flagValues
	)
	fv.register(flag.CommandLine)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <program>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s -config <file.toml> [flags] [program]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	cfg := defaultConfig()
	if name := *configFlag; name != "" {
		var err error
		if cfg, err = loadConfig(name); err != nil {
			log.Fatal(err)
		}
	}
	if err := fv.apply(flag.CommandLine, cfg); err != nil {
		log.Fatal(err)
	}
	switch flag.NArg() {
	case 0:
		if cfg.Program == "" {
			flag.Usage()
		}
	case 1:
		cfg.Program = flag.Arg(0)
	default:
		flag.Usage()
	}

	if *debugFlag {
		if err := debugMode(cfg); err != nil {
			log.Fatal(err)
		}
		return
	}
	if *devFlag {
		if err := devMode(cfg); err != nil {
			log.Fatal(err)
		}
		return
	}

	var cpuProfile io.Closer
	if prof := *cpuProfileFlag; prof != "" {
		f, err := os.Create(prof)
		if err != nil {
			log.Fatalf("creating CPU profile file: %v", err)
		}
		pprof.StartCPUProfile(f)
		cpuProfile = f
	}

	err := runFile(cfg, os.Stdin, os.Stdout)

	if f := cpuProfile; f != nil {
		pprof.StopCPUProfile()
		f.Close()
	}

	if err != nil {
		log.Fatal(err)
	}
}
