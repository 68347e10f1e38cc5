package main

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/howeyc/fsnotify"
)

// devMode runs the program, and runs it again each time its file
// is written. It returns only if the file cannot be watched.
func devMode(cfg *Config) error {
	progFile := filepath.Clean(cfg.Program)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Watch(filepath.Dir(progFile)); err != nil {
		return err
	}

	run := time.After(1 * time.Millisecond)
	for {
		select {
		case <-run:
			log.Printf("dev: run %s", filepath.Base(progFile))
			if err := runFile(cfg, os.Stdin, os.Stdout); err != nil {
				log.Printf("dev: %v", err)
				break
			}
			log.Printf("dev: done")
		case ev := <-watcher.Event:
			if filepath.Clean(ev.Name) == progFile && !ev.IsAttrib() && !ev.IsDelete() {
				run = time.After(100 * time.Millisecond)
			}
		case err := <-watcher.Error:
			log.Printf("dev: watcher: %v", err)
		}
	}
}
