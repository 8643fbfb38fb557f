// Package main is the entry point for the verso document tool. It loads
// a text file into the versioned engine, runs Lua edit scripts against
// it, and writes the result to stdout or back to the file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dquist/verso/internal/config"
	"github.com/dquist/verso/internal/engine"
	"github.com/dquist/verso/internal/event"
	"github.com/dquist/verso/internal/script"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	configPath string
	scriptPath string
	expr       string
	write      bool
	readOnly   bool
	verbose    bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()
	path := flag.Arg(0)

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
		return 1
	}
	policy, err := cfg.GroupPolicy()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	bus := event.NewBus(
		event.WithQueueSize(cfg.Events.QueueSize),
		event.WithWorkers(cfg.Events.Workers),
	)
	defer bus.Close()

	if opts.verbose {
		if err := subscribeVerbose(bus); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	var content string
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error: reading %s: %v\n", path, err)
			return 1
		}
		content = string(data)
	}

	engOpts := []engine.Option{
		engine.WithContent(content),
		engine.WithLineEnding(cfg.LineEndingValue()),
		engine.WithGroupPolicy(policy),
		engine.WithEventBus(bus),
	}
	if opts.readOnly {
		engOpts = append(engOpts, engine.WithReadOnly())
	}
	eng := engine.New(engOpts...)

	rt, err := script.NewRuntime(eng,
		script.WithTimeout(time.Duration(cfg.Script.TimeoutSeconds)*time.Second),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer rt.Close()

	if opts.expr != "" {
		if err := rt.RunString(opts.expr); err != nil {
			fmt.Fprintf(os.Stderr, "Error: script: %v\n", err)
			return 1
		}
	}
	if opts.scriptPath != "" {
		if err := rt.RunFile(opts.scriptPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: script %s: %v\n", opts.scriptPath, err)
			return 1
		}
	}
	if opts.expr == "" && opts.scriptPath == "" {
		fmt.Fprintln(os.Stderr, "Error: no script given (use -e or -script)")
		flag.Usage()
		return 2
	}

	if opts.write {
		if path == "" {
			fmt.Fprintln(os.Stderr, "Error: -write requires a file argument")
			return 2
		}
		if err := os.WriteFile(path, []byte(eng.Text()), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: writing %s: %v\n", path, err)
			return 1
		}
		eng.SetPristine()
	} else {
		fmt.Print(eng.Text())
	}

	if opts.verbose {
		fmt.Fprintf(os.Stderr, "rev=%d lines=%d bytes=%d pristine=%t\n",
			eng.Rev(), eng.LineCount(), eng.Len(), eng.IsPristine())
	}
	return 0
}

// subscribeVerbose logs every committed revision to stderr.
func subscribeVerbose(bus *event.Bus) error {
	_, err := bus.SubscribeFunc(event.TopicEditApplied,
		func(_ context.Context, ev any) error {
			e, ok := ev.(event.EditApplied)
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "edit rev=%d type=%s lines=%d..+%d\n",
				e.Rev, e.EditType, e.InvalLines.StartLine, e.InvalLines.NewCount)
			return nil
		})
	if err != nil {
		return err
	}
	_, err = bus.SubscribeFunc(event.TopicPristineChanged,
		func(_ context.Context, ev any) error {
			if e, ok := ev.(event.PristineChanged); ok {
				fmt.Fprintf(os.Stderr, "pristine=%t rev=%d\n", e.Pristine, e.Rev)
			}
			return nil
		})
	return err
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file (TOML or YAML)")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.scriptPath, "script", "", "Lua script file to run against the document")
	flag.StringVar(&opts.scriptPath, "s", "", "Lua script file (shorthand)")
	flag.StringVar(&opts.expr, "e", "", "Inline Lua code to run against the document")
	flag.BoolVar(&opts.write, "write", false, "Write the result back to the file instead of stdout")
	flag.BoolVar(&opts.write, "w", false, "Write the result back to the file (shorthand)")
	flag.BoolVar(&opts.readOnly, "readonly", false, "Open the document read-only")
	flag.BoolVar(&opts.readOnly, "R", false, "Open the document read-only (shorthand)")
	flag.BoolVar(&opts.verbose, "verbose", false, "Log revisions and events to stderr")
	flag.BoolVar(&showVersion, "v", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "verso - scripted edits over a versioned text engine\n\n")
		fmt.Fprintf(os.Stderr, "Usage: verso [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  verso -e 'buf.insert(0, \"hi\\n\")' notes.txt\n")
		fmt.Fprintf(os.Stderr, "  verso -s edit.lua -w notes.txt\n")
		fmt.Fprintf(os.Stderr, "  verso -c verso.toml -s edit.lua notes.txt\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("verso %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	return opts
}
