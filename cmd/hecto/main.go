package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/JackWReid/hecto/internal/config"
	"github.com/JackWReid/hecto/internal/editor"
	"github.com/JackWReid/hecto/internal/logging"
)

var Version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run parses args, sets the editor up and runs it, returning the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("hecto", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: hecto [flags] [file]")
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "config file (default $XDG_CONFIG_HOME/hecto/config.yaml)")
	logPath := fs.String("log", "", "write logs to this file (overrides log_file)")
	showVersion := fs.Bool("version", false, "print the version and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *showVersion {
		fmt.Fprintf(stdout, "hecto %s\n", Version)
		return 0
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "hecto: %v\n", err)
		return 1
	}
	if *logPath != "" {
		cfg.LogFile = *logPath
	}

	level, err := cfg.Level()
	if err != nil {
		fmt.Fprintf(stderr, "hecto: %v\n", err)
		return 1
	}
	log, closer, err := logging.New(cfg.LogFile, level)
	if err != nil {
		fmt.Fprintf(stderr, "hecto: opening log: %v\n", err)
		return 1
	}
	defer closer.Close()

	app := editor.NewApp(fs.Arg(0), cfg, log, Version)
	if err := app.Run(); err != nil {
		log.Error("exit", "err", err)
		fmt.Fprintf(stderr, "hecto: %v\n", err)
		return 1
	}
	fmt.Fprint(stdout, "Goodbye.\r\n")
	return 0
}
