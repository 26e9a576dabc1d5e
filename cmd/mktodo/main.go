// Package main is the terminal front end for mktodo.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/MihkelHunter/mktodo/internal/cli"
	"github.com/MihkelHunter/mktodo/internal/config"
	"github.com/MihkelHunter/mktodo/internal/logging"
	"github.com/MihkelHunter/mktodo/internal/store"
	"github.com/MihkelHunter/mktodo/internal/todo"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("mktodo", flag.ContinueOnError)
	configPath := fs.String("config", "", "config file")
	dbPath := fs.String("db", "", "SQLite database path")
	logLevel := fs.String("log-level", "", "log level")
	if err := fs.Parse(args); err != nil {
		return cli.ExitUserError
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		return cli.ExitUserError
	}
	if *dbPath != "" {
		cfg.Database = *dbPath
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	opts := logging.DefaultOptions()
	opts.Level = cfg.LogLevel
	opts.Format = cfg.LogFormat
	logger := logging.New(opts)

	st, err := store.New(cfg.DBPath())
	if err != nil {
		logger.Error("open store", "path", cfg.DBPath(), "err", err)
		return cli.ExitStorageError
	}

	svc := todo.NewService(st, todo.WithLogger(logger), todo.WithStorageKey(cfg.StorageKey))
	defer svc.Close()

	return cli.NewDispatcher(svc, os.Stdin, os.Stdout, os.Stderr).Run(fs.Args())
}
