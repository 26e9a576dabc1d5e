// Package main is the desktop front end for mktodo. It shares todo.Service and
// the SQLite store with the terminal and web front ends.
package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/MihkelHunter/mktodo/internal/config"
	"github.com/MihkelHunter/mktodo/internal/logging"
	"github.com/MihkelHunter/mktodo/internal/store"
	"github.com/MihkelHunter/mktodo/internal/todo"
)

func main() {
	cfg, err := config.Load(os.Getenv("MKTODO_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	opts := logging.DefaultOptions()
	opts.Level, opts.Format, opts.Prefix = cfg.LogLevel, cfg.LogFormat, "mktodo-desktop"
	logger := logging.New(opts)

	st, err := store.New(cfg.DBPath())
	if err != nil {
		logger.Fatal("open store", "path", cfg.DBPath(), "err", err)
	}
	svc := todo.NewService(st, todo.WithLogger(logger), todo.WithStorageKey(cfg.StorageKey))
	defer svc.Close()

	a := app.NewWithID("io.github.mihkelhunter.mktodo")
	a.Settings().SetTheme(boardTheme{})

	win := a.NewWindow("mkToDo")
	win.Resize(fyne.NewSize(760, 620))
	win.CenterOnScreen()

	b := newBoard(svc, logger, win)
	win.SetContent(b.content())
	b.refresh()

	win.ShowAndRun()
}
