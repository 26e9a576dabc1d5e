// Package main serves the loopback web view. It shares todo.Service and the
// SQLite store with the desktop and terminal front ends.
package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/MihkelHunter/mktodo/internal/config"
	"github.com/MihkelHunter/mktodo/internal/logging"
	"github.com/MihkelHunter/mktodo/internal/store"
	"github.com/MihkelHunter/mktodo/internal/todo"
	"github.com/MihkelHunter/mktodo/internal/web"
)

func main() {
	cfg, err := config.Load(os.Getenv("MKTODO_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	opts := logging.DefaultOptions()
	opts.Level, opts.Format, opts.Prefix = cfg.LogLevel, cfg.LogFormat, "mktodo-web"
	logger := logging.New(opts)

	st, err := store.New(cfg.DBPath())
	if err != nil {
		logger.Fatal("store", "path", cfg.DBPath(), "err", err)
	}
	svc := todo.NewService(st, todo.WithLogger(logger), todo.WithStorageKey(cfg.StorageKey))
	defer svc.Close()

	srv := &http.Server{Addr: cfg.WebAddr, Handler: web.NewHandler(svc, logger)}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		srv.Close()
	}()

	logger.Info("web view listening", "url", "http://"+cfg.WebAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("serve", "err", err)
	}
}
