//go:build linux

// Command uringinfo prints what io_uring offers on this machine: granted ring sizes,
// feature bits, supported opcodes and the memory a ring would lock.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/brickingsoft/rxp"
	"github.com/brickingsoft/uring/internal/config"
	"github.com/brickingsoft/uring/internal/logging"
	"github.com/brickingsoft/uring/internal/report"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "uringinfo:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	options := []rxp.Option{rxp.WithCloseTimeout(cfg.Info.CloseTimeout)}
	if n := cfg.Info.Workers; n > 0 {
		options = append(options, rxp.WithMaxGoroutines(n))
	}
	exec, err := rxp.New(options...)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := exec.Close(); closeErr != nil {
			log.Warn("close executors", zap.Error(closeErr))
		}
	}()

	r, err := report.Collect(ctx, exec, cfg, log)
	if err != nil {
		log.Error("collect", zap.Error(err))
		return err
	}
	if r.RingErr != nil {
		log.Warn("configured ring could not be created", zap.Uint32("entries", r.Entries), zap.Error(r.RingErr))
	}
	if r.BudgetErr != nil {
		log.Warn("ring exceeds the memlock limit",
			zap.Uint32("entries", r.Entries),
			zap.Uint64("need", r.MLockNeed),
			zap.Uint64("limit", r.MLockCur),
		)
	}

	switch cfg.Info.Format {
	case config.FormatPrometheus:
		return report.WritePrometheus(os.Stdout, r)
	default:
		return report.WriteText(os.Stdout, r)
	}
}
