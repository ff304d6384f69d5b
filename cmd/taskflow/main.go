package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"taskflow/internal/console"
	"taskflow/internal/logger"
	"taskflow/internal/sched"
	"taskflow/internal/taskgen"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "taskflow:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "config.yml", "path to the YAML config file")
	csvPath := flag.String("csv", "", "write task outcomes to this CSV file")
	noColor := flag.Bool("no-color", false, "disable ANSI colors")
	flag.Parse()

	// Read the configuration
	cfg, err := sched.Load(*configPath)
	if err != nil {
		return err
	}
	if *csvPath != "" {
		cfg.CSVPath = *csvPath
	}
	if *noColor {
		cfg.Color = false
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	format, err := logger.ParseFormat(cfg.LogFormat)
	if err != nil {
		return err
	}
	log := logger.New(
		logger.WithLevel(level),
		logger.WithFormat(format),
		logger.WithAttr(slog.String("service", "taskflow")),
	)
	logger.SetAsDefault(log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	out := console.NewPrinter(os.Stdout, cfg.Color)
	out.Banner("TaskFlow started")

	s := sched.New(
		sched.WithLogger(log),
		sched.WithEventBuffer(cfg.EventBuffer),
		sched.WithEventHandler(out.Handle),
	)
	if cfg.CSVPath != "" {
		if err := s.EnableCSVLogging(cfg.CSVPath); err != nil {
			return err
		}
	}

	if err := produce(ctx, s, out, cfg); err != nil {
		return err
	}

	report, err := s.RunAll(ctx)
	if err != nil {
		return err
	}
	out.Summary(report)

	log.Info("run finished",
		slog.String("run_id", report.RunID.String()),
		slog.Int("succeeded", report.Succeeded()),
		slog.Int("failed", report.Failed()),
		logger.Duration(report.Duration()))
	return nil
}

// produce generates cfg.TaskCount tasks and hands them to the scheduler from cfg.Producers goroutines.
func produce(ctx context.Context, s *sched.Scheduler, out *console.Printer, cfg sched.Config) error {
	specs := taskgen.New(cfg.Seed, cfg.MaxUnits).Batch(cfg.TaskCount)
	out.Banner(fmt.Sprintf("generating %d tasks", len(specs)))

	g, ctx := errgroup.WithContext(ctx)
	for p := range cfg.Producers {
		g.Go(func() error {
			for i := p; i < len(specs); i += cfg.Producers {
				if err := ctx.Err(); err != nil {
					return err
				}
				task := specs[i].Build(cfg.Unit())
				out.Added(task.Name(), specs[i].Priority, task.Estimate())
				s.Add(specs[i].Priority, task)
			}
			return nil
		})
	}
	return g.Wait()
}
