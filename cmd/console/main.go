package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"erpdesk/internal/cache"
	"erpdesk/internal/client"
	"erpdesk/internal/config"
	"erpdesk/internal/console"
	"erpdesk/internal/editor"
	"erpdesk/internal/logger"
	"erpdesk/internal/printing"
)

// environment is what every subcommand runs against.
type environment struct {
	ctx      context.Context
	command  *Command
	cfg      config.Config
	log      *logger.Logger
	ws       *console.Workspace
	client   *client.Client
	buffer   *editor.Buffer
	recorder *console.Recorder
}

func main() {
	registry := NewCommandRegistry()
	registerCommands(registry)

	cmd, err := registry.Lookup(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	if cmd == nil {
		return
	}

	cfg := config.Load()
	log := logger.NewNop()
	if !cmd.Interactive {
		log, err = logger.New(cfg.LogLevel)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		defer log.Sync()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env, cleanup, err := newEnvironment(ctx, cfg, log, cmd.Interactive)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	defer cleanup()
	env.command = cmd

	if err := cmd.Run(env, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newEnvironment wires the workspace. Interactive sessions keep
// notifications in the recorder only; the TUI owns the terminal.
func newEnvironment(ctx context.Context, cfg config.Config, log *logger.Logger, interactive bool) (*environment, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var backend cache.Backend
	if strings.TrimSpace(cfg.RedisURL) != "" {
		redisBackend, err := cache.NewRedisBackend(cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			return nil, cleanup, fmt.Errorf("redis connection failed: %w", err)
		}
		closers = append(closers, func() { _ = redisBackend.Close() })
		backend = redisBackend
		log.Debugw("using redis document cache")
	} else {
		backend = cache.NewMemoryBackend(cfg.CacheTTL)
	}

	printer, err := newPrinter(ctx, cfg, log)
	if err != nil {
		return nil, cleanup, err
	}

	recorder := console.NewRecorder()
	var notifier console.Notifier = console.Tee{recorder, console.NewLogNotifier(log)}
	if interactive {
		notifier = recorder
	}
	storeClient := client.New(cfg.StoreURL, client.StaticToken(cfg.StoreToken), cfg.StoreTimeout)
	buffer := editor.NewBuffer()
	ws, err := console.NewWorkspace(console.Options{
		Store:          storeClient,
		Cache:          cache.NewDocuments(backend, log),
		Surface:        buffer,
		Notifier:       notifier,
		Printer:        printer,
		Logger:         log,
		NotifyDuration: cfg.NotifyDuration,
	})
	if err != nil {
		return nil, cleanup, err
	}
	return &environment{ctx: ctx, cfg: cfg, log: log, ws: ws, client: storeClient, buffer: buffer, recorder: recorder}, cleanup, nil
}

func newPrinter(ctx context.Context, cfg config.Config, log *logger.Logger) (printing.Printer, error) {
	var printer printing.Printer
	switch strings.ToLower(strings.TrimSpace(cfg.PrintMode)) {
	case "pdf":
		printer = printing.ChromePrinter{Dir: cfg.PrintDir}
	case "html", "":
		printer = printing.HTMLPrinter{Dir: cfg.PrintDir}
	default:
		return nil, fmt.Errorf("unknown PRINT_MODE %q", cfg.PrintMode)
	}
	if strings.TrimSpace(cfg.MinioEndpoint) == "" {
		return printer, nil
	}
	minioClient, err := printing.NewMinioClient(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	if err != nil {
		return nil, err
	}
	return printing.NewArchivingPrinter(printer, minioClient, cfg.MinioBucket, log), nil
}
