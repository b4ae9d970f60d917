package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"erpdesk/db"
	"erpdesk/internal/app"
	"erpdesk/internal/auth"
	"erpdesk/internal/config"
	"erpdesk/internal/logger"
	"erpdesk/internal/rbac"
	"erpdesk/internal/search"
	"erpdesk/internal/store"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if len(os.Args) > 1 && os.Args[1] == "token" {
		if err := issueToken(cfg, log, os.Args[2:]); err != nil {
			log.Errorw("issue token failed", "error", err)
			os.Exit(1)
		}
		return
	}
	if err := serve(cfg, log); err != nil {
		log.Errorw("docstore stopped", "error", err)
		os.Exit(1)
	}
}

func issueToken(cfg config.Config, log *logger.Logger, args []string) error {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	name := fs.String("name", "", "operator name")
	role := fs.String("role", string(rbac.RoleClerk), "viewer, clerk or admin")
	ttl := fs.Duration("ttl", 12*time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.AuthSecret) == "" {
		return fmt.Errorf("DOCSTORE_AUTH_SECRET is not set")
	}
	token, err := auth.Issue([]byte(cfg.AuthSecret), *name, string(rbac.Normalize(*role)), *ttl)
	if err != nil {
		return err
	}
	log.Infow("token issued", "name", *name, "role", rbac.Normalize(*role), "fingerprint", auth.Fingerprint(token))
	fmt.Println(token)
	return nil
}

func serve(cfg config.Config, log *logger.Logger) error {
	ctx := context.Background()

	var dataStore app.DataStore
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		conn, err := store.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer conn.Close()
		if _, statErr := os.Stat(cfg.MigrationsDir); statErr == nil {
			err = store.ApplyMigrations(ctx, conn, cfg.MigrationsDir)
		} else {
			err = store.ApplyMigrationsFS(ctx, conn, db.Migrations, "migrations", log)
		}
		if err != nil {
			return fmt.Errorf("migrations failed: %w", err)
		}
		dataStore = store.NewPostgresStore(conn)
		log.Infow("using postgres store")
	} else {
		dataStore = store.NewMemoryStore()
		log.Infow("using in-memory store; documents are lost on restart")
	}

	var meiliClient *search.Meili
	if strings.TrimSpace(cfg.MeiliURL) != "" {
		meiliClient = search.NewMeili(cfg.MeiliURL, cfg.MeiliAPIKey, log)
		defer meiliClient.Close()
	}
	searchService := search.NewService(meiliClient, dataStore, log)

	service := app.New(cfg, dataStore, searchService, log)
	if err := service.Bootstrap(ctx); err != nil {
		log.Warnw("bootstrap error (will retry on next restart)", "error", err)
	}
	if !service.AuthRequired() {
		log.Warnw("DOCSTORE_AUTH_SECRET is empty; every caller is treated as admin")
	}

	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin, log)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("docstore listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-sigCh:
		log.Infow("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
