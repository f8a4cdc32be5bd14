// Command mcscan runs the Minecraft server discovery pipeline: it
// generates random addresses, probes reachable ones for status and
// license, persists results, and periodically refreshes what it has
// already found.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/go-mclib/scanner/checker"
	"github.com/go-mclib/scanner/config"
	"github.com/go-mclib/scanner/console"
	"github.com/go-mclib/scanner/interrupt"
	"github.com/go-mclib/scanner/mcmetrics"
	"github.com/go-mclib/scanner/refresh"
	"github.com/go-mclib/scanner/scan"
	"github.com/go-mclib/scanner/store"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "mcscan",
		Short: "Internet-wide Minecraft server discovery and enumeration scanner",
		RunE:  run,
	}
	root.Flags().StringVar(&configPath, "config", "", "optional config.yaml path")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := console.NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	st, err := store.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutdown signal received")
		cancel()
	}()

	refreshLoop := &refresh.Loop{Store: st, Log: log}
	if cfg.Update {
		log.Info("running startup refresh pass")
		refreshLoop.Pass(ctx)
	}

	if cfg.MetricsAddr != "" {
		startMetricsServer(ctx, cfg.MetricsAddr, log)
	}

	go refreshLoop.Run(ctx)
	go interrupt.Watch(ctx, cfg.InterruptFile, log, func(ictx context.Context, addr *net.TCPAddr) {
		log.Infow("interrupt: processing on-demand address", "addr", addr.String())
		processOnDemand(ictx, st, log, addr)
	})

	pipeline := &scan.Pipeline{
		Threads:     cfg.Threads,
		MaxInflight: cfg.MaxInflight,
		Store:       st,
		Log:         log,
	}
	pipeline.Run(ctx)

	return nil
}

// processOnDemand runs the full status+license+persist workflow once
// for an interrupt-file address.
func processOnDemand(ctx context.Context, st store.Store, log *zap.SugaredLogger, addr *net.TCPAddr) {
	ip := addr.IP.String()
	port := uint16(addr.Port)

	status, err := checker.Status(ctx, ip, port)
	if err != nil {
		log.Warnw("interrupt: status probe failed", "addr", addr.String(), "error", err)
		return
	}

	license := checker.Classify(ctx, ip, port, status)
	mcmetrics.Probed.WithLabelValues(mcmetrics.LicenseLabel(license)).Inc()

	now := time.Now()
	rec := store.ServerRecord{
		IP:        ip,
		Port:      fmt.Sprintf("%d", addr.Port),
		License:   license,
		Status:    status,
		FirstSeen: now,
		LastSeen:  now,
	}
	if err := st.Add(ctx, rec); err != nil {
		log.Warnw("interrupt: persist failed", "addr", addr.String(), "error", err)
		return
	}
	console.PrintServer(rec)
}

// startMetricsServer mounts the Prometheus handler on cfg.MetricsAddr
// and logs, but does not fail startup on, a listen error: metrics are a
// purely observational subsystem.
func startMetricsServer(ctx context.Context, addr string, log *zap.SugaredLogger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", mcmetrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warnw("metrics server stopped", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
}
