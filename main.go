package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"perfmon-agent/api"
	"perfmon-agent/collector"
	"perfmon-agent/config"
	"perfmon-agent/hwinfo"
	"perfmon-agent/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Build info
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	log.Printf("Performance Monitor Agent %s (%s) built on %s", version, commit, date)
	log.Printf("Serving on http://127.0.0.1:%d, sampling every %ds", cfg.Port, cfg.IntervalSeconds)

	reg := prometheus.NewRegistry()
	metrics := collector.NewMetrics(reg)
	st := store.New()

	sched := collector.NewScheduler(buildSources(cfg), st, metrics,
		time.Duration(cfg.IntervalSeconds)*time.Second)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sched.Run(ctx)

	srv := &http.Server{
		// Loopback only; no metric data leaves the machine.
		Addr:    fmt.Sprintf("127.0.0.1:%d", cfg.Port),
		Handler: api.NewRouter(st, cfg.Port, promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown: %v", err)
	}
}

// buildSources assembles the enabled source adapters. A disabled family
// is simply never constructed, so nothing of it can reach a snapshot.
func buildSources(cfg *config.Config) []collector.Source {
	var sources []collector.Source
	if cfg.Collect.Psutil {
		sources = append(sources,
			collector.NewSystemSource(),
			collector.NewGPUSource(),
			collector.NewNetworkSource(),
		)
	}
	if cfg.Collect.Hwinfo {
		sources = append(sources, hwinfo.NewSource(cfg.HwinfoAllowUserHiveFallback))
	}
	if cfg.Collect.Latency {
		sources = append(sources, collector.NewLatencySource(cfg.LatencyTarget))
	}
	return sources
}
