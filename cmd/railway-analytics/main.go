package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/JackaZhai/RailwaySystem/config"
	"github.com/JackaZhai/RailwaySystem/internal"
	"github.com/JackaZhai/RailwaySystem/metrics"
	"github.com/JackaZhai/RailwaySystem/publisher"
	"github.com/JackaZhai/RailwaySystem/server"
	"github.com/JackaZhai/RailwaySystem/store"
)

func main() {
	internal.InitLogging()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if cfg.Store.DSN == "" {
		log.Fatalf("store DSN must be set (store.dsn in config.yml or DATABASE_URL)")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	st, err := store.Open(cfg.Store.DSN)
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}
	defer st.Close()
	if err := st.Ping(ctx); err != nil {
		log.Fatalf("db ping error: %v", err)
	}
	if err := st.LoadNames(ctx); err != nil {
		log.Printf("station name cache unavailable: %v", err)
	}

	var collector *metrics.Collector
	if cfg.Metrics.Addr != "" {
		collector = metrics.NewCollector()
		srv := collector.Serve(cfg.Metrics.Addr)
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	var alerts *publisher.AlertPublisher
	if cfg.Alerts.NATSURL != "" {
		alerts, err = publisher.NewAlertPublisher(cfg.Alerts.NATSURL, cfg.Alerts.SubjectPrefix, wrapPublisherMetrics(collector))
		if err != nil {
			log.Fatalf("nats error: %v", err)
		}
		defer alerts.Close()
	}

	srv := server.New(cfg, st, st, collector, alerts)
	srv.Start()

	<-ctx.Done()
	log.Printf("shutdown signal received")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	} else {
		log.Printf("server shut down successfully")
	}
}

// wrapPublisherMetrics adapts the Collector to the PublisherMetrics interface.
func wrapPublisherMetrics(c *metrics.Collector) publisher.PublisherMetrics {
	if c == nil {
		return nil
	}
	return &pubMetrics{c: c}
}

type pubMetrics struct{ c *metrics.Collector }

func (p *pubMetrics) AlertPublishedInc()  { p.c.AlertsPublished.Inc() }
func (p *pubMetrics) AlertPublishErrInc() { p.c.AlertPublishErrs.Inc() }
func (p *pubMetrics) NATSSetConnected(b bool) {
	if b {
		p.c.NATSConnected.Set(1)
	} else {
		p.c.NATSConnected.Set(0)
	}
}
