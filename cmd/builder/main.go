// Command builder runs the content snapshot build: it loads the source
// registry, fetches every source, and writes the aggregated JSON artifact.
// By default it runs once and exits; with --schedule it stays up and
// rebuilds on a cron expression.
package main

import (
	"context"
	"crypto/tls"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"newswatch/internal/config"
	"newswatch/internal/domain/entity"
	"newswatch/internal/infra/fetcher"
	"newswatch/internal/infra/images"
	"newswatch/internal/infra/scraper"
	"newswatch/internal/infra/snapshot"
	"newswatch/internal/observability/logging"
	"newswatch/internal/observability/metrics"
	"newswatch/internal/usecase/build"
)

// Options holds the command line and environment configuration.
type Options struct {
	SourcesPath   string        `long:"sources" env:"SOURCES_PATH" default:"sources.json" description:"Path to the source registry file (JSON or YAML)"`
	OutPath       string        `long:"out" env:"OUT_PATH" default:"docs/data/content.json" description:"Path of the snapshot artifact"`
	FetchTimeout  time.Duration `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"20s" description:"Per-request HTTP timeout"`
	ImageWorkers  int           `long:"image-workers" env:"IMAGE_WORKERS" default:"4" description:"Concurrent article-page fetches per source"`
	UserAgent     string        `long:"user-agent" env:"USER_AGENT" default:"newswatch-builder (+https://github.com/swiis/newswatch)" description:"User-Agent header for outbound requests"`
	Schedule      string        `long:"schedule" env:"BUILD_SCHEDULE" description:"Cron expression; when set, rebuild on this schedule instead of running once"`
	Timezone      string        `long:"timezone" env:"BUILD_TIMEZONE" default:"UTC" description:"IANA timezone for the cron schedule"`
	MetricsPort   int           `long:"metrics-port" env:"METRICS_PORT" default:"9090" description:"Prometheus metrics port (scheduled mode only)"`
	FacebookToken string        `long:"facebook-token" env:"FACEBOOK_ACCESS_TOKEN" description:"Graph API access token for Facebook sources"`
	LogLevel      string        `long:"log-level" env:"LOG_LEVEL" default:"info" description:"Log level (debug, info, warn, error)"`
}

func main() {
	var opts Options
	if _, err := flags.Parse(&opts); err != nil {
		if flags.WroteHelp(err) {
			return
		}
		os.Exit(1)
	}

	logger := logging.NewLogger(opts.LogLevel)
	logger = logger.With(slog.String("run_id", uuid.NewString()))
	slog.SetDefault(logger)

	sources, err := config.LoadRegistry(opts.SourcesPath)
	if err != nil {
		logger.Error("invalid source registry, refusing to build",
			slog.String("path", opts.SourcesPath),
			slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("source registry loaded",
		slog.String("path", opts.SourcesPath),
		slog.Int("sources", len(sources)))

	registry := prometheus.NewRegistry()
	svc := setupBuildService(opts, registry)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.Schedule == "" {
		if err := runOnce(ctx, logger, svc, sources); err != nil {
			os.Exit(1)
		}
		return
	}

	runScheduled(ctx, logger, svc, sources, opts, registry)
}

// setupBuildService wires the fetchers, scrapers, resolver, and writer into
// a build service.
func setupBuildService(opts Options, registry *prometheus.Registry) *build.Service {
	feedClient := createHTTPClient(opts.FetchTimeout)
	scrapeClient := createHTTPClient(opts.FetchTimeout / 2)

	feedFetcher := fetcher.NewRSSFetcher(feedClient, opts.UserAgent)

	scraperFactory := scraper.NewFactory(scrapeClient, opts.UserAgent, opts.FacebookToken)
	scrapers := scraperFactory.CreateFetchers()
	slog.Info("scrapers initialized", slog.Int("count", len(scrapers)))

	resolver := images.NewResolver(scrapeClient, opts.UserAgent, opts.ImageWorkers)
	writer := snapshot.NewWriter(opts.OutPath)
	builderMetrics := metrics.NewBuilderMetrics(registry)

	return build.NewService(feedFetcher, scrapers, resolver, writer, builderMetrics)
}

func runOnce(ctx context.Context, logger *slog.Logger, svc *build.Service, sources []entity.Source) error {
	stats, err := svc.Run(ctx, sources)
	if err != nil {
		logger.Error("build failed", slog.Any("error", err))
		return err
	}
	logger.Info("build complete",
		slog.Int("sources", stats.Sources),
		slog.Int("items", stats.Items),
		slog.Int("warnings", stats.Warnings),
		slog.Duration("duration", stats.Duration))
	return nil
}

// runScheduled rebuilds on the configured cron schedule until the context is
// canceled. An immediate build runs first so a fresh deployment never waits
// a full period for its artifact.
func runScheduled(ctx context.Context, logger *slog.Logger, svc *build.Service, sources []entity.Source, opts Options, registry *prometheus.Registry) {
	loc, err := time.LoadLocation(opts.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC",
			slog.String("timezone", opts.Timezone),
			slog.Any("error", err))
		loc = time.UTC
	}

	startMetricsServer(ctx, logger, opts.MetricsPort, registry)

	_ = runOnce(ctx, logger, svc, sources)

	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(opts.Schedule, func() {
		_ = runOnce(ctx, logger, svc, sources)
	})
	if err != nil {
		logger.Error("invalid cron schedule",
			slog.String("schedule", opts.Schedule),
			slog.Any("error", err))
		os.Exit(1)
	}

	c.Start()
	logger.Info("scheduled rebuilds started",
		slog.String("schedule", opts.Schedule),
		slog.String("timezone", loc.String()))

	<-ctx.Done()
	logger.Info("shutdown signal received, stopping scheduler")
	<-c.Stop().Done()
}

// createHTTPClient creates an HTTP client with connection pooling and
// TLS 1.2+ enforced.
func createHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}
