package collector

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/utxonode/utxo-exporter/pkg/retry"
)

// CountryMapper defines the signature of a function that given an IP,
// translates it into a country code.
//
//	f(ip) -> US
//
type CountryMapper func(net.IP) (string, error)

func defaultCountryMapper(_ net.IP) (string, error) {
	return "unknown", nil
}

// CustomCollector defines a standardized interface for the per-call
// collectors that make up a collection cycle.
//
type CustomCollector interface {
	Name() string
	Collect(ctx context.Context) error
}

// Collector drives the scrape-and-cache cycle: on a fixed interval it
// invokes each rpc call against the node (through the retry policy),
// mapping the results to metric updates in the registry it was built
// against.
//
// The http endpoint (see `pkg/exporter`) reads that registry at its own
// pace and never triggers a collection itself.
//
type Collector struct {
	client  Client
	metrics *metrics

	interval        time.Duration
	blockchain      string
	retrier         *retry.Retrier
	countryMapper   CountryMapper
	smartFeeTargets []int64
	hashPSWindows   []int64

	tasks []CustomCollector

	log logr.Logger
}

// Option is a type used by functional arguments to mutate the collector
// to override default behavior.
//
type Option func(c *Collector)

// WithInterval overrides the default 30s cycle interval.
//
func WithInterval(v time.Duration) Option {
	return func(c *Collector) {
		c.interval = v
	}
}

// WithBlockchainName overrides the value of the `blockchain` label
// stamped on every metric.
//
func WithBlockchainName(v string) Option {
	return func(c *Collector) {
		c.blockchain = v
	}
}

// WithRetrier overrides the retry policy applied to each rpc call.
//
func WithRetrier(v *retry.Retrier) Option {
	return func(c *Collector) {
		c.retrier = v
	}
}

// WithCountryMapper is a functional argument that overrides the default
// no-op country mapper used for the per-country peer breakdown.
//
func WithCountryMapper(v CountryMapper) Option {
	return func(c *Collector) {
		c.countryMapper = v
	}
}

// WithSmartFeeTargets overrides the confirmation targets (in blocks)
// for which fee estimates are collected.
//
func WithSmartFeeTargets(v []int64) Option {
	return func(c *Collector) {
		c.smartFeeTargets = v
	}
}

// WithHashPSWindows overrides the trailing block windows for which the
// network hash rate is collected.
//
func WithHashPSWindows(v []int64) Option {
	return func(c *Collector) {
		c.hashPSWindows = v
	}
}

// WithLogger overrides the default zap development logger.
//
func WithLogger(v logr.Logger) Option {
	return func(c *Collector) {
		c.log = v
	}
}

// New instantiates a collector, registering the whole metric set
// against `reg`.
//
func New(client Client, reg prometheus.Registerer, opts ...Option) (*Collector, error) {
	c := &Collector{
		client:          client,
		interval:        30 * time.Second,
		blockchain:      "bitcoin",
		countryMapper:   defaultCountryMapper,
		smartFeeTargets: []int64{2, 3, 5, 20},
		hashPSWindows:   []int64{-1, 1, 120},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.log == nil {
		defaultLogger, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("zap new development: %w", err)
		}

		c.log = zapr.NewLogger(defaultLogger.Named("collector"))
	}

	c.metrics = newMetrics(reg, c.blockchain)

	if c.retrier == nil {
		c.retrier = retry.New(retry.DefaultPolicy())
	}

	// every rpc call made by the tasks below goes through the retry
	// policy, each with its own attempt budget.
	client = &retryingClient{client: c.client, retrier: c.retrier}

	c.tasks = []CustomCollector{
		newChainInfoCollector(client, c.metrics),
		newChainTipsCollector(client, c.metrics),
		newTxStatsCollector(client, c.metrics),
		newLastBlockCollector(client, c.metrics),
		newMempoolCollector(client, c.metrics),
		newNetworkCollector(client, c.metrics),
		newPeersCollector(client, c.metrics, c.countryMapper),
		newNetStatsCollector(client, c.metrics),
		newUTXOSetCollector(client, c.metrics),
		newUptimeCollector(client, c.metrics),
		newMemInfoCollector(client, c.metrics),
		newRPCInfoCollector(client, c.metrics),
		newBannedCollector(client, c.metrics),
		newSmartFeeCollector(client, c.metrics, c.smartFeeTargets),
		newHashRateCollector(client, c.metrics, c.hashPSWindows),
	}

	return c, nil
}

// Run drives collection cycles at the configured interval until the
// context is cancelled. The first cycle starts immediately.
//
// ps.: this is a BLOCKING method - run it in its own goroutine.
//
func (c *Collector) Run(ctx context.Context) error {
	c.log.WithValues("interval", c.interval.String()).Info("starting")

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.collectOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			c.log.Info("stopping")
			return nil
		case <-ticker.C:
			c.collectOnce(ctx)
		}
	}
}

// collectOnce runs a single collection cycle: each task in turn, a
// failing task degrading only its own metrics (they keep their last
// known values) and flipping the cycle's `up` flag.
//
func (c *Collector) collectOnce(ctx context.Context) {
	start := time.Now()
	failed := 0

	for _, task := range c.tasks {
		if ctx.Err() != nil {
			return
		}

		if err := task.Collect(ctx); err != nil {
			failed++
			c.metrics.scrapeErrors.WithLabelValues(task.Name()).Inc()
			c.log.Error(err, "collect", "collector", task.Name())
		}
	}

	if failed == 0 {
		c.metrics.up.Set(1)
	} else {
		c.metrics.up.Set(0)
	}

	duration := time.Since(start)
	c.metrics.scrapeDuration.Set(duration.Seconds())
	c.metrics.lastScrapeTime.SetToCurrentTime()

	c.log.WithValues(
		"duration", duration.String(),
		"failed", failed,
	).Info("cycle done")
}
