package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-logr/zapr"
	"github.com/oschwald/geoip2-golang"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/utxonode/utxo-exporter/pkg/collector"
	"github.com/utxonode/utxo-exporter/pkg/exporter"
	"github.com/utxonode/utxo-exporter/pkg/retry"
	"github.com/utxonode/utxo-exporter/pkg/rpc"
	"github.com/utxonode/utxo-exporter/pkg/rpc/daemon"
)

type command struct {
	rpcScheme      string
	rpcHost        string
	rpcPort        string
	rpcUser        string
	rpcPassword    string
	rpcTimeout     time.Duration
	blockchainName string

	refreshInterval time.Duration
	retries         int

	metricsAddr   string
	metricsPort   int
	telemetryPath string

	geoIPFilepath string

	smartFeeTargets []int64
	hashPSWindows   []int64

	// configErrs accumulates environment values that could not be
	// parsed while the flag defaults were being computed.
	configErrs []error
}

func (c *command) Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "utxo-exporter",
		Short:         "Prometheus exporter for UTXO-model blockchain nodes",
		RunE:          c.RunE,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&c.rpcScheme, "rpc-scheme",
		envString("UTXO_NODE_RPC_SCHEME", "http"),
		"scheme used to reach the node's rpc interface")

	cmd.Flags().StringVar(&c.rpcHost, "rpc-host",
		envString("UTXO_NODE_RPC_HOST", "localhost"),
		"host of the node's rpc interface")

	cmd.Flags().StringVar(&c.rpcPort, "rpc-port",
		envString("UTXO_NODE_RPC_PORT", "8332"),
		"port of the node's rpc interface")

	cmd.Flags().StringVar(&c.rpcUser, "rpc-user",
		envString("UTXO_NODE_RPC_USER", ""),
		"username submitted via basic auth")

	cmd.Flags().StringVar(&c.rpcPassword, "rpc-password",
		envString("UTXO_NODE_RPC_PASSWORD", ""),
		"password submitted via basic auth")

	cmd.Flags().DurationVar(&c.rpcTimeout, "rpc-timeout",
		c.envDuration("TIMEOUT", rpc.DefaultTimeout),
		"how long a single rpc round trip may take")

	cmd.Flags().StringVar(&c.blockchainName, "blockchain-name",
		envString("UTXO_NODE_BLOCKCHAIN_NAME", "bitcoin"),
		"value of the blockchain label stamped on every metric")

	cmd.Flags().DurationVar(&c.refreshInterval, "refresh-interval",
		c.envDuration("REFRESH_SECONDS", 30*time.Second),
		"interval between two collection cycles")

	cmd.Flags().IntVar(&c.retries, "retries",
		c.envInt("RETRIES", retry.DefaultPolicy().MaxAttempts),
		"total number of attempts for each rpc call")

	cmd.Flags().StringVar(&c.metricsAddr, "metrics-addr",
		envString("METRICS_ADDR", ""),
		"address to bind the metrics server to (empty = any)")

	cmd.Flags().IntVar(&c.metricsPort, "metrics-port",
		c.envInt("METRICS_PORT", 9332),
		"port to bind the metrics server to")

	cmd.Flags().StringVar(&c.telemetryPath, "telemetry-path",
		"/metrics", "endpoint at which prometheus metrics are served")

	cmd.Flags().StringVar(&c.geoIPFilepath, "geoip-filepath",
		"", "filepath of a geoip database file for ip to country "+
			"resolution of peers")
	_ = cmd.MarkFlagFilename("geoip-filepath")

	cmd.Flags().Int64SliceVar(&c.smartFeeTargets, "smartfee-blocks",
		c.envInt64Slice("SMARTFEE_BLOCKS", []int64{2, 3, 5, 20}),
		"confirmation targets (in blocks) for fee estimation")

	cmd.Flags().Int64SliceVar(&c.hashPSWindows, "hashps-blocks",
		c.envInt64Slice("HASHPS_BLOCKS", []int64{-1, 1, 120}),
		"trailing block windows for hash rate estimation")

	return cmd
}

func (c *command) RunE(_ *cobra.Command, _ []string) error {
	if err := c.configErr(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer cancel()

	zapLogger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("zap new development: %w", err)
	}
	log := zapr.NewLogger(zapLogger)

	nodeAddress := fmt.Sprintf(
		"%s://%s:%s/", c.rpcScheme, c.rpcHost, c.rpcPort,
	)

	rpcClient, err := rpc.NewClient(nodeAddress,
		rpc.WithBasicAuth(c.rpcUser, c.rpcPassword),
		rpc.WithTimeout(c.rpcTimeout),
	)
	if err != nil {
		return fmt.Errorf("new client '%s': %w", nodeAddress, err)
	}

	daemonClient := daemon.NewClient(rpcClient)

	policy := retry.DefaultPolicy()
	policy.MaxAttempts = c.retries

	registry := prometheus.NewRegistry()

	collectorOpts := []collector.Option{
		collector.WithInterval(c.refreshInterval),
		collector.WithBlockchainName(c.blockchainName),
		collector.WithRetrier(retry.New(policy)),
		collector.WithSmartFeeTargets(c.smartFeeTargets),
		collector.WithHashPSWindows(c.hashPSWindows),
		collector.WithLogger(log.WithName("collector")),
	}

	if c.geoIPFilepath != "" {
		db, err := geoip2.Open(c.geoIPFilepath)
		if err != nil {
			return fmt.Errorf("geoip open: %w", err)
		}
		defer db.Close()

		countryMapper := func(ip net.IP) (string, error) {
			res, err := db.Country(ip)
			if err != nil {
				return "", fmt.Errorf(
					"country '%s': %w", ip, err,
				)
			}

			return res.RegisteredCountry.IsoCode, nil
		}

		collectorOpts = append(collectorOpts,
			collector.WithCountryMapper(countryMapper),
		)
	}

	nodeCollector, err := collector.New(
		daemonClient, registry, collectorOpts...,
	)
	if err != nil {
		return fmt.Errorf("new collector: %w", err)
	}

	prometheusExporter, err := exporter.New(
		exporter.WithBindAddress(fmt.Sprintf(
			"%s:%d", c.metricsAddr, c.metricsPort,
		)),
		exporter.WithTelemetryPath(c.telemetryPath),
		exporter.WithGatherer(registry),
	)
	if err != nil {
		return fmt.Errorf("new exporter: %w", err)
	}
	defer prometheusExporter.Close()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return nodeCollector.Run(gctx)
	})

	g.Go(func() error {
		if err := prometheusExporter.Run(gctx); err != nil {
			return fmt.Errorf("prometheus exporter run: %w", err)
		}

		return nil
	})

	return g.Wait()
}

func envString(key, fallback string) string {
	if v, found := os.LookupEnv(key); found {
		return v
	}

	return fallback
}

// envInt parses an integer environment value. An unparseable value is
// recorded as a configuration error, which fails startup.
//
func (c *command) envInt(key string, fallback int) int {
	v, found := os.LookupEnv(key)
	if !found {
		return fallback
	}

	parsed, err := strconv.Atoi(v)
	if err != nil {
		c.configErrs = append(c.configErrs,
			fmt.Errorf("env %s: '%s' is not an integer", key, v))
		return fallback
	}

	return parsed
}

// envDuration interprets a bare number as seconds (the format the
// original env contract uses), falling back to Go duration syntax.
//
func (c *command) envDuration(key string, fallback time.Duration) time.Duration {
	v, found := os.LookupEnv(key)
	if !found {
		return fallback
	}

	if seconds, err := strconv.Atoi(v); err == nil {
		return time.Duration(seconds) * time.Second
	}

	parsed, err := time.ParseDuration(v)
	if err != nil {
		c.configErrs = append(c.configErrs,
			fmt.Errorf("env %s: '%s' is neither seconds nor a duration", key, v))
		return fallback
	}

	return parsed
}

func (c *command) envInt64Slice(key string, fallback []int64) []int64 {
	v, found := os.LookupEnv(key)
	if !found {
		return fallback
	}

	out := []int64{}
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		parsed, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			c.configErrs = append(c.configErrs,
				fmt.Errorf("env %s: '%s' is not a comma-separated "+
					"list of integers", key, v))
			return fallback
		}

		out = append(out, parsed)
	}

	return out
}

// configErr folds every recorded environment parse failure into a
// single error, so that bad configuration terminates the process
// before any component starts.
//
func (c *command) configErr() error {
	if len(c.configErrs) == 0 {
		return nil
	}

	msgs := make([]string, len(c.configErrs))
	for i, err := range c.configErrs {
		msgs[i] = err.Error()
	}

	return fmt.Errorf("configuration: %s", strings.Join(msgs, "; "))
}
