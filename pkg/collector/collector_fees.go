package collector

import (
	"context"
	"fmt"
	"strconv"
)

// smartFeeCollector maps `estimatesmartfee` to a fee-rate gauge per
// confirmation target.
//
type smartFeeCollector struct {
	client  Client
	metrics *metrics
	targets []int64
}

var _ CustomCollector = (*smartFeeCollector)(nil)

func newSmartFeeCollector(client Client, metrics *metrics, targets []int64) *smartFeeCollector {
	return &smartFeeCollector{
		client:  client,
		metrics: metrics,
		targets: targets,
	}
}

func (c *smartFeeCollector) Name() string {
	return "smartfee"
}

func (c *smartFeeCollector) Collect(ctx context.Context) error {
	for _, target := range c.targets {
		res, err := c.client.EstimateSmartFee(ctx, target)
		if err != nil {
			return fmt.Errorf("estimate smart fee %d: %w", target, err)
		}

		// no estimate yet (e.g. a node that just started); keep the
		// last value instead of publishing a bogus zero.
		if res.FeeRate == nil {
			continue
		}

		c.metrics.smartFee.
			WithLabelValues(strconv.FormatInt(target, 10)).
			Set(coinsToSats(*res.FeeRate))
	}

	return nil
}

// hashRateCollector maps `getnetworkhashps` to a hash-rate gauge per
// trailing block window.
//
type hashRateCollector struct {
	client  Client
	metrics *metrics
	windows []int64
}

var _ CustomCollector = (*hashRateCollector)(nil)

func newHashRateCollector(client Client, metrics *metrics, windows []int64) *hashRateCollector {
	return &hashRateCollector{
		client:  client,
		metrics: metrics,
		windows: windows,
	}
}

func (c *hashRateCollector) Name() string {
	return "hashps"
}

func (c *hashRateCollector) Collect(ctx context.Context) error {
	for _, window := range c.windows {
		hps, err := c.client.GetNetworkHashPS(ctx, window)
		if err != nil {
			return fmt.Errorf("get network hashps %d: %w", window, err)
		}

		c.metrics.hashPS.
			WithLabelValues(strconv.FormatInt(window, 10)).
			Set(hps)
	}

	return nil
}
