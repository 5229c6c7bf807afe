package collector

import (
	"context"
	"fmt"
)

// mempoolCollector maps `getmempoolinfo` to the mempool gauges.
//
type mempoolCollector struct {
	client  Client
	metrics *metrics
}

var _ CustomCollector = (*mempoolCollector)(nil)

func newMempoolCollector(client Client, metrics *metrics) *mempoolCollector {
	return &mempoolCollector{
		client:  client,
		metrics: metrics,
	}
}

func (c *mempoolCollector) Name() string {
	return "mempoolinfo"
}

func (c *mempoolCollector) Collect(ctx context.Context) error {
	info, err := c.client.GetMempoolInfo(ctx)
	if err != nil {
		return fmt.Errorf("get mempool info: %w", err)
	}

	c.metrics.mempoolSize.Set(float64(info.Size))
	c.metrics.mempoolBytes.Set(float64(info.Bytes))
	c.metrics.mempoolUsage.Set(float64(info.Usage))

	// older nodes don't report the unbroadcast set; leave the gauge
	// alone rather than zeroing it.
	if info.UnbroadcastCount != nil {
		c.metrics.mempoolUnbroadcast.Set(float64(*info.UnbroadcastCount))
	}

	return nil
}
