package collector

import (
	"context"
	"fmt"
)

// netStatsCollector maps `getnettotals` to the traffic totals.
//
type netStatsCollector struct {
	client  Client
	metrics *metrics
}

var _ CustomCollector = (*netStatsCollector)(nil)

func newNetStatsCollector(client Client, metrics *metrics) *netStatsCollector {
	return &netStatsCollector{
		client:  client,
		metrics: metrics,
	}
}

func (c *netStatsCollector) Name() string {
	return "nettotals"
}

func (c *netStatsCollector) Collect(ctx context.Context) error {
	totals, err := c.client.GetNetTotals(ctx)
	if err != nil {
		return fmt.Errorf("get net totals: %w", err)
	}

	c.metrics.totalBytesRecv.Set(float64(totals.TotalBytesRecv))
	c.metrics.totalBytesSent.Set(float64(totals.TotalBytesSent))

	return nil
}
