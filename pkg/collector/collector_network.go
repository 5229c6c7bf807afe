package collector

import (
	"context"
	"fmt"
)

// networkCollector maps `getnetworkinfo` to the connectivity and
// version gauges.
//
type networkCollector struct {
	client  Client
	metrics *metrics
}

var _ CustomCollector = (*networkCollector)(nil)

func newNetworkCollector(client Client, metrics *metrics) *networkCollector {
	return &networkCollector{
		client:  client,
		metrics: metrics,
	}
}

func (c *networkCollector) Name() string {
	return "networkinfo"
}

func (c *networkCollector) Collect(ctx context.Context) error {
	info, err := c.client.GetNetworkInfo(ctx)
	if err != nil {
		return fmt.Errorf("get network info: %w", err)
	}

	c.metrics.peers.Set(float64(info.Connections))
	c.metrics.serverVersion.Set(float64(info.Version))
	c.metrics.protocolVersion.Set(float64(info.ProtocolVersion))

	// per-direction counts only exist on v0.21+ nodes.
	if info.ConnectionsIn != nil {
		c.metrics.connections.WithLabelValues("in").Set(float64(*info.ConnectionsIn))
	}
	if info.ConnectionsOut != nil {
		c.metrics.connections.WithLabelValues("out").Set(float64(*info.ConnectionsOut))
	}

	if info.Warnings != "" {
		c.metrics.warnings.Inc()
	}

	return nil
}
