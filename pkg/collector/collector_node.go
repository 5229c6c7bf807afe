package collector

import (
	"context"
	"fmt"
)

// uptimeCollector maps `uptime` to the node uptime gauge.
//
type uptimeCollector struct {
	client  Client
	metrics *metrics
}

var _ CustomCollector = (*uptimeCollector)(nil)

func newUptimeCollector(client Client, metrics *metrics) *uptimeCollector {
	return &uptimeCollector{
		client:  client,
		metrics: metrics,
	}
}

func (c *uptimeCollector) Name() string {
	return "uptime"
}

func (c *uptimeCollector) Collect(ctx context.Context) error {
	uptime, err := c.client.Uptime(ctx)
	if err != nil {
		return fmt.Errorf("uptime: %w", err)
	}

	c.metrics.uptime.Set(float64(uptime))

	return nil
}

// memInfoCollector maps `getmemoryinfo` to the allocator gauges.
//
type memInfoCollector struct {
	client  Client
	metrics *metrics
}

var _ CustomCollector = (*memInfoCollector)(nil)

func newMemInfoCollector(client Client, metrics *metrics) *memInfoCollector {
	return &memInfoCollector{
		client:  client,
		metrics: metrics,
	}
}

func (c *memInfoCollector) Name() string {
	return "meminfo"
}

func (c *memInfoCollector) Collect(ctx context.Context) error {
	info, err := c.client.GetMemoryInfo(ctx)
	if err != nil {
		return fmt.Errorf("get memory info: %w", err)
	}

	locked := info.Locked

	c.metrics.memUsed.Set(float64(locked.Used))
	c.metrics.memFree.Set(float64(locked.Free))
	c.metrics.memTotal.Set(float64(locked.Total))
	c.metrics.memLocked.Set(float64(locked.Locked))
	c.metrics.memChunksUsed.Set(float64(locked.ChunksUsed))
	c.metrics.memChunksFree.Set(float64(locked.ChunksFree))

	return nil
}

// rpcInfoCollector maps `getrpcinfo` to the in-flight rpc gauge.
//
type rpcInfoCollector struct {
	client  Client
	metrics *metrics
}

var _ CustomCollector = (*rpcInfoCollector)(nil)

func newRPCInfoCollector(client Client, metrics *metrics) *rpcInfoCollector {
	return &rpcInfoCollector{
		client:  client,
		metrics: metrics,
	}
}

func (c *rpcInfoCollector) Name() string {
	return "rpcinfo"
}

func (c *rpcInfoCollector) Collect(ctx context.Context) error {
	info, err := c.client.GetRPCInfo(ctx)
	if err != nil {
		return fmt.Errorf("get rpc info: %w", err)
	}

	// don't count the `getrpcinfo` call itself.
	active := len(info.ActiveCommands) - 1
	if active < 0 {
		active = 0
	}

	c.metrics.rpcActive.Set(float64(active))

	return nil
}
