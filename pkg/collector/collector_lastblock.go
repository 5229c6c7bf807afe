package collector

import (
	"context"
	"fmt"
)

// blockStatsFields is the subset of `getblockstats` stats requested,
// saving the node from computing the rest.
//
var blockStatsFields = []string{
	"height",
	"total_size",
	"total_weight",
	"totalfee",
	"txs",
	"ins",
	"outs",
	"total_out",
}

// lastBlockCollector resolves the tip via `getblockchaininfo` and maps
// its `getblockstats` to the latest-block gauges.
//
type lastBlockCollector struct {
	client  Client
	metrics *metrics
}

var _ CustomCollector = (*lastBlockCollector)(nil)

func newLastBlockCollector(client Client, metrics *metrics) *lastBlockCollector {
	return &lastBlockCollector{
		client:  client,
		metrics: metrics,
	}
}

func (c *lastBlockCollector) Name() string {
	return "blockstats"
}

func (c *lastBlockCollector) Collect(ctx context.Context) error {
	info, err := c.client.GetBlockchainInfo(ctx)
	if err != nil {
		return fmt.Errorf("get blockchain info: %w", err)
	}

	stats, err := c.client.GetBlockStats(ctx, info.BestBlockHash, blockStatsFields)
	if err != nil {
		return fmt.Errorf("get block stats '%s': %w", info.BestBlockHash, err)
	}

	c.metrics.latestBlockHeight.Set(float64(stats.Height))
	c.metrics.latestBlockSize.Set(float64(stats.TotalSize))
	c.metrics.latestBlockWeight.Set(float64(stats.TotalWeight))
	c.metrics.latestBlockTxs.Set(float64(stats.Txs))
	c.metrics.latestBlockInputs.Set(float64(stats.Ins))
	c.metrics.latestBlockOutputs.Set(float64(stats.Outs))

	// these two are already denominated in the smallest unit.
	c.metrics.latestBlockValue.Set(float64(stats.TotalOut))
	c.metrics.latestBlockFee.Set(float64(stats.TotalFee))

	return nil
}
