package collector

import (
	"context"
	"fmt"
)

// chainInfoCollector maps `getblockchaininfo` to the chain-state
// gauges.
//
type chainInfoCollector struct {
	client  Client
	metrics *metrics
}

var _ CustomCollector = (*chainInfoCollector)(nil)

func newChainInfoCollector(client Client, metrics *metrics) *chainInfoCollector {
	return &chainInfoCollector{
		client:  client,
		metrics: metrics,
	}
}

func (c *chainInfoCollector) Name() string {
	return "blockchaininfo"
}

func (c *chainInfoCollector) Collect(ctx context.Context) error {
	info, err := c.client.GetBlockchainInfo(ctx)
	if err != nil {
		return fmt.Errorf("get blockchain info: %w", err)
	}

	c.metrics.blocks.Set(float64(info.Blocks))
	c.metrics.difficulty.Set(info.Difficulty)
	c.metrics.sizeOnDisk.Set(float64(info.SizeOnDisk))
	c.metrics.verificationProgress.Set(info.VerificationProgress)

	return nil
}

// chainTipsCollector maps `getchaintips` to the branch counter.
//
type chainTipsCollector struct {
	client  Client
	metrics *metrics
}

var _ CustomCollector = (*chainTipsCollector)(nil)

func newChainTipsCollector(client Client, metrics *metrics) *chainTipsCollector {
	return &chainTipsCollector{
		client:  client,
		metrics: metrics,
	}
}

func (c *chainTipsCollector) Name() string {
	return "chaintips"
}

func (c *chainTipsCollector) Collect(ctx context.Context) error {
	tips, err := c.client.GetChainTips(ctx)
	if err != nil {
		return fmt.Errorf("get chain tips: %w", err)
	}

	c.metrics.chainTips.Set(float64(len(tips)))

	return nil
}

// txStatsCollector maps `getchaintxstats` to the all-time transaction
// counter.
//
type txStatsCollector struct {
	client  Client
	metrics *metrics
}

var _ CustomCollector = (*txStatsCollector)(nil)

func newTxStatsCollector(client Client, metrics *metrics) *txStatsCollector {
	return &txStatsCollector{
		client:  client,
		metrics: metrics,
	}
}

func (c *txStatsCollector) Name() string {
	return "txstats"
}

func (c *txStatsCollector) Collect(ctx context.Context) error {
	stats, err := c.client.GetChainTxStats(ctx)
	if err != nil {
		return fmt.Errorf("get chain tx stats: %w", err)
	}

	c.metrics.txCount.Set(float64(stats.TxCount))

	return nil
}
