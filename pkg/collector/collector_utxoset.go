package collector

import (
	"context"
	"fmt"
)

// utxoSetCollector maps `gettxoutsetinfo` to the utxo-set gauges.
//
type utxoSetCollector struct {
	client  Client
	metrics *metrics
}

var _ CustomCollector = (*utxoSetCollector)(nil)

func newUTXOSetCollector(client Client, metrics *metrics) *utxoSetCollector {
	return &utxoSetCollector{
		client:  client,
		metrics: metrics,
	}
}

func (c *utxoSetCollector) Name() string {
	return "txoutsetinfo"
}

func (c *utxoSetCollector) Collect(ctx context.Context) error {
	info, err := c.client.GetTxOutSetInfo(ctx)
	if err != nil {
		return fmt.Errorf("get txout set info: %w", err)
	}

	c.metrics.utxoTransactions.Set(float64(info.Transactions))
	c.metrics.utxoTxOuts.Set(float64(info.TxOuts))
	c.metrics.utxoDiskSize.Set(float64(info.DiskSize))
	c.metrics.utxoTotalAmount.Set(coinsToSats(info.TotalAmount))

	// nodes without -coinstatsindex don't break the set down; skip
	// rather than zero.
	if info.TotalUnspendableAmount != nil {
		c.metrics.utxoUnspendable.Set(coinsToSats(*info.TotalUnspendableAmount))
	}

	return nil
}
