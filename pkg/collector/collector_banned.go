package collector

import (
	"context"
	"fmt"
)

// bannedCollector maps `listbanned` to the per-ban labeled gauges.
//
type bannedCollector struct {
	client  Client
	metrics *metrics
}

var _ CustomCollector = (*bannedCollector)(nil)

func newBannedCollector(client Client, metrics *metrics) *bannedCollector {
	return &bannedCollector{
		client:  client,
		metrics: metrics,
	}
}

func (c *bannedCollector) Name() string {
	return "banned"
}

func (c *bannedCollector) Collect(ctx context.Context) error {
	banned, err := c.client.ListBanned(ctx)
	if err != nil {
		return fmt.Errorf("list banned: %w", err)
	}

	// bans expire or get lifted; reset so stale entries disappear.
	c.metrics.banCreated.Reset()
	c.metrics.bannedUntil.Reset()

	for _, ban := range banned {
		reason := ban.BanReason
		if reason == "" {
			reason = "manually added"
		}

		c.metrics.banCreated.
			WithLabelValues(ban.Address, reason).
			Set(float64(ban.BanCreated))
		c.metrics.bannedUntil.
			WithLabelValues(ban.Address, reason).
			Set(float64(ban.BannedUntil))
	}

	return nil
}
