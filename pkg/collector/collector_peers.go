package collector

import (
	"context"
	"fmt"
	"net"
	"time"
)

// peersCollector maps `getpeerinfo` to per-peer derived metrics: ping
// time and connection age distributions, plus an optional per-country
// breakdown when a country mapper is configured.
//
type peersCollector struct {
	client        Client
	metrics       *metrics
	countryMapper CountryMapper
}

var _ CustomCollector = (*peersCollector)(nil)

func newPeersCollector(client Client, metrics *metrics, countryMapper CountryMapper) *peersCollector {
	return &peersCollector{
		client:        client,
		metrics:       metrics,
		countryMapper: countryMapper,
	}
}

func (c *peersCollector) Name() string {
	return "peerinfo"
}

func (c *peersCollector) Collect(ctx context.Context) error {
	peers, err := c.client.GetPeerInfo(ctx)
	if err != nil {
		return fmt.Errorf("get peer info: %w", err)
	}

	now := time.Now()

	pingSummary := NewSummary()
	ageSummary := NewSummary()
	countries := map[string]float64{}

	for _, peer := range peers {
		if peer.PingTime != nil {
			pingSummary.Insert(*peer.PingTime)
		}

		if peer.ConnTime > 0 {
			ageSummary.Insert(now.
				Sub(time.Unix(peer.ConnTime, 0)).
				Seconds())
		}

		if country := c.country(peer.Addr); country != "" {
			countries[country]++
		}
	}

	setQuantiles(c.metrics.peersPing, pingSummary)
	setQuantiles(c.metrics.peersAge, ageSummary)

	// countries come and go as peers churn; reset so that a country
	// whose last peer disconnected doesn't stick around.
	c.metrics.peersCountry.Reset()
	for country, count := range countries {
		c.metrics.peersCountry.WithLabelValues(country).Set(count)
	}

	return nil
}

func (c *peersCollector) country(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return ""
	}

	country, err := c.countryMapper(ip)
	if err != nil {
		return ""
	}

	return country
}
