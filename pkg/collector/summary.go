package collector

import "github.com/beorn7/perks/quantile"

// defaultQuantiles is the set of quantiles (quantile -> allowed error)
// computed for any data stream summarized here, unless overridden with
// the `WithQuantiles` option.
//
var defaultQuantiles = map[float64]float64{
	0.05: 0.01,
	0.25: 0.01,
	0.50: 0.01,
	0.75: 0.01,
	0.90: 0.01,
	0.99: 0.01,
}

// Summary accumulates observations of a single collection cycle (peer
// ping times, connection ages) and reduces them to a fixed set of
// quantiles.
//
type Summary struct {
	quantiles map[float64]float64

	stream   *quantile.Stream
	computed bool
}

type SummaryOption func(s *Summary)

func WithQuantiles(v map[float64]float64) SummaryOption {
	return func(s *Summary) {
		s.quantiles = v
	}
}

func NewSummary(opts ...SummaryOption) *Summary {
	summary := &Summary{
		quantiles: cloneMap(defaultQuantiles),
	}

	for _, opt := range opts {
		opt(summary)
	}

	summary.stream = quantile.NewTargeted(summary.quantiles)

	return summary
}

func (s *Summary) Insert(v float64) {
	s.stream.Insert(v)
}

func (s *Summary) Quantiles() map[float64]float64 {
	s.compute()
	return s.quantiles
}

func (s *Summary) compute() {
	if s.computed {
		return
	}
	s.computed = true

	for phi := range s.quantiles {
		s.quantiles[phi] = s.stream.Query(phi)
	}
}

func cloneMap(o map[float64]float64) map[float64]float64 {
	m := make(map[float64]float64, len(o))
	for k, v := range o {
		m[k] = v
	}

	return m
}
