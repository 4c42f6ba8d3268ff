package collectors

import (
	"github.com/prometheus/client_golang/prometheus"
)

// LedgerHeightCollector reports the ledger height seen by the last successful poll.
type LedgerHeightCollector struct {
	source HeightSource
	height *prometheus.Desc
}

func NewLedgerHeightCollector(source HeightSource) *LedgerHeightCollector {
	return &LedgerHeightCollector{
		source: source,
		height: prometheus.NewDesc(
			prometheus.BuildFQName("gopay", "ledger", "height"),
			"Number of blocks in the ledger",
			nil,
			prometheus.Labels{"source": "ledger"},
		),
	}
}

func (c *LedgerHeightCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.height
}

func (c *LedgerHeightCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.height, prometheus.GaugeValue, float64(c.source.Height()))
}

func init() {
	RegisterCollectorFactory(func(sources Sources) (prometheus.Collector, error) {
		if sources.Ledger == nil {
			return nil, ErrSourceUnavailable
		}
		return NewLedgerHeightCollector(sources.Ledger), nil
	})
}
