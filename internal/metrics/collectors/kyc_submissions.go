package collectors

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
)

const KYCSubmissionCountQuery = `SELECT COUNT(*) FROM gopay.kyc_submissions`

// KYCSubmissionCountCollector reports the number of KYC submissions stored in PostgreSQL.
type KYCSubmissionCountCollector struct {
	db    *sql.DB
	count *prometheus.Desc
}

func NewKYCSubmissionCountCollector(db *sql.DB) *KYCSubmissionCountCollector {
	return &KYCSubmissionCountCollector{
		db: db,
		count: prometheus.NewDesc(
			prometheus.BuildFQName("gopay", "kyc", "submissions_total"),
			"Total KYC submission count",
			nil,
			prometheus.Labels{"source": "postgres"},
		),
	}
}

func (c *KYCSubmissionCountCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.count
}

func (c *KYCSubmissionCountCollector) Collect(ch chan<- prometheus.Metric) {
	var count int64
	err := c.db.QueryRow(KYCSubmissionCountQuery).Scan(&count)
	if err != nil {
		ch <- prometheus.NewInvalidMetric(c.count, err)
		return
	}

	ch <- prometheus.MustNewConstMetric(c.count, prometheus.CounterValue, float64(count))
}

func init() {
	RegisterCollectorFactory(func(sources Sources) (prometheus.Collector, error) {
		if sources.DB == nil {
			return nil, ErrSourceUnavailable
		}
		return NewKYCSubmissionCountCollector(sources.DB), nil
	})
}
