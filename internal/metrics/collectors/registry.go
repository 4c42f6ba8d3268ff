package collectors

import (
	"database/sql"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// ErrSourceUnavailable is returned by a factory whose data source is not configured.
// Such collectors are skipped.
var ErrSourceUnavailable = errors.New("collector source unavailable")

// HeightSource reports the number of blocks in the ledger.
type HeightSource interface {
	Height() int
}

// Sources are the data sources available to collectors.
type Sources struct {
	DB     *sql.DB
	Ledger HeightSource
}

// CollectorFactory is a function type that creates a collector from the available sources
type CollectorFactory func(sources Sources) (prometheus.Collector, error)

type Registry struct {
	factories []CollectorFactory
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make([]CollectorFactory, 0),
	}
}

func (r *Registry) Register(factory CollectorFactory) {
	r.factories = append(r.factories, factory)
}

// CreateCollectors instantiates all collectors whose sources are available
func (r *Registry) CreateCollectors(sources Sources) ([]prometheus.Collector, error) {
	collectors := make([]prometheus.Collector, 0, len(r.factories))
	for _, factory := range r.factories {
		collector, err := factory(sources)
		if errors.Is(err, ErrSourceUnavailable) {
			continue
		}
		if err != nil {
			return nil, err
		}
		collectors = append(collectors, collector)
	}
	return collectors, nil
}

var DefaultRegistry = NewRegistry()

func RegisterCollectorFactory(factory CollectorFactory) {
	DefaultRegistry.Register(factory)
}
