// FILE: lixenwraith/confmgr/metrics.go
package confmgr

import (
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Read and write outcomes recorded in the result label
const (
	resultOK       = "ok"
	resultNotFound = "not_found"
	resultError    = "error"
)

// metrics holds the optional Prometheus counters of a Manager.
// A nil *metrics records nothing.
type metrics struct {
	reads   *prometheus.CounterVec
	writes  *prometheus.CounterVec
	decoded *prometheus.CounterVec
}

// newMetrics creates the counters and registers them with reg. Counters
// already registered by another Manager on the same registry are shared.
func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	if reg == nil {
		return nil, nil
	}

	reads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "confmgr",
		Subsystem: "location",
		Name:      "reads_total",
		Help:      "Configuration location reads by scheme, format and result",
	}, []string{"scheme", "format", "result"})

	writes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "confmgr",
		Subsystem: "location",
		Name:      "writes_total",
		Help:      "Configuration location writes by scheme, format and result",
	}, []string{"scheme", "format", "result"})

	decoded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "confmgr",
		Name:      "entries_decoded_total",
		Help:      "Configuration entries decoded by format",
	}, []string{"format"})

	m := &metrics{}
	var err error
	if m.reads, err = registerCounterVec(reg, reads); err != nil {
		return nil, err
	}
	if m.writes, err = registerCounterVec(reg, writes); err != nil {
		return nil, err
	}
	if m.decoded, err = registerCounterVec(reg, decoded); err != nil {
		return nil, err
	}
	return m, nil
}

func registerCounterVec(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}

func codecName(c Codec) string {
	if c == nil {
		return ""
	}
	return c.Name()
}

func (m *metrics) read(loc Location, c Codec, result string) {
	if m == nil {
		return
	}
	m.reads.WithLabelValues(strings.ToLower(loc.Scheme()), codecName(c), result).Inc()
}

func (m *metrics) write(loc Location, c Codec, result string) {
	if m == nil {
		return
	}
	m.writes.WithLabelValues(strings.ToLower(loc.Scheme()), codecName(c), result).Inc()
}

func (m *metrics) entries(c Codec, n int) {
	if m == nil {
		return
	}
	m.decoded.WithLabelValues(c.Name()).Add(float64(n))
}
