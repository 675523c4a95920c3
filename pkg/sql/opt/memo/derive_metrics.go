// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package memo

import (
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// DeriveMetrics are the counters updated by property derivation passes.
type DeriveMetrics struct {
	Passes   prometheus.Counter
	Groups   prometheus.Counter
	Exprs    prometheus.Counter
	MemoHits prometheus.Counter
}

// NewDeriveMetrics creates the derivation counters and registers them with
// reg, if it is not nil.
func NewDeriveMetrics(reg prometheus.Registerer) (*DeriveMetrics, error) {
	m := &DeriveMetrics{
		Passes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "planprops",
			Subsystem: "derive",
			Name:      "passes_total",
			Help:      "The number of property derivation passes.",
		}),
		Groups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "planprops",
			Subsystem: "derive",
			Name:      "groups_total",
			Help:      "The number of groups whose property value was computed.",
		}),
		Exprs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "planprops",
			Subsystem: "derive",
			Name:      "exprs_total",
			Help:      "The number of member expressions whose property value was computed.",
		}),
		MemoHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "planprops",
			Subsystem: "derive",
			Name:      "memo_hits_total",
			Help:      "The number of times an already derived group was reached again.",
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.Passes, m.Groups, m.Exprs, m.MemoHits} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "registering derivation metrics")
		}
	}
	return m, nil
}

func (m *DeriveMetrics) record(s DeriveStats) {
	m.Passes.Inc()
	m.Groups.Add(float64(s.Groups))
	m.Exprs.Add(float64(s.Exprs))
	m.MemoHits.Add(float64(s.MemoHits))
}
