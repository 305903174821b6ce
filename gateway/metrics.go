// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.
package gateway

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks exit payouts handled by a gateway. A nil *Metrics records
// nothing.
type Metrics struct {
	submittedCount prometheus.Counter
	finalizedCount prometheus.Counter
	rejectedCount  prometheus.Counter
	duration       prometheus.Histogram
}

func NewMetrics(namespace string, registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		submittedCount: factory.NewCounter(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_exit_submitted_total", namespace),
			Help: "The total number of finalizeExit transactions sent",
		}),
		finalizedCount: factory.NewCounter(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_exit_finalized_total", namespace),
			Help: "The total number of confirmed exit payouts",
		}),
		rejectedCount: factory.NewCounter(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_exit_rejected_total", namespace),
			Help: "The total number of exit payouts rejected by the settlement layer",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    fmt.Sprintf("%s_exit_finalization_seconds", namespace),
			Help:    "Time from request to outcome of exit payouts",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
}

func (m *Metrics) incSubmitted() {
	if m != nil {
		m.submittedCount.Inc()
	}
}

func (m *Metrics) observe(start time.Time, err error) {
	if m == nil {
		return
	}
	m.duration.Observe(time.Since(start).Seconds())
	if err == nil {
		m.finalizedCount.Inc()
	} else if _, ok := IsExitFinalization(err); ok {
		m.rejectedCount.Inc()
	}
}
