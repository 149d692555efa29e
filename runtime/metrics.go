// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "runtime"

type metrics struct {
	calls    prometheus.Counter
	failed   prometheus.Counter
	aborted  prometheus.Counter
	units    prometheus.Counter
	deployed prometheus.Counter
	latency  prometheus.Histogram
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		calls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls",
			Help:      "number of contract calls",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failed_calls",
			Help:      "number of calls that returned an error code",
		}),
		aborted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aborted_calls",
			Help:      "number of calls aborted by the host",
		}),
		units: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "units_consumed",
			Help:      "units consumed by contract calls",
		}),
		deployed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deployed_accounts",
			Help:      "number of deployed contract accounts",
		}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "call_latency",
			Help:      "call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.calls),
		r.Register(m.failed),
		r.Register(m.aborted),
		r.Register(m.units),
		r.Register(m.deployed),
		r.Register(m.latency),
	)
	return m, errs.Err
}
