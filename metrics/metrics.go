// Copyright 2021 The httpcall Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package metrics records Prometheus metrics about call executions.
//
// Install a Collector on the handler group of a client:
//
//	c, err := metrics.New(prometheus.DefaultRegisterer, "myapp")
//	if err != nil {
//		return err
//	}
//	c.Install(client.Handlers)
package metrics

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gogama/httpcall"
	"github.com/gogama/httpcall/request"
	"github.com/gogama/httpcall/transient"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error_response"
	OutcomeFailure  = "failure"
	OutcomeCanceled = "canceled"
)

// A Collector observes call executions and records them as Prometheus
// metrics.
type Collector struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
}

// New creates a Collector and registers its metrics with reg under the
// given namespace.
func New(reg prometheus.Registerer, namespace string) (*Collector, error) {
	if reg == nil {
		return nil, errors.New("metrics: nil registerer")
	}

	c := &Collector{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "httpcall",
				Name:      "calls_total",
				Help:      "Total number of call executions by outcome.",
			},
			[]string{"method", "mode", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "httpcall",
				Name:      "call_duration_seconds",
				Help:      "Call execution duration in seconds.",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "outcome"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "httpcall",
				Name:      "call_failures_total",
				Help:      "Total number of failed call executions by failure category.",
			},
			[]string{"category"},
		),
	}

	for _, m := range []prometheus.Collector{c.calls, c.duration, c.failures} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Install adds the collector to the AfterExecutionEnd handler chain of
// g.
func (c *Collector) Install(g *httpcall.HandlerGroup) {
	g.PushBack(httpcall.AfterExecutionEnd, c)
}

// Handle records an ended execution. Events other than
// AfterExecutionEnd are ignored.
func (c *Collector) Handle(evt httpcall.Event, e *request.Execution) {
	if evt != httpcall.AfterExecutionEnd {
		return
	}

	method := methodOf(e)
	mode := "sync"
	if e.Async {
		mode = "async"
	}
	out := outcome(e)

	c.calls.WithLabelValues(method, mode, out).Inc()
	c.duration.WithLabelValues(method, out).Observe(e.Duration().Seconds())
	if e.Err != nil {
		c.failures.WithLabelValues(transient.Categorize(e.Err).String()).Inc()
	}
}

func methodOf(e *request.Execution) string {
	if e.Plan == nil || e.Plan.Method == "" {
		return http.MethodGet
	}
	return strings.ToUpper(e.Plan.Method)
}

func outcome(e *request.Execution) string {
	switch {
	case e.Err != nil && e.Canceled():
		return OutcomeCanceled
	case e.Err != nil:
		return OutcomeFailure
	case e.StatusCode() >= 200 && e.StatusCode() < 300:
		return OutcomeSuccess
	default:
		return OutcomeError
	}
}
