// Package prom provides a Prometheus-backed observer for pick cells and
// mediators.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/NetPo4ki/go-pick/pick"
)

const (
	outcomeValue   = "value"
	outcomeFailure = "failure"
)

// Metrics implements pick.Observer on top of Prometheus collectors.
type Metrics struct {
	readersParked  prometheus.Counter
	readersResumed *prometheus.CounterVec
	cellsResolved  *prometheus.CounterVec
	picksDecided   prometheus.Counter
	nacksSent      prometheus.Counter
}

var _ pick.Observer = (*Metrics)(nil)

// New builds the collectors and registers them with reg. A nil reg skips
// registration, which is handy for tests that only read the counters.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		readersParked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pick",
			Name:      "readers_parked_total",
			Help:      "Continuations parked on a cell wait queue.",
		}),
		readersResumed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pick",
			Name:      "readers_resumed_total",
			Help:      "Continuations resolved and handed to a scheduler.",
		}, []string{"outcome"}),
		cellsResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pick",
			Name:      "cells_resolved_total",
			Help:      "Cells that reached a terminal state.",
		}, []string{"outcome"}),
		picksDecided: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pick",
			Name:      "picks_decided_total",
			Help:      "Selective-synchronization attempts that chose a winner.",
		}),
		nacksSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pick",
			Name:      "nacks_sent_total",
			Help:      "Losing alternatives retracted after a pick was decided.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.readersParked, m.readersResumed, m.cellsResolved, m.picksDecided, m.nacksSent)
	}
	return m
}

func outcome(failed bool) string {
	if failed {
		return outcomeFailure
	}
	return outcomeValue
}

// ReaderParked counts a continuation entering a wait queue.
func (m *Metrics) ReaderParked() { m.readersParked.Inc() }

// ReaderResumed counts a continuation resolved with a value or failure.
func (m *Metrics) ReaderResumed(failed bool) {
	m.readersResumed.WithLabelValues(outcome(failed)).Inc()
}

// CellResolved counts a cell reaching a terminal state.
func (m *Metrics) CellResolved(failed bool) {
	m.cellsResolved.WithLabelValues(outcome(failed)).Inc()
}

// PickDecided counts a decided selective-synchronization attempt.
func (m *Metrics) PickDecided(_ int) { m.picksDecided.Inc() }

// NackSent counts a retracted losing alternative.
func (m *Metrics) NackSent(_ int) { m.nacksSent.Inc() }
