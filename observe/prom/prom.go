// Package prom provides a Prometheus-backed borrow.Observer: counters for
// cells, guards and drains, and histograms for guard hold time and drain
// wait time.
package prom

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/NetPo4ki/go-borrow/borrow"
)

// Metrics implements borrow.Observer on Prometheus collectors. One Metrics
// may be shared by any number of cells.
type Metrics struct {
	cellsCreated prometheus.Counter
	drains       prometheus.Counter
	drainWait    prometheus.Histogram
	guardsActive *prometheus.GaugeVec
	guardsTotal  *prometheus.CounterVec
	guardHold    *prometheus.HistogramVec
}

var _ borrow.Observer = (*Metrics)(nil)

// New builds the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cellsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "borrow",
			Name:      "cells_created_total",
			Help:      "Cells constructed.",
		}),
		drains: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "borrow",
			Name:      "drains_total",
			Help:      "Completed cell drains.",
		}),
		drainWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "borrow",
			Name:      "drain_wait_seconds",
			Help:      "Time drains spent waiting for outstanding guards.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 10, 8),
		}),
		guardsActive: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "borrow",
			Name:      "guards_active",
			Help:      "Guards currently holding a ticket.",
		}, []string{"kind"}),
		guardsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "borrow",
			Name:      "guards_total",
			Help:      "Guards issued.",
		}, []string{"kind"}),
		guardHold: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "borrow",
			Name:      "guard_hold_seconds",
			Help:      "How long guards held their tickets.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 10, 8),
		}, []string{"kind"}),
	}
	reg.MustRegister(m.cellsCreated, m.drains, m.drainWait,
		m.guardsActive, m.guardsTotal, m.guardHold)
	return m
}

// CellCreated counts a constructed cell.
func (m *Metrics) CellCreated() { m.cellsCreated.Inc() }

// BorrowAcquired counts an issued guard and marks it active.
func (m *Metrics) BorrowAcquired(kind borrow.BorrowKind) {
	k := kind.String()
	m.guardsTotal.WithLabelValues(k).Inc()
	m.guardsActive.WithLabelValues(k).Inc()
}

// BorrowReleased retires an active guard and records its hold time.
func (m *Metrics) BorrowReleased(kind borrow.BorrowKind, held time.Duration) {
	k := kind.String()
	m.guardsActive.WithLabelValues(k).Dec()
	m.guardHold.WithLabelValues(k).Observe(held.Seconds())
}

// DrainStarted is a no-op; the wait is recorded on DrainFinished.
func (m *Metrics) DrainStarted() {}

// DrainFinished counts a completed drain and records how long it waited.
func (m *Metrics) DrainFinished(wait time.Duration) {
	m.drains.Inc()
	m.drainWait.Observe(wait.Seconds())
}
