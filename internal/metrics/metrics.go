// Package metrics exposes Prometheus instruments for the RPC layer and the
// expense engine.
package metrics

import (
	"context"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	rpcRequests     *prometheus.CounterVec
	rpcDuration     *prometheus.HistogramVec
	splitRejections *prometheus.CounterVec
	unbalanced      prometheus.Counter
	settlements     prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "splitsheets",
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "splitsheets",
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		splitRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "splitsheets",
			Name:      "split_rejections_total",
			Help:      "Splits rejected by the validator, by split mode.",
		}, []string{"mode"}),
		unbalanced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "splitsheets",
			Name:      "unbalanced_ledgers_total",
			Help:      "Balance computations whose credits and debits did not cancel out.",
		}),
		settlements: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "splitsheets",
			Name:      "settlement_transfers",
			Help:      "Number of transfers suggested per balance computation.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		}),
	}
	reg.MustRegister(m.rpcRequests, m.rpcDuration, m.splitRejections, m.unbalanced, m.settlements)
	return m
}

// Interceptor records the count and latency of every unary call.
func (m *Metrics) Interceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if m == nil {
				return next(ctx, req)
			}
			start := time.Now()
			resp, err := next(ctx, req)

			procedure := req.Spec().Procedure
			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			m.rpcRequests.WithLabelValues(procedure, code).Inc()
			m.rpcDuration.WithLabelValues(procedure).Observe(time.Since(start).Seconds())
			return resp, err
		}
	}
}

// SplitRejected counts a split refused by the validator, by mode.
func (m *Metrics) SplitRejected(mode string) {
	if m != nil {
		m.splitRejections.WithLabelValues(mode).Inc()
	}
}

// LedgerUnbalanced counts a sheet whose balances did not sum to zero.
func (m *Metrics) LedgerUnbalanced() {
	if m != nil {
		m.unbalanced.Inc()
	}
}

// SettlementsSuggested records how many transfers would settle a sheet.
func (m *Metrics) SettlementsSuggested(n int) {
	if m != nil {
		m.settlements.Observe(float64(n))
	}
}
