// Package metrics holds the Prometheus instruments for tool invocations.
package metrics

import (
	"strconv"

	"github.com/bturcanu/activecampaign-mcp/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ToolMetrics counts and times tool calls.
type ToolMetrics struct {
	// CallsTotal counts tool calls by tool and status (ok|error).
	CallsTotal *prometheus.CounterVec
	// CallDuration tracks end-to-end tool latency, broker lookup included.
	CallDuration *prometheus.HistogramVec
	// UpstreamErrors counts failed calls by tool and upstream status code
	// ("none" when no response was received).
	UpstreamErrors *prometheus.CounterVec
}

// NewToolMetrics registers the instruments with the default registry.
func NewToolMetrics() *ToolMetrics {
	return NewToolMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewToolMetricsWithRegistry registers the instruments with reg, for tests.
func NewToolMetricsWithRegistry(reg prometheus.Registerer) *ToolMetrics {
	factory := promauto.With(reg)
	return &ToolMetrics{
		CallsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "activecampaign_mcp_tool_calls_total",
			Help: "Total number of tool calls",
		}, []string{"tool", "status"}),

		CallDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "activecampaign_mcp_tool_call_duration_seconds",
			Help:    "Duration of tool calls",
			Buckets: prometheus.DefBuckets,
		}, []string{"tool"}),

		UpstreamErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "activecampaign_mcp_upstream_errors_total",
			Help: "Total number of failed tool calls by upstream status code",
		}, []string{"tool", "status_code"}),
	}
}

// Observe records one finished invocation. Safe on a nil receiver.
func (m *ToolMetrics) Observe(inv types.Invocation) {
	if m == nil {
		return
	}
	m.CallsTotal.WithLabelValues(inv.Tool, string(inv.Status)).Inc()
	m.CallDuration.WithLabelValues(inv.Tool).Observe(float64(inv.DurationMS) / 1000)
	if inv.Failed() {
		code := "none"
		if inv.StatusCode != 0 {
			code = strconv.Itoa(inv.StatusCode)
		}
		m.UpstreamErrors.WithLabelValues(inv.Tool, code).Inc()
	}
}
