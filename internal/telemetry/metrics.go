// Package telemetry exposes prometheus instrumentation for the invoicing
// engine.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
)

// EngineMetrics counts the interesting events of the invoicing path.
// A nil receiver is a no-op so pure unit tests can skip registration.
type EngineMetrics struct {
	invoicesGenerated   prometheus.Counter
	allocationConflicts prometheus.Counter
	invoicesRecomputed  prometheus.Counter
}

func NewEngineMetrics(reg *prometheus.Registry) *EngineMetrics {
	m := &EngineMetrics{
		invoicesGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "resortops_invoices_generated_total",
			Help: "Invoices successfully generated.",
		}),
		allocationConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "resortops_invoice_number_conflicts_total",
			Help: "Invoice number allocation collisions that triggered a retry.",
		}),
		invoicesRecomputed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "resortops_invoices_recomputed_total",
			Help: "Draft invoices recomputed.",
		}),
	}
	reg.MustRegister(m.invoicesGenerated, m.allocationConflicts, m.invoicesRecomputed)
	return m
}

func (m *EngineMetrics) IncInvoiceGenerated() {
	if m == nil {
		return
	}
	m.invoicesGenerated.Inc()
}

func (m *EngineMetrics) IncAllocationConflict() {
	if m == nil {
		return
	}
	m.allocationConflicts.Inc()
}

func (m *EngineMetrics) IncInvoiceRecomputed() {
	if m == nil {
		return
	}
	m.invoicesRecomputed.Inc()
}

// NewRegistry builds the process-wide prometheus registry with the
// standard go and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

var Module = fx.Module("telemetry",
	fx.Provide(NewRegistry),
	fx.Provide(NewEngineMetrics),
)
