// Package observability holds the Prometheus instrumentation for the
// graft serve surface.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the collectors the HTTP adapter records into.
type Metrics struct {
	// Commands counts processed commands by command name and outcome
	// ("ok" or "error").
	Commands *prometheus.CounterVec
	// RulesDefined tracks the size of the rule table.
	RulesDefined prometheus.Gauge
	// ShapingActive is 1 while a term is being shaped, 0 while idle.
	ShapingActive prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "graft_commands_total",
				Help: "Total number of commands processed",
			},
			[]string{"command", "status"},
		),
		RulesDefined: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "graft_rules_defined",
			Help: "Number of rules currently defined",
		}),
		ShapingActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "graft_shaping_active",
			Help: "Whether a term is currently being shaped",
		}),
	}
	reg.MustRegister(m.Commands, m.RulesDefined, m.ShapingActive)
	return m
}

// Observe records one command outcome.
func (m *Metrics) Observe(command string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.Commands.WithLabelValues(command, status).Inc()
}
