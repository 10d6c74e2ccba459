package metrics

import (
	"github.com/sony/gobreaker/v2"

	"github.com/kirillkom/evidence-organizer/internal/infrastructure/resilience"
)

// ObserveCommand counts dispatched workspace commands as applied or rejected.
func (m *HTTPServerMetrics) ObserveCommand(command string, applied bool) {
	outcome := "rejected"
	if applied {
		outcome = "applied"
	}
	m.commandsTotal.WithLabelValues(m.service, command, outcome).Inc()
}

func (m *HTTPServerMetrics) RecordAnalysisRequest(err error) {
	m.analysisRequested.WithLabelValues(m.service, statusOf(err)).Inc()
}

func (m *HTTPServerMetrics) RecordAnalysisCompletion(err error) {
	m.analysisCompletions.WithLabelValues(m.service, statusOf(err)).Inc()
}

func (m *HTTPServerMetrics) RecordExport(err error) {
	m.exportsTotal.WithLabelValues(m.service, statusOf(err)).Inc()
}

// ResilienceHooks feeds retry counts and breaker transitions into the registry.
func (m *HTTPServerMetrics) ResilienceHooks() resilience.Hooks {
	return resilience.Hooks{
		OnRetry: func(operation string, _ int) {
			m.analysisPublishRetry.WithLabelValues(m.service, operation).Inc()
		},
		OnStateChange: func(operation string, to gobreaker.State) {
			m.breakerState.WithLabelValues(m.service, operation).Set(breakerStateValue(to))
		},
	}
}

func breakerStateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
