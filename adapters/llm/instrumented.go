package llm

import (
	"context"
	"time"

	"github.com/khoahotran/resume-builder/internal/application/service"
	"github.com/khoahotran/resume-builder/pkg/metrics"
)

type instrumentedGateway struct {
	next      service.Gateway
	collector *metrics.Collector
}

// WithMetrics records call count and latency per AI operation.
func WithMetrics(next service.Gateway, c *metrics.Collector) service.Gateway {
	if c == nil {
		return next
	}
	return &instrumentedGateway{next: next, collector: c}
}

func (g *instrumentedGateway) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	out, err := g.next.Generate(ctx, prompt)

	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeFailure
	}
	g.collector.RecordAIRequest(service.OperationFrom(ctx), outcome, time.Since(start))
	return out, err
}

func (g *instrumentedGateway) Model() string {
	return g.next.Model()
}
