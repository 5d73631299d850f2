package monitor

import (
	"context"
	"time"

	"github.com/exepirit/pylontech-go/internal/log"
	"github.com/exepirit/pylontech-go/pkg/pylontech"
)

// Source produces telemetry reports. Implemented by *pylontech.Session.
type Source interface {
	ReadTelemetry(ctx context.Context, modules int) (pylontech.Report, error)
}

// Sink receives decoded reports. Implemented by *mqtt.Publisher.
type Sink interface {
	PublishReport(report pylontech.Report) error
}

// Monitor is a clock-driven reader: one report per tick, pushed to the sink.
// A failed cycle is logged and the loop moves on to the next tick; retry and
// reconnect policy stays with the operator.
type Monitor struct {
	Source   Source
	Sink     Sink
	Modules  int
	Interval time.Duration
	Logger   log.Logger
}

// Run polls until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	logger := m.Logger
	if logger == nil {
		logger = log.Default()
	}

	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.pollOnce(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Error("Poll cycle failed", "error", err)
			}
		}
	}
}

func (m *Monitor) pollOnce(ctx context.Context) error {
	report, err := m.Source.ReadTelemetry(ctx, m.Modules)
	if err != nil {
		return err
	}
	return m.Sink.PublishReport(report)
}
