package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/exepirit/pylontech-go/internal/log"
	"github.com/exepirit/pylontech-go/pkg/pylontech"
)

type fakeSource struct {
	report   pylontech.Report
	failures int // fail this many calls before succeeding
	calls    int
}

func (f *fakeSource) ReadTelemetry(ctx context.Context, modules int) (pylontech.Report, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("console timeout")
	}
	return f.report, nil
}

type fakeSink struct {
	published []pylontech.Report
	limit     int
	cancel    context.CancelFunc
}

func (f *fakeSink) PublishReport(report pylontech.Report) error {
	f.published = append(f.published, report)
	if len(f.published) >= f.limit {
		f.cancel()
	}
	return nil
}

func TestMonitorPublishesReports(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	source := &fakeSource{report: pylontech.Report{{StateOfCharge: 93}}}
	sink := &fakeSink{limit: 3, cancel: cancel}

	mon := &Monitor{
		Source:   source,
		Sink:     sink,
		Modules:  1,
		Interval: time.Millisecond,
		Logger:   log.NOOPLogger{},
	}
	mon.Run(ctx)

	if len(sink.published) < 3 {
		t.Fatalf("published %d reports, want at least 3", len(sink.published))
	}
	if sink.published[0][0].StateOfCharge != 93 {
		t.Errorf("published report mismatch: %+v", sink.published[0])
	}
}

func TestMonitorContinuesAfterError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	source := &fakeSource{
		report:   pylontech.Report{{StateOfCharge: 50}},
		failures: 2,
	}
	sink := &fakeSink{limit: 1, cancel: cancel}

	mon := &Monitor{
		Source:   source,
		Sink:     sink,
		Modules:  1,
		Interval: time.Millisecond,
		Logger:   log.NOOPLogger{},
	}
	mon.Run(ctx)

	if len(sink.published) == 0 {
		t.Fatal("expected a report after failed cycles")
	}
	if source.calls < 3 {
		t.Fatalf("source called %d times, want at least 3", source.calls)
	}
}
