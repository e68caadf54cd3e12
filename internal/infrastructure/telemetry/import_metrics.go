package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Import outcomes
const (
	OutcomeImported  = "imported"
	OutcomeFailed    = "failed"
	OutcomeDuplicate = "duplicate"
)

// ImportMetrics records order import activity.
type ImportMetrics struct {
	orders   *Counter
	lines    *Counter
	quantity *Counter
	duration *Histogram
}

// NewImportMetrics creates the order import instruments on meter
func NewImportMetrics(meter metric.Meter) (*ImportMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	orders, err := NewCounter(meter, "orderbridge.import.orders", "Channable orders handled by outcome", "{order}")
	if err != nil {
		return nil, err
	}
	lines, err := NewCounter(meter, "orderbridge.import.lines", "Order lines added to carts", "{line}")
	if err != nil {
		return nil, err
	}
	quantity, err := NewCounter(meter, "orderbridge.import.quantity", "Units added to carts", "{unit}")
	if err != nil {
		return nil, err
	}
	duration, err := NewHistogram(meter, HistogramOpts{
		Name:        "orderbridge.import.duration",
		Description: "Time spent importing one order",
		Unit:        "s",
		Boundaries:  []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	})
	if err != nil {
		return nil, err
	}

	return &ImportMetrics{
		orders:   orders,
		lines:    lines,
		quantity: quantity,
		duration: duration,
	}, nil
}

// RecordImported records a successful import
func (m *ImportMetrics) RecordImported(ctx context.Context, storeID int64, lvb bool, lines, qty int, elapsed time.Duration) {
	store := AttrStoreID.Int64(storeID)
	m.orders.Inc(ctx, store, AttrOutcome.String(OutcomeImported), AttrLVB.Bool(lvb))
	m.lines.Add(ctx, int64(lines), store)
	m.quantity.Add(ctx, int64(qty), store)
	m.duration.RecordDuration(ctx, elapsed, store, AttrOutcome.String(OutcomeImported))
}

// RecordFailed records a failed import; reason is a short error code
func (m *ImportMetrics) RecordFailed(ctx context.Context, storeID int64, reason string, elapsed time.Duration) {
	store := AttrStoreID.Int64(storeID)
	m.orders.Inc(ctx, store, AttrOutcome.String(OutcomeFailed), AttrReason.String(reason))
	m.duration.RecordDuration(ctx, elapsed, store, AttrOutcome.String(OutcomeFailed))
}

// RecordDuplicate records an order rejected because it was already imported
func (m *ImportMetrics) RecordDuplicate(ctx context.Context, storeID int64) {
	m.orders.Inc(ctx, AttrStoreID.Int64(storeID), AttrOutcome.String(OutcomeDuplicate))
}
