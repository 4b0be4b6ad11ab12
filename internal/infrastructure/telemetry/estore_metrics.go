package telemetry

import (
	"context"
	"fmt"

	importapp "github.com/Apolones/estore/internal/application/import"
	purchaseapp "github.com/Apolones/estore/internal/application/purchase"
	"github.com/Apolones/estore/internal/domain/store"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName is the instrumentation scope of the store metrics
const MeterName = "github.com/Apolones/estore"

var (
	_ importapp.ImportMetrics     = (*EstoreMetrics)(nil)
	_ purchaseapp.PurchaseMetrics = (*EstoreMetrics)(nil)
)

// EstoreMetrics counts imports and purchases
type EstoreMetrics struct {
	filesLoaded metric.Int64Counter
	rowsLoaded  metric.Int64Counter
	imports     metric.Int64Counter
	purchases   metric.Int64Counter
}

// NewEstoreMetrics creates the instruments on meter
func NewEstoreMetrics(meter metric.Meter) (*EstoreMetrics, error) {
	m := &EstoreMetrics{}
	var err error

	if m.filesLoaded, err = meter.Int64Counter("estore_import_files_total",
		metric.WithDescription("CSV files committed by imports"),
		metric.WithUnit("{file}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create files counter: %w", err)
	}
	if m.rowsLoaded, err = meter.Int64Counter("estore_import_rows_total",
		metric.WithDescription("Rows committed by imports"),
		metric.WithUnit("{row}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create rows counter: %w", err)
	}
	if m.imports, err = meter.Int64Counter("estore_imports_total",
		metric.WithDescription("Finished imports by source and outcome"),
		metric.WithUnit("{import}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create imports counter: %w", err)
	}
	if m.purchases, err = meter.Int64Counter("estore_purchases_total",
		metric.WithDescription("Purchase requests by outcome"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create purchases counter: %w", err)
	}
	return m, nil
}

// RecordFileLoaded implements importapp.ImportMetrics
func (m *EstoreMetrics) RecordFileLoaded(ctx context.Context, kind store.EntityKind, rows int) {
	attrs := metric.WithAttributes(attribute.String("kind", kind.String()))
	m.filesLoaded.Add(ctx, 1, attrs)
	m.rowsLoaded.Add(ctx, int64(rows), attrs)
}

// RecordImportFinished implements importapp.ImportMetrics
func (m *EstoreMetrics) RecordImportFinished(ctx context.Context, source string, success bool) {
	outcome := "failed"
	if success {
		outcome = "completed"
	}
	m.imports.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("outcome", outcome),
	))
}

// RecordPurchase implements purchaseapp.PurchaseMetrics
func (m *EstoreMetrics) RecordPurchase(ctx context.Context, outcome string) {
	m.purchases.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
