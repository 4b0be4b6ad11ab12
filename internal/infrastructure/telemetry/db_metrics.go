package telemetry

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// RegisterDBPoolMetrics reports connection pool statistics of sqlDB on every
// collection. The returned registration stops the reporting.
func RegisterDBPoolMetrics(meter metric.Meter, sqlDB *sql.DB) (metric.Registration, error) {
	open, err := meter.Int64ObservableGauge("estore_db_connections_open",
		metric.WithDescription("Open database connections"))
	if err != nil {
		return nil, fmt.Errorf("failed to create open connections gauge: %w", err)
	}
	inUse, err := meter.Int64ObservableGauge("estore_db_connections_in_use",
		metric.WithDescription("Database connections in use"))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-use connections gauge: %w", err)
	}
	waits, err := meter.Int64ObservableCounter("estore_db_connection_waits_total",
		metric.WithDescription("Times a caller waited for a free connection"))
	if err != nil {
		return nil, fmt.Errorf("failed to create waits counter: %w", err)
	}

	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := sqlDB.Stats()
		o.ObserveInt64(open, int64(stats.OpenConnections))
		o.ObserveInt64(inUse, int64(stats.InUse))
		o.ObserveInt64(waits, stats.WaitCount)
		return nil
	}, open, inUse, waits)
}
