package telemetry

import (
	"github.com/Apolones/estore/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RegisterDBTracing installs otelgorm on db so every statement becomes a child
// span of the span in the statement context. Query variables are left out
// unless full SQL logging is enabled. Slow statements are reported by the gorm
// logger, not here.
func RegisterDBTracing(db *gorm.DB, cfg config.TelemetryConfig, provider trace.TracerProvider, logger *zap.Logger) error {
	if !cfg.DBTraceEnabled {
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(db.Dialector.Name()),
		otelgorm.WithoutMetrics(),
	}
	if provider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(provider))
	}
	if !cfg.DBLogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	logger.Info("Database tracing enabled", zap.Bool("log_full_sql", cfg.DBLogFullSQL))
	return nil
}
