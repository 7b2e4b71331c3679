package observability

import (
	"context"
	"log/slog"
)

// LogHooks logs every event to logger: valid results at debug level,
// invalid ones at info, failed calls at warn.
func LogHooks(logger *slog.Logger) Hooks {
	return Hooks{
		OnValidate: func(ctx context.Context, e *ValidationEvent) {
			attrs := []any{
				"operation", e.Operation,
				"outcome", e.Outcome(),
				"duration", e.Duration,
			}
			if e.Schema != "" {
				attrs = append(attrs, "schema", e.Schema)
			}
			if len(e.Path) > 0 {
				attrs = append(attrs, "path", e.Path)
			}
			switch e.Outcome() {
			case OutcomeError:
				logger.WarnContext(ctx, "validation_failed", append(attrs, "error", e.Err)...)
			case OutcomeInvalid:
				logger.InfoContext(ctx, "validation_invalid", append(attrs, "errors", len(e.Result.Errors))...)
			default:
				logger.DebugContext(ctx, "validation_valid", attrs...)
			}
		},
		OnStoreChange: func(ctx context.Context, e *StoreEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "schema_store_failed", "action", e.Action, "schema", e.Schema, "error", e.Err)
				return
			}
			logger.InfoContext(ctx, "schema_store_changed", "action", e.Action, "schema", e.Schema)
		},
	}
}
