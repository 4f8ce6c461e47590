package standingsmetrics

import (
	"context"
	"time"
)

// StandingsMetrics records service-level measurements for the standings views.
type StandingsMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, d time.Duration)

	// RecordDegradedResponse counts tournament views served without standings.
	RecordDegradedResponse(ctx context.Context, reason string)

	// RecordIntegrityFault counts data integrity faults by kind.
	RecordIntegrityFault(ctx context.Context, kind string)
}
