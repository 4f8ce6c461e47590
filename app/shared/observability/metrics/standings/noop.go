package standingsmetrics

import (
	"context"
	"time"
)

type noop struct{}

// NewNoop returns metrics that discard every measurement.
func NewNoop() StandingsMetrics {
	return noop{}
}

func (noop) RecordOperationAttempt(context.Context, string, string)                 {}
func (noop) RecordOperationSuccess(context.Context, string, string)                 {}
func (noop) RecordOperationFailure(context.Context, string, string)                 {}
func (noop) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (noop) RecordDegradedResponse(context.Context, string)                         {}
func (noop) RecordIntegrityFault(context.Context, string)                           {}
