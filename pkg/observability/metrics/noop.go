package metrics

import (
	"context"
	"time"
)

// NoOpMetrics discards everything. Used in tests and when metrics are disabled.
type NoOpMetrics struct{}

// NewNoop returns a NoOpMetrics.
func NewNoop() *NoOpMetrics { return &NoOpMetrics{} }

func (NoOpMetrics) RecordOperationAttempt(context.Context, string, string)                 {}
func (NoOpMetrics) RecordOperationSuccess(context.Context, string, string)                 {}
func (NoOpMetrics) RecordOperationFailure(context.Context, string, string)                 {}
func (NoOpMetrics) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (NoOpMetrics) RecordTeamCreated(context.Context, string)                              {}
func (NoOpMetrics) RecordTeamDeleted(context.Context, string)                              {}
func (NoOpMetrics) RecordInvitationsSent(context.Context, string, int)                     {}
func (NoOpMetrics) RecordInvitationsRejected(context.Context, string, string)              {}

var (
	_ OperationMetrics = NoOpMetrics{}
	_ TeamMetrics      = NoOpMetrics{}
)
