// Package orderlog defines the append-only audit trail of order lifecycle
// transitions.
//
// Every create, update, cancel and delete appends one immutable row. It
// serves two purposes:
//
//  1. Observability: the trail shows exactly what happened to an order and
//     can be correlated with a distributed trace via the trace_id field.
//
//  2. Audit: stock movements are driven by these transitions, so the log is
//     the place to look when a stock count is disputed.
package orderlog

import "time"

// Event names a lifecycle transition.
type Event string

const (
	EventCreated   Event = "ORDER_CREATED"
	EventUpdated   Event = "ORDER_UPDATED"
	EventCancelled Event = "ORDER_CANCELLED"
	EventDeleted   Event = "ORDER_DELETED"
)

// Entry is a single row in the order_events table.
type Entry struct {
	// OrderID is the business identifier the row belongs to.
	OrderID int64

	// Event is the transition that was applied.
	Event Event

	// Status is the order status after the transition ("" for deletes).
	Status string

	// Detail is a short human-readable summary, e.g. "2 items, total 40".
	Detail string

	// TraceID is the W3C trace ID extracted from the OpenTelemetry span
	// active when the entry was written. Lets you jump from an audit row
	// straight to the full trace.
	TraceID string

	// SpanID pinpoints the exact span within the trace.
	SpanID string

	// CreatedAt is the wall-clock time of the transition.
	CreatedAt time.Time
}
