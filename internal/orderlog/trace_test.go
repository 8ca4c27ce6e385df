package orderlog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
)

func TestExtractTraceInfo(t *testing.T) {
	t.Run("no active span", func(t *testing.T) {
		ti := ExtractTraceInfo(context.Background())
		assert.Empty(t, ti.TraceID)
		assert.Empty(t, ti.SpanID)
	})

	t.Run("active span", func(t *testing.T) {
		sc := trace.NewSpanContext(trace.SpanContextConfig{
			TraceID: trace.TraceID{0x01},
			SpanID:  trace.SpanID{0x02},
		})
		ctx := trace.ContextWithSpanContext(context.Background(), sc)

		ti := ExtractTraceInfo(ctx)
		assert.Equal(t, sc.TraceID().String(), ti.TraceID)
		assert.Equal(t, sc.SpanID().String(), ti.SpanID)
	})
}

func TestNewEntry(t *testing.T) {
	entry := NewEntry(context.Background(), 42, EventCancelled, "cancelled", "released 1 line")
	assert.Equal(t, int64(42), entry.OrderID)
	assert.Equal(t, EventCancelled, entry.Event)
	assert.Equal(t, "cancelled", entry.Status)
	assert.Equal(t, "released 1 line", entry.Detail)
	assert.False(t, entry.CreatedAt.IsZero())
}
