package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"clinic/internal/platform/config"
)

func TestInit_Disabled(t *testing.T) {
	tp, err := Init(context.Background(), config.Tracing{Enabled: false})
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	assert.Same(t, tp, otel.GetTracerProvider())
	_, span := otel.Tracer("test").Start(context.Background(), "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
}
