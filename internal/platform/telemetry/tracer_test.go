package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviderNoop(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{ServiceName: "test", Exporter: "none"})
	require.NoError(t, err)
	require.NoError(t, p.Shutdown(context.Background()))

	_, span := Tracer().Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()
}

func TestNewProviderUnknownExporter(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Exporter: "zipkin"})
	assert.Error(t, err)
}
