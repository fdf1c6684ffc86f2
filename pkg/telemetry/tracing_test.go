package telemetry_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/customers-api/pkg/telemetry"
)

func TestNewTracerProvider_Deshabilitado(t *testing.T) {
	tp, shutdown, err := telemetry.NewTracerProvider(telemetry.Config{})
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()
	assert.NoError(t, shutdown(context.Background()))
}

func TestNewTracerProvider_ExportaAlWriter(t *testing.T) {
	var buf bytes.Buffer
	tp, shutdown, err := telemetry.NewTracerProvider(telemetry.Config{
		Enabled:     true,
		ServiceName: "customers-api",
		Output:      &buf,
	})
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(context.Background(), "store.get")
	span.End()
	require.NoError(t, shutdown(context.Background()))

	assert.Contains(t, buf.String(), "store.get")
	assert.Contains(t, buf.String(), "customers-api")
}

func TestNewRegistry(t *testing.T) {
	mfs, err := telemetry.NewRegistry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}
