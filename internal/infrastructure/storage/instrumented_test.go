package storage_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jhoicas/customers-api/internal/infrastructure/storage"
)

func TestInstrument_SpansYMetricas(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	reg := prometheus.NewRegistry()

	st := storage.Instrument(storage.NewMemoryStore(), tp.Tracer("test"), storage.NewMetrics(reg))
	ctx := context.Background()

	require.NoError(t, st.Set(ctx, "customers", "a", storage.Document{"first_name": "Jane"}))
	_, found, err := st.Get(ctx, "customers", "missing")
	require.NoError(t, err)
	assert.False(t, found)
	_, err = st.List(ctx, "customers", 10)
	require.NoError(t, err)

	spans := sr.Ended()
	require.Len(t, spans, 3)
	assert.Equal(t, "store.set", spans[0].Name())
	assert.Equal(t, "store.get", spans[1].Name())
	assert.Equal(t, "store.list", spans[2].Name())
	assert.Contains(t, spans[1].Attributes(), attribute.String("store.document_id", "missing"))
	assert.Contains(t, spans[1].Attributes(), attribute.String("store.outcome", "not_found"))
	assert.Contains(t, spans[2].Attributes(), attribute.Int("store.limit", 10))

	n, err := testutil.GatherAndCount(reg, "customers_store_operation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
