package storage

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	outcomeOK       = "ok"
	outcomeNotFound = "not_found"
	outcomeError    = "error"
)

// Metrics métricas Prometheus de las operaciones del almacén.
type Metrics struct {
	duration *prometheus.HistogramVec
}

// NewMetrics registra las métricas en reg. Con reg nil no se registran (solo se observan).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		duration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "customers_store_operation_duration_seconds",
			Help:    "Duración de las operaciones sobre el almacén de documentos.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation", "outcome"}),
	}
}

func (m *Metrics) observe(op, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(op, outcome).Observe(time.Since(start).Seconds())
}

type instrumentedStore struct {
	next    Store
	tracer  trace.Tracer
	metrics *Metrics
}

// Instrument envuelve un Store con un span por llamada y el histograma de duración.
func Instrument(next Store, tracer trace.Tracer, metrics *Metrics) Store {
	return &instrumentedStore{next: next, tracer: tracer, metrics: metrics}
}

func (s *instrumentedStore) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "store."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
}

func (s *instrumentedStore) end(span trace.Span, op, outcome string, start time.Time, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(attribute.String("store.outcome", outcome))
	span.End()
	s.metrics.observe(op, outcome, start)
}

func (s *instrumentedStore) Get(ctx context.Context, collection, id string) (Document, bool, error) {
	start := time.Now()
	ctx, span := s.start(ctx, "get", attribute.String("store.collection", collection), attribute.String("store.document_id", id))
	doc, found, err := s.next.Get(ctx, collection, id)
	outcome := outcomeOK
	switch {
	case err != nil:
		outcome = outcomeError
	case !found:
		outcome = outcomeNotFound
	}
	s.end(span, "get", outcome, start, err)
	return doc, found, err
}

func (s *instrumentedStore) Set(ctx context.Context, collection, id string, doc Document) error {
	start := time.Now()
	ctx, span := s.start(ctx, "set", attribute.String("store.collection", collection), attribute.String("store.document_id", id))
	err := s.next.Set(ctx, collection, id, doc)
	s.end(span, "set", outcomeOf(err), start, err)
	return err
}

func (s *instrumentedStore) Delete(ctx context.Context, collection, id string) error {
	start := time.Now()
	ctx, span := s.start(ctx, "delete", attribute.String("store.collection", collection), attribute.String("store.document_id", id))
	err := s.next.Delete(ctx, collection, id)
	s.end(span, "delete", outcomeOf(err), start, err)
	return err
}

func (s *instrumentedStore) List(ctx context.Context, collection string, limit int) ([]Entry, error) {
	start := time.Now()
	ctx, span := s.start(ctx, "list", attribute.String("store.collection", collection), attribute.Int("store.limit", limit))
	entries, err := s.next.List(ctx, collection, limit)
	if err == nil {
		span.SetAttributes(attribute.Int("store.results", len(entries)))
	}
	s.end(span, "list", outcomeOf(err), start, err)
	return entries, err
}

func (s *instrumentedStore) Close() error {
	return s.next.Close()
}

func outcomeOf(err error) string {
	if err != nil {
		return outcomeError
	}
	return outcomeOK
}
