package observability

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

func TestInitTracer_ExportsSpans(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var buf bytes.Buffer
	shutdown, err := InitTracer(context.Background(), "survey-stats-test", &buf)
	require.NoError(t, err)

	_, span := Tracer().Start(context.Background(), "aggregate")
	span.SetAttributes(attribute.Int64("job.id", 7))
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), `"Name":"aggregate"`)
	assert.Contains(t, buf.String(), "survey-stats-test")
	assert.Contains(t, buf.String(), "job.id")
}
