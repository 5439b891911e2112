// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

func TestInitTracerExportsSpans(t *testing.T) {
	t.Cleanup(func() { otel.SetTracerProvider(noop.NewTracerProvider()) })

	var buf bytes.Buffer
	shutdown, err := InitTracer("article-engine-test", &buf, zap.NewNop())
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "pipeline.run")
	span.End()

	require.NoError(t, shutdown(context.Background()))
	out := buf.String()
	assert.Contains(t, out, `"Name":"pipeline.run"`)
	assert.Contains(t, out, "article-engine-test")
}
