// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package telemetry installs the OpenTelemetry tracer provider used by the
// pipeline spans.
package telemetry

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.uber.org/zap"
)

// InitTracer exports spans as JSON lines to w and makes the provider global.
// The returned function flushes pending spans and shuts the provider down.
func InitTracer(serviceName string, w io.Writer, logger *zap.Logger) (func(context.Context) error, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("creating span exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			"",
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("building trace resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	if logger != nil {
		logger.Info("OpenTelemetry initialized", zap.String("service", serviceName))
	}
	return tp.Shutdown, nil
}
