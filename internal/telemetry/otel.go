package telemetry

import (
	"context"
	"errors"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const TracerName = "github.com/grussorusso/archbench"

var DefaultTracer trace.Tracer = noop.NewTracerProvider().Tracer(TracerName)

// SetupOTelSDK bootstraps the OpenTelemetry pipeline, exporting spans to w.
// If it does not return an error, make sure to call shutdown for proper cleanup.
func SetupOTelSDK(ctx context.Context, w io.Writer) (shutdown func(context.Context) error, err error) {
	var shutdownFuncs []func(context.Context) error

	// errors from the cleanup functions are joined; each runs once
	shutdown = func(ctx context.Context) error {
		var err error
		for _, fn := range shutdownFuncs {
			err = errors.Join(err, fn(ctx))
		}
		shutdownFuncs = nil
		return err
	}

	handleErr := func(inErr error) {
		err = errors.Join(inErr, shutdown(ctx))
	}

	otel.SetTextMapPropagator(newPropagator())

	tracerProvider, err := newTraceProvider(w)
	if err != nil {
		handleErr(err)
		return
	}
	shutdownFuncs = append(shutdownFuncs, tracerProvider.Shutdown)
	otel.SetTracerProvider(tracerProvider)
	DefaultTracer = tracerProvider.Tracer(TracerName)

	return
}

// Tracer returns the tracer installed by SetupOTelSDK, or a no-op one.
func Tracer() trace.Tracer {
	return DefaultTracer
}

func newPropagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)
}

func newTraceProvider(w io.Writer) (*sdktrace.TracerProvider, error) {
	opts := []stdouttrace.Option{}
	if w != nil {
		opts = append(opts, stdouttrace.WithWriter(w))
	}
	traceExporter, err := stdouttrace.New(opts...)
	if err != nil {
		return nil, err
	}

	// Lambda may freeze the instance between invocations: spans are exported synchronously
	return sdktrace.NewTracerProvider(sdktrace.WithSyncer(traceExporter)), nil
}
