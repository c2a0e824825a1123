package bench

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/grussorusso/archbench/internal/function"
	"github.com/grussorusso/archbench/internal/logging"
	"github.com/grussorusso/archbench/internal/metrics"
	"github.com/grussorusso/archbench/internal/telemetry"
	"github.com/grussorusso/archbench/internal/workload"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Response is the body returned for a successful benchmark run.
type Response struct {
	Success            bool                        `json:"success"`
	Operation          workload.Operation          `json:"operation"`
	Architecture       string                      `json:"architecture"`
	ColdStart          bool                        `json:"cold_start"`
	ProcessingResult   workload.Result             `json:"processing_result"`
	PerformanceMetrics *metrics.PerformanceMetrics `json:"performance_metrics"`
	FunctionInfo       function.Info               `json:"function_info"`
}

type ErrorResponse struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	StatusCode int    `json:"statusCode"`
}

func errorResponse(status int, msg string) (int, any) {
	return status, &ErrorResponse{Success: false, Error: msg, StatusCode: status}
}

var corsHeaders = map[string]string{
	"Content-Type":                 "application/json",
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "Content-Type",
	"Access-Control-Allow-Methods": "GET,POST,OPTIONS",
}

// CORSHeaders returns a copy of the headers attached to every response.
func CORSHeaders() map[string]string {
	h := make(map[string]string, len(corsHeaders))
	for k, v := range corsHeaders {
		h[k] = v
	}
	return h
}

// Handler runs benchmark requests. The cold-start tracker is owned by the
// handler: the first request it serves is the cold one.
type Handler struct {
	Collector   *metrics.Collector
	ColdStart   *metrics.ColdStartTracker
	Sink        metrics.Sink
	Recent      *logging.Logger
	Seed        int64
	EmitTimeout time.Duration
}

func NewHandler(collector *metrics.Collector, sink metrics.Sink, recent *logging.Logger) *Handler {
	return &Handler{
		Collector:   collector,
		ColdStart:   new(metrics.ColdStartTracker),
		Sink:        sink,
		Recent:      recent,
		Seed:        workload.DefaultSeed,
		EmitTimeout: 2 * time.Second,
	}
}

// Handle processes a raw event and returns the status code with the body to send.
func (h *Handler) Handle(ctx context.Context, raw []byte) (int, any) {
	coldStart := h.ColdStart.Observe()
	log := zap.L()
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		log = log.With(zap.String("aws_request_id", lc.AwsRequestID))
	}

	fields, err := ParseEvent(raw)
	if err != nil {
		log.Warn("Invalid event", zap.Error(err))
		return errorResponse(http.StatusBadRequest, fmt.Sprintf("Invalid input: %v", err))
	}

	req, err := Validate(fields, h.Seed)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			log.Info("Rejected request", zap.String("reason", verr.Message))
			return errorResponse(http.StatusBadRequest, verr.Message)
		}
		return errorResponse(http.StatusInternalServerError, fmt.Sprintf("Internal server error: %v", err))
	}

	info := h.Collector.Info()
	log.Info("Processing operation",
		zap.String("operation", string(req.Operation)),
		zap.Int("size", req.Size),
		zap.Int("iterations", req.Iterations),
		zap.Bool("cold_start", coldStart))

	ctx, span := telemetry.Tracer().Start(ctx, string(req.Operation), trace.WithAttributes(
		attribute.String("operation", string(req.Operation)),
		attribute.String("architecture", info.Architecture),
		attribute.Bool("cold_start", coldStart),
		attribute.Int("size", req.Size),
		attribute.Int("iterations", req.Iterations),
	))
	defer span.End()

	var result workload.Result
	m, err := h.Collector.Measure(string(req.Operation), req.Size, req.Iterations, coldStart, func() error {
		var err error
		result, err = workload.Run(req.Operation, req.Params())
		return err
	})

	if m != nil {
		metrics.Report(ctx, h.Sink, m, h.EmitTimeout)
		if h.Recent != nil {
			h.Recent.Record(m)
		}
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error("Operation failed", zap.String("operation", string(req.Operation)), zap.Error(err))
		return errorResponse(http.StatusInternalServerError, fmt.Sprintf("Internal server error: %v", err))
	}

	span.SetAttributes(attribute.Float64("execution_time_ms", m.ExecutionTimeMs))
	log.Info("Operation completed successfully", zap.String("operation", string(req.Operation)))

	return http.StatusOK, &Response{
		Success:            true,
		Operation:          req.Operation,
		Architecture:       info.Architecture,
		ColdStart:          coldStart,
		ProcessingResult:   result,
		PerformanceMetrics: m,
		FunctionInfo:       info,
	}
}

// HandleLambda is the aws-lambda-go entrypoint. It accepts both API Gateway
// proxy events and direct invocations.
func (h *Handler) HandleLambda(ctx context.Context, event json.RawMessage) (events.APIGatewayProxyResponse, error) {
	status, body := h.Handle(ctx, event)
	payload, err := json.MarshalIndent(body, "", "  ")
	if err != nil {
		zap.L().Error("Failed to encode response", zap.Error(err))
		status = http.StatusInternalServerError
		payload, _ = json.MarshalIndent(&ErrorResponse{
			Error:      fmt.Sprintf("Internal server error: %v", err),
			StatusCode: status,
		}, "", "  ")
	}

	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    CORSHeaders(),
		Body:       string(payload),
	}, nil
}
