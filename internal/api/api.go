package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/grussorusso/archbench/internal/bench"
	"github.com/grussorusso/archbench/internal/logging"
	"github.com/grussorusso/archbench/internal/workload"
	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid"
	"go.uber.org/zap"
)

type server struct {
	handler *bench.Handler
}

func newRequestID() string {
	return shortuuid.New()
}

// OperationInfo describes a supported operation and its parameter bounds.
type OperationInfo struct {
	Operation  workload.Operation `json:"operation"`
	Parameter  workload.SizeParam `json:"parameter"`
	Iterations workload.SizeParam `json:"iterations"`
}

// StatusInformation summarizes the invocations served by this instance.
type StatusInformation struct {
	Architecture string                        `json:"architecture"`
	FunctionName string                        `json:"function_name"`
	Warm         bool                          `json:"warm"`
	PeakMemoryMB float64                       `json:"peak_memory_mb"`
	Operations   map[string]*logging.LogStatus `json:"operations"`
}

// Invoke runs a benchmark. The request is turned into an API Gateway proxy
// event so that it goes through the same parsing as on Lambda.
func (s *server) Invoke(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return err
	}

	reqId := c.Response().Header().Get(echo.HeaderXRequestID)
	query := make(map[string]string)
	for k, v := range c.QueryParams() {
		if len(v) > 0 {
			query[k] = v[0]
		}
	}
	event, err := json.Marshal(events.APIGatewayProxyRequest{
		HTTPMethod:            c.Request().Method,
		Path:                  c.Request().URL.Path,
		QueryStringParameters: query,
		Body:                  string(body),
		RequestContext:        events.APIGatewayProxyRequestContext{RequestID: reqId},
	})
	if err != nil {
		return err
	}

	ctx := lambdacontext.NewContext(c.Request().Context(), &lambdacontext.LambdaContext{AwsRequestID: reqId})
	status, resp := s.handler.Handle(ctx, event)
	if status != http.StatusOK {
		zap.L().Debug("Invocation rejected", zap.String("request_id", reqId), zap.Int("status", status))
	}
	return c.JSONPretty(status, resp, "  ")
}

// GetOperations lists the supported operations with their parameters.
func GetOperations(c echo.Context) error {
	list := make([]OperationInfo, 0, len(workload.Operations))
	for _, op := range workload.Operations {
		param, _ := op.SizeParam()
		list = append(list, OperationInfo{
			Operation: op,
			Parameter: param,
			Iterations: workload.SizeParam{
				Name:    "iterations",
				Default: bench.DefaultIterations,
				Min:     1,
				Max:     bench.MaxIterations,
			},
		})
	}
	return c.JSON(http.StatusOK, list)
}

// GetStatus returns the statistics of the recent invocations.
func (s *server) GetStatus(c echo.Context) error {
	info := s.handler.Collector.Info()
	response := StatusInformation{
		Architecture: info.Architecture,
		FunctionName: info.FunctionName,
		Warm:         s.handler.ColdStart.Warm(),
		PeakMemoryMB: s.handler.Collector.PeakMB(),
		Operations:   map[string]*logging.LogStatus{},
	}
	if s.handler.Recent != nil {
		response.Operations = s.handler.Recent.GetAllLogStatus()
	}
	return c.JSON(http.StatusOK, response)
}
