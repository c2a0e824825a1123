package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/grussorusso/archbench/internal/bench"
	"github.com/grussorusso/archbench/internal/function"
	"github.com/grussorusso/archbench/internal/logging"
	"github.com/grussorusso/archbench/internal/metrics"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *echo.Echo {
	info := function.Info{FunctionName: "bench-x86", FunctionVersion: "$LATEST", Architecture: "x86_64", Runtime: "go1.23"}
	collector := metrics.NewCollector(info, func() float64 { return 32 })
	h := bench.NewHandler(collector, metrics.MultiSink{}, logging.NewLogger())

	e := echo.New()
	RegisterRoutes(e, h)
	return e
}

func serve(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestInvoke(t *testing.T) {
	e := newTestServer()

	rec := serve(e, http.MethodPost, "/invoke", `{"operation":"sort_intensive","data_size":100}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "x86_64", resp["architecture"])
	assert.Equal(t, true, resp["cold_start"])

	result := resp["processing_result"].(map[string]any)
	tested := result["algorithms_tested"].([]any)
	require.Len(t, tested, 1)
	assert.Equal(t, true, tested[0].(map[string]any)["results_match"])
}

func TestInvokeQueryParameters(t *testing.T) {
	e := newTestServer()

	rec := serve(e, http.MethodPost, "/invoke?operation=memory_intensive&memory_size_mb=1&iterations=2", ``)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	ops := resp["processing_result"].(map[string]any)["memory_operations"].([]any)
	assert.Len(t, ops, 2)
}

func TestInvokeValidationError(t *testing.T) {
	e := newTestServer()

	rec := serve(e, http.MethodPost, "/invoke", `{"operation":"sort_intensive","data_size":100001}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp bench.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "data_size must be an integer between 1 and 100000", resp.Error)

	rec = serve(e, http.MethodPost, "/invoke", `{"operation":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOperations(t *testing.T) {
	e := newTestServer()
	rec := serve(e, http.MethodGet, "/operations", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var ops []OperationInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ops))
	require.Len(t, ops, 4)
	assert.Equal(t, "data_size", ops[0].Parameter.Name)
	assert.Equal(t, 100000, ops[0].Parameter.Max)
	assert.Equal(t, 10, ops[3].Parameter.Default)
	assert.Equal(t, 10, ops[0].Iterations.Max)
}

func TestGetStatus(t *testing.T) {
	e := newTestServer()

	rec := serve(e, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var status StatusInformation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.False(t, status.Warm)
	assert.Empty(t, status.Operations)

	serve(e, http.MethodPost, "/invoke", `{"operation":"mathematical_computation","complexity":100}`)
	serve(e, http.MethodPost, "/invoke", `{"operation":"mathematical_computation","complexity":100}`)

	rec = serve(e, http.MethodGet, "/status", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.Warm)
	assert.Equal(t, "x86_64", status.Architecture)
	require.Contains(t, status.Operations, "mathematical_computation")
	assert.Equal(t, 2, status.Operations["mathematical_computation"].Invocations)
	assert.Equal(t, 1, status.Operations["mathematical_computation"].ColdStarts)
	assert.Equal(t, 32.0, status.PeakMemoryMB)
}

func TestCORSPreflight(t *testing.T) {
	e := newTestServer()
	req := httptest.NewRequest(http.MethodOptions, "/invoke", nil)
	req.Header.Set(echo.HeaderOrigin, "http://example.com")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}
