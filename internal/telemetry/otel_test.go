package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := SetupOTelSDK(context.Background(), &buf)
	require.NoError(t, err)

	_, span := Tracer().Start(context.Background(), "sort_intensive")
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "sort_intensive")
	// second shutdown is a no-op
	assert.NoError(t, shutdown(context.Background()))
}
