package bench

import (
	"context"
	"net/http"
	"testing"

	"github.com/grussorusso/archbench/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandlerFromConfig(t *testing.T) {
	t.Setenv("ARCHITECTURE", "arm64")
	config.Set(config.WORKLOAD_SEED, 11)
	defer config.Set(config.WORKLOAD_SEED, nil)

	h, cleanup, err := NewHandlerFromConfig(context.Background())
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, int64(11), h.Seed)
	assert.Equal(t, "arm64", h.Collector.Info().Architecture)
	assert.NotNil(t, h.Recent)

	status, _ := h.Handle(context.Background(), []byte(`{"operation":"mathematical_computation","complexity":50}`))
	assert.Equal(t, http.StatusOK, status)
}
