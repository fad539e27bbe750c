package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIsIdempotent(t *testing.T) {
	logger := zerolog.Nop()

	Register(logger)
	Register(logger)

	ActiveRequests.Set(3)
	AirdropsTotal.WithLabelValues("ok").Inc()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "faucet_server_active_requests 3")
	assert.Contains(t, w.Body.String(), `faucet_airdrop_requests_total{result="ok"}`)
	assert.Equal(t, float64(3), testutil.ToFloat64(ActiveRequests))
}
