package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/raphaelgruber/structproof/internal/metrics"
	"github.com/raphaelgruber/structproof/internal/proof"
	"github.com/raphaelgruber/structproof/internal/service"
	"github.com/raphaelgruber/structproof/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	svc := service.NewValidationService(logger, metrics.NewCollector(), nil)
	defaults := validate.Config{
		EntropyThreshold:    0.0,
		Mode:                validate.ModeStrict,
		DivisorEchoEnabled:  true,
		VerificationTimeout: time.Minute,
	}

	ts := httptest.NewServer(New(svc, defaults, logger).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any, out any) *http.Response {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestHandleValidate(t *testing.T) {
	ts := testServer(t)

	var got validateResponse
	resp := postJSON(t, ts.URL+"/v1/validate", map[string]any{
		"payload": base64.StdEncoding.EncodeToString([]byte{6}),
	}, &got)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, got.StructurallyValid)
	require.NotNil(t, got.StructuralProof)
	assert.Len(t, got.StructuralProof.EntropyDistribution, 3)
}

func TestHandleValidateOverrides(t *testing.T) {
	ts := testServer(t)

	// n=10 fails with the echo test, passes once the request disables it.
	payload := base64.StdEncoding.EncodeToString([]byte{10})

	var strict validateResponse
	postJSON(t, ts.URL+"/v1/validate", map[string]any{"payload": payload}, &strict)
	assert.False(t, strict.StructurallyValid)

	var relaxed validateResponse
	postJSON(t, ts.URL+"/v1/validate", map[string]any{
		"payload":              payload,
		"divisor_echo_enabled": false,
	}, &relaxed)
	assert.True(t, relaxed.StructurallyValid)
}

func TestHandleValidateBadPayload(t *testing.T) {
	ts := testServer(t)

	resp := postJSON(t, ts.URL+"/v1/validate", map[string]any{"payload": "not base64!!"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleProve(t *testing.T) {
	ts := testServer(t)

	var proven proveResponse
	postJSON(t, ts.URL+"/v1/prove", map[string]any{
		"payload": base64.StdEncoding.EncodeToString([]byte{28}),
	}, &proven)
	assert.True(t, proven.Proven)
	require.NotNil(t, proven.Proof)

	var unproven proveResponse
	postJSON(t, ts.URL+"/v1/prove", map[string]any{
		"payload": base64.StdEncoding.EncodeToString([]byte{27}),
	}, &unproven)
	assert.False(t, unproven.Proven)
	assert.Nil(t, unproven.Proof)
}

func TestHandleVerify(t *testing.T) {
	ts := testServer(t)

	p := proof.StructuralProof{
		DivisorEchoValid:     true,
		GCDPreservationValid: true,
		LCMConsistencyValid:  true,
		EntropyDistribution:  []float64{0.25, 0.75},
	}

	var pass verifyResponse
	postJSON(t, ts.URL+"/v1/verify", map[string]any{"proof": p, "threshold": 0.4}, &pass)
	assert.True(t, pass.Valid)

	var fail verifyResponse
	postJSON(t, ts.URL+"/v1/verify", map[string]any{"proof": p, "threshold": 0.6}, &fail)
	assert.False(t, fail.Valid)

	resp := postJSON(t, ts.URL+"/v1/verify", map[string]any{"threshold": 0.4}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleStats(t *testing.T) {
	ts := testServer(t)

	postJSON(t, ts.URL+"/v1/validate", map[string]any{
		"payload": base64.StdEncoding.EncodeToString([]byte{6}),
	}, nil)

	resp, err := http.Get(ts.URL + "/v1/stats")
	require.NoError(t, err)
	defer resp.Body.Close()

	var snap metrics.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, int64(1), snap.ValidTotal)
	require.NotNil(t, snap.Validate)
	assert.Equal(t, int64(1), snap.Validate.Count)
}

func TestHealth(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
