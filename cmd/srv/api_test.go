package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/questx-lab/interaction/config"
	"github.com/questx-lab/interaction/internal/middleware"
	"github.com/questx-lab/interaction/pkg/discord"
	"github.com/questx-lab/interaction/pkg/logger"
	"github.com/questx-lab/interaction/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, mutate func(cfg *config.Configs)) (http.Handler, *discord.Signer) {
	signer := testutil.NewSigner(t)

	cfg := config.Default()
	cfg.Discord.InteractionPublicKey = signer.PublicKeyHex()
	if mutate != nil {
		mutate(&cfg)
	}
	require.NoError(t, cfg.Validate())

	s := &srv{configs: &cfg, logger: logger.NewNopLogger()}
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	return s.router.Handler(), signer
}

func postInteraction(t *testing.T, h http.Handler, body string, headers map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/interaction", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	resp := map[string]any{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec, resp
}

func signedHeaders(signer *discord.Signer, body string) map[string]string {
	h := signer.SignWithTimestamp([]byte(body), "1700000000")
	return map[string]string{
		discord.HeaderSignature: h.Signature,
		discord.HeaderTimestamp: h.Timestamp,
	}
}

func TestInteraction_MissingSignatureHeader(t *testing.T) {
	h, signer := newTestServer(t, nil)
	body := `{"type":1}`

	headers := signedHeaders(signer, body)
	delete(headers, discord.HeaderSignature)

	rec, resp := postInteraction(t, h, body, headers)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Missing header X-Signature-Ed25519", resp["error"])
}

func TestInteraction_MissingTimestampHeader(t *testing.T) {
	h, signer := newTestServer(t, nil)
	body := `{"type":1}`

	headers := signedHeaders(signer, body)
	delete(headers, discord.HeaderTimestamp)

	rec, resp := postInteraction(t, h, body, headers)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Missing header X-Signature-Timestamp", resp["error"])
}

func TestInteraction_EmptySignatureHeader(t *testing.T) {
	h, signer := newTestServer(t, nil)
	body := `{"type":1}`

	headers := signedHeaders(signer, body)
	headers[discord.HeaderSignature] = ""

	rec, resp := postInteraction(t, h, body, headers)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Invalid signature", resp["error"])
}

func TestInteraction_WrongSignature(t *testing.T) {
	h, signer := newTestServer(t, nil)
	headers := signedHeaders(signer, `{"type":2}`)

	rec, resp := postInteraction(t, h, `{"type":1}`, headers)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Invalid signature", resp["error"])
}

func TestInteraction_Ping(t *testing.T) {
	h, signer := newTestServer(t, nil)
	body := `{"type": 1}`

	rec, resp := postInteraction(t, h, body, signedHeaders(signer, body))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, map[string]any{"type": float64(1)}, resp)
	require.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestInteraction_ApplicationCommand(t *testing.T) {
	h, signer := newTestServer(t, nil)
	body := `{"type": 2, "id": "123456789", "application_id": "987654321", "data": {"id": "cmd123", "name": "test", "type": 1}}`

	rec, resp := postInteraction(t, h, body, signedHeaders(signer, body))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, map[string]any{
		"type": float64(4),
		"data": map[string]any{"content": "Pong"},
	}, resp)
}

func TestInteraction_UnsupportedType(t *testing.T) {
	h, signer := newTestServer(t, nil)
	body := `{"type": 99}`

	rec, resp := postInteraction(t, h, body, signedHeaders(signer, body))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Unsupported interaction type", resp["error"])
}

func TestInteraction_MalformedJSON(t *testing.T) {
	h, signer := newTestServer(t, nil)
	body := `{"type": 1`

	rec, resp := postInteraction(t, h, body, signedHeaders(signer, body))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid interaction payload", resp["error"])
}

func TestInteraction_CustomPath(t *testing.T) {
	h, signer := newTestServer(t, func(cfg *config.Configs) {
		cfg.Discord.InteractionPath = "/interactions"
	})
	body := `{"type":1}`

	req := httptest.NewRequest(http.MethodPost, "/interactions", strings.NewReader(body))
	for k, v := range signedHeaders(signer, body) {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"type":1}`, rec.Body.String())
}

func TestHealthAndMetrics(t *testing.T) {
	h, _ := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	b, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Contains(t, string(b), "http_requests_total")
}

func TestMetricsDisabled(t *testing.T) {
	h, _ := newTestServer(t, func(cfg *config.Configs) {
		cfg.Metrics.Enable = false
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCommands_SignAndVerify(t *testing.T) {
	s := &srv{}
	s.loadApp()

	var out bytes.Buffer
	s.app.Writer = &out

	body := `{"type":1}`
	err := s.app.Run([]string{"interaction", "sign", "--seed", testutil.DefaultSeed, "--timestamp", "1700000000", body})
	require.NoError(t, err)

	var signature string
	for _, line := range strings.Split(out.String(), "\n") {
		if v, ok := strings.CutPrefix(line, discord.HeaderSignature+": "); ok {
			signature = v
		}
	}
	require.Len(t, signature, 128)

	publicKey := testutil.NewSigner(t).PublicKeyHex()

	out.Reset()
	err = s.app.Run([]string{"interaction", "verify",
		"--signature", signature, "--timestamp", "1700000000", "--public-key", publicKey, body})
	require.NoError(t, err)
	require.Equal(t, "true\n", out.String())

	out.Reset()
	err = s.app.Run([]string{"interaction", "verify",
		"--signature", signature, "--timestamp", "1700000001", "--public-key", publicKey, body})
	require.NoError(t, err)
	require.Equal(t, "false\n", out.String())
}

func TestCommands_Keygen(t *testing.T) {
	s := &srv{}
	s.loadApp()

	var out bytes.Buffer
	s.app.Writer = &out

	require.NoError(t, s.app.Run([]string{"interaction", "keygen"}))
	require.Contains(t, out.String(), "public key: ")
}

func TestInteraction_RequestID(t *testing.T) {
	h, signer := newTestServer(t, nil)
	body := `{"type":1}`

	rec, _ := postInteraction(t, h, body, signedHeaders(signer, body))
	generated := rec.Header().Get(middleware.RequestIDHeader)
	require.Len(t, generated, 36)

	headers := signedHeaders(signer, body)
	headers[middleware.RequestIDHeader] = "3f2b8c1e-8d4a-4b7e-9a52-6c1d2e3f4a5b"
	rec, _ = postInteraction(t, h, body, headers)
	require.Equal(t, "3f2b8c1e-8d4a-4b7e-9a52-6c1d2e3f4a5b", rec.Header().Get(middleware.RequestIDHeader))

	headers[middleware.RequestIDHeader] = "not-an-id"
	rec, _ = postInteraction(t, h, body, headers)
	require.NotEqual(t, "not-an-id", rec.Header().Get(middleware.RequestIDHeader))
}

func TestSyncLogger_FlushesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "interaction.log")

	cfg := config.Default()
	cfg.Log.Format = "json"
	cfg.Log.File = path

	s := &srv{configs: &cfg}
	require.NoError(t, s.loadLogger())

	s.logger.Infof("Server stopped")
	s.syncLogger()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), "Server stopped")
}
