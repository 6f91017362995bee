package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rgehrsitz/regimesim/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cat, err := config.DefaultCatalog()
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(cat, DefaultOptions(), logger.WithField("module", "server"))
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestSimulate(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/simulate",
		`{"revenue": 1000000, "profit": 50000, "jurisdiction": "sp", "sector": "Servicos"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decodeBody(t, rec)
	result := body["result"].(map[string]any)
	best := result["bestRegime"].(map[string]any)
	assert.Equal(t, "real_profit", best["regime"])
	assert.Equal(t, "17000", best["taxAmount"])

	input := result["input"].(map[string]any)
	assert.Equal(t, "SP", input["jurisdiction"])
	assert.Equal(t, "servicos", input["sector"])

	regimes := result["regimes"].([]any)
	assert.Len(t, regimes, 4)

	ranking := body["ranking"].([]any)
	require.Len(t, ranking, 4)
	assert.Equal(t, "real_profit", ranking[0].(map[string]any)["regime"])

	reform := body["reform"].(map[string]any)
	assert.Equal(t, "283000", reform["difference"])
}

func TestSimulate_ProfitDefaultsToZero(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/simulate", `{"revenue": 0}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	best := body["result"].(map[string]any)["bestRegime"].(map[string]any)
	assert.Equal(t, "unified_simplified", best["regime"])
	assert.Nil(t, best["percentOfRevenue"])
}

func TestSimulate_BadInput(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"negative revenue", `{"revenue": -1, "profit": 0}`, "revenue cannot be negative"},
		{"negative profit", `{"revenue": 10, "profit": -5}`, "profit cannot be negative"},
		{"missing revenue", `{"profit": 10}`, "revenue is required"},
		{"malformed", `{"revenue": `, "malformed JSON body"},
		{"wrong type", `{"revenue": "lots"}`, "malformed JSON body"},
		{"empty", ``, "request body is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/simulate", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decodeBody(t, rec)["error"], tt.wantErr)
		})
	}
}

func TestSimulate_MethodNotAllowed(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/simulate", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCalculate_Legacy(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
		want [4]float64 // imposto_antigo, imposto_novo, diferenca, percentual_diferenca
	}{
		{"entity", `{"renda": 1000, "tipo": "PJ"}`, [4]float64{150, 200, 50, 33.3333}},
		{"individual by default", `{"renda": 1000}`, [4]float64{120, 150, 30, 25}},
		{"lower-case type", `{"renda": 1000, "tipo": "pj"}`, [4]float64{150, 200, 50, 33.3333}},
		{"unknown type", `{"renda": 1000, "tipo": "XX"}`, [4]float64{0, 0, 0, 0}},
		{"zero income", `{"renda": 0, "tipo": "PF"}`, [4]float64{0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/calculate", tt.body)
			require.Equal(t, http.StatusOK, rec.Code)

			body := decodeBody(t, rec)
			assert.InDelta(t, tt.want[0], body["imposto_antigo"], 0.001)
			assert.InDelta(t, tt.want[1], body["imposto_novo"], 0.001)
			assert.InDelta(t, tt.want[2], body["diferenca"], 0.001)
			assert.InDelta(t, tt.want[3], body["percentual_diferenca"], 0.001)
		})
	}
}

func TestCalculate_NegativeIncome(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/calculate", `{"renda": -10}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCatalog(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/catalog", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(2025), body["metadata"].(map[string]any)["data_year"])
	assert.Equal(t, "4800000", body["parameters"].(map[string]any)["simplifiedRevenueCeiling"])

	jurisdictions := body["jurisdictions"].([]any)
	assert.Len(t, jurisdictions, 12)

	var sp map[string]any
	for _, j := range jurisdictions {
		if entry := j.(map[string]any); entry["code"] == "SP" {
			sp = entry
		}
	}
	require.NotNil(t, sp)
	assert.Equal(t, "0.18", sp["rates"].(map[string]any)["consumptionTaxRate"])

	sectors := body["sectors"].([]any)
	assert.Len(t, sectors, 7)
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/healthz", "")
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestCORS(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	preflight := httptest.NewRequest(http.MethodOptions, "/calculate", nil)
	preflight.Header.Set("Origin", "http://localhost:3000")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, preflight)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestListenAndServe_Shutdown(t *testing.T) {
	cat, err := config.DefaultCatalog()
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	s := New(cat, Options{Addr: "127.0.0.1:0"}, logger.WithField("module", "server"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
