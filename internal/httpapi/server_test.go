package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabletalk/tabletalk/internal/service"
	"github.com/tabletalk/tabletalk/internal/testutil"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	svc := service.New(testutil.Registry(t), testutil.OpenSeededStore(t), nil)
	return New(svc, nil).Router()
}

func postQuery(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestQuery_TableEnvelope(t *testing.T) {
	router := newTestRouter(t)

	w := postQuery(t, router, `{"query":"Show me all customers"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var env struct {
		Type    string           `json:"type"`
		Columns []string         `json:"columns"`
		Rows    []map[string]any `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "table", env.Type)
	assert.NotEmpty(t, env.Columns)
	require.NotEmpty(t, env.Rows)
	assert.Contains(t, env.Rows[0], "customerid")
}

func TestQuery_MetricEnvelope(t *testing.T) {
	router := newTestRouter(t)

	w := postQuery(t, router, `{"query":"How many customers are there?"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var env map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "metric", env["type"])
	assert.Equal(t, "Total Customers", env["label"])
}

func TestQuery_RejectionIs200(t *testing.T) {
	router := newTestRouter(t)

	w := postQuery(t, router, `{"query":"qwzx flurble"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var env map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "error", env["type"])
	assert.Len(t, env["suggestions"], 4)
}

func TestQuery_BadBodyIs400(t *testing.T) {
	router := newTestRouter(t)

	for _, body := range []string{``, `{}`, `{"query":""}`, `not json`} {
		w := postQuery(t, router, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
	}
}

func TestRequestID_EchoesCallerValue(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{"query":"count customers"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}
