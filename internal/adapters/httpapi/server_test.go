package httpapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/graft"
	"github.com/aretw0/graft/internal/adapters/httpapi"
	"github.com/aretw0/graft/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler() http.Handler {
	return httpapi.NewHandler(graft.New(), logging.NewNop())
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	decoded := map[string]any{}
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Body.String(), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestServer_Health(t *testing.T) {
	rec, body := doJSON(t, newTestHandler(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestServer_FullSession(t *testing.T) {
	h := newTestHandler()

	rec, _ := doJSON(t, h, http.MethodPost, "/rules",
		`{"name": "swap", "head": "swap(pair(a, b))", "body": "pair(b, a)"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := doJSON(t, h, http.MethodPost, "/shape",
		`{"term": "foo(swap(pair(f(a), g(b))), swap(pair(q(c), z(d))))"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["shaping"])

	rec, body = doJSON(t, h, http.MethodPost, "/apply", `{"rule": "swap"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "foo(pair(g(b), f(a)), pair(z(d), q(c)))", body["term"])

	rec, body = doJSON(t, h, http.MethodPost, "/done", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["shaping"])

	rec, body = doJSON(t, h, http.MethodGet, "/term", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["shaping"])
}

func TestServer_ListRules(t *testing.T) {
	h := newTestHandler()

	rec, _ := doJSON(t, h, http.MethodPost, "/rules",
		`{"name": "id", "head": "id(a)", "body": "a"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/rules", nil)
	out := httptest.NewRecorder()
	h.ServeHTTP(out, req)
	require.Equal(t, http.StatusOK, out.Code)

	var listed []map[string]any
	require.NoError(t, json.Unmarshal(out.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "id", listed[0]["name"])
	assert.Equal(t, "id(a)", listed[0]["head"])
}

func TestServer_ErrorStatuses(t *testing.T) {
	t.Run("apply while idle is conflict", func(t *testing.T) {
		rec, _ := doJSON(t, newTestHandler(), http.MethodPost, "/apply", `{"rule": "swap"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("unknown rule is not found", func(t *testing.T) {
		h := newTestHandler()
		rec, _ := doJSON(t, h, http.MethodPost, "/shape", `{"term": "f(x)"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		rec, _ = doJSON(t, h, http.MethodPost, "/apply", `{"rule": "missing"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad term syntax is bad request", func(t *testing.T) {
		rec, _ := doJSON(t, newTestHandler(), http.MethodPost, "/shape", `{"term": "f(a"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("duplicate rule is conflict", func(t *testing.T) {
		h := newTestHandler()
		rec, _ := doJSON(t, h, http.MethodPost, "/rules",
			`{"name": "r", "head": "f(a)", "body": "a"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		rec, _ = doJSON(t, h, http.MethodPost, "/rules",
			`{"name": "r", "head": "g(a)", "body": "a"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("missing rule name is bad request", func(t *testing.T) {
		rec, _ := doJSON(t, newTestHandler(), http.MethodPost, "/rules",
			`{"head": "f(a)", "body": "a"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_MetricsExposed(t *testing.T) {
	h := newTestHandler()

	rec, _ := doJSON(t, h, http.MethodPost, "/shape", `{"term": "f(x)"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	out := httptest.NewRecorder()
	h.ServeHTTP(out, req)

	require.Equal(t, http.StatusOK, out.Code)
	assert.Contains(t, out.Body.String(), "graft_commands_total")
	assert.Contains(t, out.Body.String(), "graft_shaping_active 1")
}
