package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"annograph/domain/core/graph"
	"annograph/infrastructure/config"
	"annograph/interfaces/convert"
	pkgerrors "annograph/pkg/errors"
)

func testPassageJSON(t *testing.T) []byte {
	t.Helper()
	p := graph.NewPassage("42")
	l0, err := graph.NewLayer0(p)
	require.NoError(t, err)
	_, err = graph.NewLayer1(p)
	require.NoError(t, err)
	_, err = l0.AddTerminal("token", false)
	require.NoError(t, err)
	data, err := convert.ToJSON(p)
	require.NoError(t, err)
	return data
}

func newTestServer(t *testing.T, passage []byte) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/login/", func(w http.ResponseWriter, r *http.Request) {
		var creds struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Email != "dev@example.com" || creds.Password != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"token": "tok123"})
	})
	mux.HandleFunc("GET /api/v1/passages/42/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Token tok123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write(passage)
	})
	mux.HandleFunc("GET /api/v1/passages/99/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("POST /api/v1/passages/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Token tok123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		if _, err := convert.FromJSON(data); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})
	return httptest.NewServer(mux)
}

func TestFetchWithLogin(t *testing.T) {
	srv := newTestServer(t, testPassageJSON(t))
	defer srv.Close()

	client, err := NewClient(config.RemoteConfig{
		URL:      srv.URL,
		Email:    "dev@example.com",
		Password: "pw",
	}, zap.NewNop())
	require.NoError(t, err)

	p, err := client.Fetch(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "42", p.ID())

	_, err = client.Fetch(context.Background(), "99")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestFetchWithToken(t *testing.T) {
	srv := newTestServer(t, testPassageJSON(t))
	defer srv.Close()

	client, err := NewClient(config.RemoteConfig{URL: srv.URL, Token: "tok123"}, zap.NewNop())
	require.NoError(t, err)

	p, err := client.Fetch(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "42", p.ID())
}

func TestSubmit(t *testing.T) {
	srv := newTestServer(t, testPassageJSON(t))
	defer srv.Close()

	client, err := NewClient(config.RemoteConfig{URL: srv.URL, Token: "tok123"}, zap.NewNop())
	require.NoError(t, err)

	p, err := convert.FromJSON(testPassageJSON(t))
	require.NoError(t, err)
	assert.NoError(t, client.Submit(context.Background(), p))
}

func TestBadToken(t *testing.T) {
	srv := newTestServer(t, testPassageJSON(t))
	defer srv.Close()

	client, err := NewClient(config.RemoteConfig{URL: srv.URL, Token: "wrong"}, zap.NewNop())
	require.NoError(t, err)

	_, err = client.Fetch(context.Background(), "42")
	assert.True(t, pkgerrors.IsUnauthorized(err))
}

func TestClientConfigValidation(t *testing.T) {
	_, err := NewClient(config.RemoteConfig{}, zap.NewNop())
	assert.True(t, pkgerrors.IsInvalidConfiguration(err))

	_, err = NewClient(config.RemoteConfig{URL: "http://x", Email: "a@b.c"}, zap.NewNop())
	assert.True(t, pkgerrors.IsInvalidConfiguration(err))
}
