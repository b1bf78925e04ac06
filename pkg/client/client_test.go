package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangtran/folio-api/internal/domain/portfolio"
)

// fakeServer is a minimal stand-in for the REST surface: a login route, the
// public document read and a couple of mutation routes that record what the
// client actually sent.
type fakeServer struct {
	mux *http.ServeMux

	lastAuth   string
	lastMethod string
	lastPath   string
	lastBody   []byte
}

func newFakeServer(t *testing.T) (*fakeServer, *httptest.Server) {
	t.Helper()
	f := &fakeServer{mux: http.NewServeMux()}

	f.mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["password"] != "good-password" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Username or password is incorrect"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "test-token"})
	})

	f.mux.HandleFunc("GET /api/portfolio", func(w http.ResponseWriter, r *http.Request) {
		doc := portfolio.EmptyDocument()
		doc.Hero.Name = "Quang"
		doc.Skills = []portfolio.Skill{{ID: "s1", Label: "Go", Level: 80}}
		_ = json.NewEncoder(w).Encode(doc)
	})

	f.mux.HandleFunc("POST /api/portfolio/skills", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"_id":"s2","label":"SQL","level":70}`))
	})

	f.mux.HandleFunc("PUT /api/portfolio/skills/s1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"_id":"s1","label":"Golang","level":90}`))
	})

	f.mux.HandleFunc("DELETE /api/portfolio/skills/s1", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	})

	f.mux.HandleFunc("PUT /api/portfolio/skills/s9", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"_id":"s9","label":"Rust","level":40}`))
	})

	f.mux.HandleFunc("PUT /api/portfolio/skills/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not found", "message": "skills item not found"})
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.lastAuth = r.Header.Get("Authorization")
		f.lastMethod = r.Method
		f.lastPath = r.URL.Path
		f.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func TestClient_LoginStoresToken(t *testing.T) {
	f, srv := newFakeServer(t)
	c, err := New(srv.URL)
	require.NoError(t, err)
	assert.False(t, c.HasCredential())

	err = c.Login(context.Background(), "admin", "bad-password")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.False(t, c.HasCredential())

	require.NoError(t, c.Login(context.Background(), "admin", "good-password"))
	assert.True(t, c.HasCredential())

	// Subsequent requests carry the token.
	require.NoError(t, c.Refresh(context.Background()))
	assert.Equal(t, "Bearer test-token", f.lastAuth)
}

func TestClient_MutationsRequireCredential(t *testing.T) {
	f, srv := newFakeServer(t)
	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.AddItem(context.Background(), "skills", map[string]any{"label": "Go"})
	assert.ErrorIs(t, err, ErrNoCredential)

	_, err = c.UpdateSection(context.Background(), "hero", map[string]any{"name": "x"})
	assert.ErrorIs(t, err, ErrNoCredential)

	err = c.DeleteItem(context.Background(), "skills", "s1")
	assert.ErrorIs(t, err, ErrNoCredential)

	// Nothing was sent.
	assert.Empty(t, f.lastMethod)
}

func TestClient_RejectsUnknownSections(t *testing.T) {
	_, srv := newFakeServer(t)
	c, err := New(srv.URL, WithToken("test-token"))
	require.NoError(t, err)

	_, err = c.AddItem(context.Background(), "hero", map[string]any{})
	assert.Error(t, err)

	_, err = c.UpdateSection(context.Background(), "skills", map[string]any{})
	assert.Error(t, err)
}

func TestClient_PatchesCacheFromReturnedElement(t *testing.T) {
	_, srv := newFakeServer(t)
	c, err := New(srv.URL, WithToken("test-token"))
	require.NoError(t, err)
	require.NoError(t, c.Refresh(context.Background()))

	// The server answers with its own element, not an echo of the request:
	// the cache must hold the server's version.
	stored, err := c.AddItem(context.Background(), "skills", map[string]any{"label": "ignored"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"s2","label":"SQL","level":70}`, string(stored))

	doc := c.Portfolio()
	require.NotNil(t, doc)
	require.Len(t, doc.Skills, 2)
	assert.Equal(t, "SQL", doc.Skills[1].Label)

	_, err = c.UpdateItem(context.Background(), "skills", "s1", map[string]any{"level": 90})
	require.NoError(t, err)
	doc = c.Portfolio()
	assert.Equal(t, "Golang", doc.Skills[0].Label)
	assert.Equal(t, 90, doc.Skills[0].Level)

	require.NoError(t, c.DeleteItem(context.Background(), "skills", "s1"))
	doc = c.Portfolio()
	require.Len(t, doc.Skills, 1)
	assert.Equal(t, "s2", doc.Skills[0].ID)
}

func TestClient_FailedMutationLeavesCacheUntouched(t *testing.T) {
	_, srv := newFakeServer(t)
	c, err := New(srv.URL, WithToken("test-token"))
	require.NoError(t, err)
	require.NoError(t, c.Refresh(context.Background()))
	before := c.Portfolio()

	_, err = c.UpdateItem(context.Background(), "skills", "missing", map[string]any{"level": 10})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	after := c.Portfolio()
	assert.Equal(t, before, after)
}

func TestClient_StaleCacheDroppedWhenPatchCannotApply(t *testing.T) {
	_, srv := newFakeServer(t)
	c, err := New(srv.URL, WithToken("test-token"))
	require.NoError(t, err)
	require.NoError(t, c.Refresh(context.Background()))

	// The server knows s9 but the cached document does not: the mutation
	// succeeds, and rather than keeping a document that diverged from the
	// store, the cache is dropped until the next Refresh.
	stored, err := c.UpdateItem(context.Background(), "skills", "s9", map[string]any{"level": 40})
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"s9","label":"Rust","level":40}`, string(stored))

	assert.Nil(t, c.Portfolio())

	require.NoError(t, c.Refresh(context.Background()))
	assert.NotNil(t, c.Portfolio())
}

func TestClient_PortfolioReturnsCopy(t *testing.T) {
	_, srv := newFakeServer(t)
	c, err := New(srv.URL, WithToken("test-token"))
	require.NoError(t, err)

	assert.Nil(t, c.Portfolio())

	require.NoError(t, c.Refresh(context.Background()))
	doc := c.Portfolio()
	doc.Hero.Name = "mutated locally"

	assert.Equal(t, "Quang", c.Portfolio().Hero.Name)
}
