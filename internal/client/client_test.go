package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/ahmetcoskunkizilkaya/signalforge/internal/classifier"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/database"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/dto"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/server"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/testutil"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer serves the real API over HTTP backed by in-memory SQLite.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := testutil.Config()
	db := testutil.NewDB(t, cfg)
	for _, p := range server.Plugins() {
		require.NoError(t, database.MigrateModels(db, p.Models()))
	}
	srv := httptest.NewServer(adaptor.FiberApp(server.New(cfg, db, server.Plugins())))
	t.Cleanup(srv.Close)
	return srv
}

// =========================================================================
// Client against the API
// =========================================================================

func TestClient_SessionLifecycle(t *testing.T) {
	srv := newTestServer(t)
	store := NewFileStore(filepath.Join(t.TempDir(), "signalforge", "session.json"))
	c := New(srv.URL, store)
	ctx := context.Background()

	_, err := c.Me(ctx)
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	signed, err := c.Signup(ctx, "ada@example.com", "hunter22", "Ada")
	require.NoError(t, err)

	session, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, signed.Token, session.Token)
	assert.Equal(t, srv.URL, session.Server)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", me.Email)

	require.NoError(t, c.Logout())
	session, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, session)

	_, err = c.Login(ctx, "ada@example.com", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid email or password", apiErr.Message)

	_, err = c.Login(ctx, "ada@example.com", "hunter22")
	require.NoError(t, err)
	_, err = c.Me(ctx)
	require.NoError(t, err)
}

func TestClient_SignalRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL, &MemoryStore{})
	ctx := context.Background()

	_, err := c.Signup(ctx, "feed@example.com", "hunter22", "Feed")
	require.NoError(t, err)

	records := classifier.Classify("Investor meeting Friday\nlunch plans")
	batch, err := c.CreateBatch(ctx, dto.RequestsFromRecords(records))
	require.NoError(t, err)
	assert.Equal(t, 2, batch.CreatedCount)

	ingest, err := c.Ingest(ctx, "Subject: quarterly newsletter")
	require.NoError(t, err)
	assert.Equal(t, 1, ingest.CreatedCount)
	assert.Zero(t, ingest.SignalCount)

	score := 60
	_, err = c.CreateSignal(ctx, dto.CreateSignalRequest{
		Content: "manual", Category: "Personal", Score: &score, SignalType: "noise",
	})
	require.NoError(t, err)

	list, err := c.ListSignals(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, "manual", list[0].Content)

	label := "decision_needed"
	updated, err := c.UpdateLabel(ctx, list[1].ID, &label)
	require.NoError(t, err)
	assert.Equal(t, 80, updated.Score)

	deleted, err := c.DeleteAllSignals(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, deleted)
}

func TestClient_ValidationErrorSurfaces(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL, &MemoryStore{})
	ctx := context.Background()

	_, err := c.Signup(ctx, "v@example.com", "hunter22", "V")
	require.NoError(t, err)

	score := 150
	_, err = c.CreateSignal(ctx, dto.CreateSignalRequest{
		Content: "x", Category: "General", Score: &score, SignalType: "noise",
	})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Message, "score")
}

// =========================================================================
// Transport failures
// =========================================================================

func TestClient_ForbiddenClearsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"Invalid or expired token"}`))
	}))
	defer srv.Close()

	store := &MemoryStore{}
	require.NoError(t, store.Save(Session{Server: srv.URL, Token: "stale"}))
	c := New(srv.URL, store)

	_, err := c.ListSignals(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid or expired token", apiErr.Message)

	session, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestClient_SessionForOtherServerIsNotSent(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"signals":[]}`))
	}))
	defer srv.Close()

	store := &MemoryStore{}
	require.NoError(t, store.Save(Session{Server: "http://server-a.example", Token: "token-for-a"}))
	c := New(srv.URL, store)

	_, err := c.ListSignals(context.Background())
	require.ErrorIs(t, err, ErrSessionForOtherServer)
	assert.Zero(t, hits.Load())

	// the other server's session is left alone
	session, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "token-for-a", session.Token)
}

func TestClient_SessionServerIgnoresTrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"signals":[]}`))
	}))
	defer srv.Close()

	store := &MemoryStore{}
	require.NoError(t, store.Save(Session{Server: srv.URL + "/", Token: "tok"}))

	list, err := New(srv.URL+"/", store).ListSignals(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestClient_UnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, &MemoryStore{})
	_, err := c.Login(context.Background(), "a@b.co", "pw")

	var unreachable *UnreachableError
	require.ErrorAs(t, err, &unreachable)
	assert.Equal(t, "unable to connect to the server at "+url, err.Error())
}

func TestClient_NonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL, &MemoryStore{}).Login(context.Background(), "a@b.co", "pw")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

// =========================================================================
// FileStore
// =========================================================================

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileStore(path)

	s, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, s)

	require.NoError(t, store.Save(Session{Server: "http://x", Token: "tok"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	s, err = store.Load()
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "tok", s.Token)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path).Load()
	assert.Error(t, err)
}
