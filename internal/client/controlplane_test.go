package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmirror/taskmirror/internal/client/middleware"
	"github.com/taskmirror/taskmirror/internal/history"
	"github.com/taskmirror/taskmirror/internal/mirror"
)

type noopSource struct{}

func (noopSource) Fetch(ctx context.Context) ([]mirror.RemoteItem, error) {
	return nil, nil
}

type noopTaskStore struct{}

func (noopTaskStore) ResolveList(ctx context.Context, path []string) (string, error) {
	return "list-1", nil
}

func (noopTaskStore) CreateTask(ctx context.Context, listID string, draft *mirror.TaskDraft) (string, error) {
	return "task-1", nil
}

func (noopTaskStore) UpdateTask(ctx context.Context, taskID string, draft *mirror.TaskDraft) error {
	return nil
}

func testRoutes(t *testing.T, token string) http.Handler {
	t.Helper()

	reconciler, err := mirror.NewReconciler(noopTaskStore{}, mirror.NewMemStore(), []string{"s", "f", "l"})
	require.NoError(t, err)
	schedule, err := mirror.NewSchedule(15)
	require.NoError(t, err)

	journal := history.NewJournal(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, journal.Open())
	t.Cleanup(func() { journal.Close() })

	mgr := mirror.NewManager(noopSource{}, reconciler, journal, schedule)

	return SetupRoutes(mgr, journal, mirror.NewMemStore(), &RouteConfig{
		Auth: middleware.TokenAuthConfig{Token: token},
	})
}

func TestRoutesIndex(t *testing.T) {
	r := testRoutes(t, "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "version")
}

func TestRoutesHealthz(t *testing.T) {
	r := testRoutes(t, "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoutesAuthGuardsV1(t *testing.T) {
	r := testRoutes(t, "secret")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/status", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/status", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	assert.Equal(t, http.StatusOK, w2.Code)
}

func TestRoutesSyncNow(t *testing.T) {
	r := testRoutes(t, "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/sync/now", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "OK", resp.Code)
}

func TestRoutesUnknownPath(t *testing.T) {
	r := testRoutes(t, "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
