package drive

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDrive serves a two-level folder tree:
//
//	root/
//	  doc-a.pdf   (tags: mirror)
//	  notes.txt   (no tags)
//	  sub/        (folder)
//	    doc-b.pdf (tags: mirror,urgent)
func fakeDrive(t *testing.T) *Client {
	t.Helper()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	byParent := map[string][]File{
		"root": {
			{
				ID: "f1", Name: "doc-a.pdf", MimeType: "application/pdf",
				CreatedTime: now, ModifiedTime: now, Size: "2048",
				WebViewLink:   "https://files.example.com/view/f1",
				AppProperties: map[string]string{"tags": "mirror"},
			},
			{
				ID: "f2", Name: "notes.txt", MimeType: "text/plain",
				CreatedTime: now, ModifiedTime: now, Size: "10",
			},
			{
				ID: "sub", Name: "sub", MimeType: folderMimeType,
				CreatedTime: now, ModifiedTime: now,
			},
		},
		"sub": {
			{
				ID: "f3", Name: "doc-b.pdf", MimeType: "application/pdf",
				CreatedTime: now, ModifiedTime: now, Size: "4096",
				AppProperties: map[string]string{"tags": "mirror, urgent"},
			},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /drive/v3/files", func(w http.ResponseWriter, r *http.Request) {
		parent := r.URL.Query().Get("parent")
		json.NewEncoder(w).Encode(fileListResponse{Files: byParent[parent]})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := New(&Config{BaseURL: srv.URL, APIToken: "src_test"})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestScanner_TaggedItemsOnly(t *testing.T) {
	c := fakeDrive(t)
	s, err := NewScanner(c, ScanConfig{
		RootFolderID: "root",
		Depth:        2,
		MirrorTag:    "mirror",
	})
	require.NoError(t, err)

	items, err := s.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "f1", items[0].ID)
	assert.Equal(t, "/", items[0].Location)
	assert.Equal(t, int64(2048), items[0].SizeBytes)
	assert.True(t, items[0].Tags.Contains("mirror"))

	assert.Equal(t, "f3", items[1].ID)
	assert.Equal(t, "/sub", items[1].Location)
	assert.True(t, items[1].Tags.Contains("urgent"))
}

func TestScanner_DepthLimit(t *testing.T) {
	c := fakeDrive(t)
	s, err := NewScanner(c, ScanConfig{
		RootFolderID: "root",
		Depth:        1,
		MirrorTag:    "mirror",
	})
	require.NoError(t, err)

	items, err := s.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "f1", items[0].ID)
}

func TestScanner_ExcludeGlob(t *testing.T) {
	c := fakeDrive(t)
	s, err := NewScanner(c, ScanConfig{
		RootFolderID: "root",
		Depth:        2,
		MirrorTag:    "mirror",
		Exclude:      []string{"sub/**"},
	})
	require.NoError(t, err)

	items, err := s.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "f1", items[0].ID)
}

func TestScanner_ListingErrorAbortsScan(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /drive/v3/files", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 401, "message": "invalid token"},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := New(&Config{BaseURL: srv.URL, APIToken: "bad"})
	require.NoError(t, err)
	defer c.Close()

	s, err := NewScanner(c, ScanConfig{RootFolderID: "root", Depth: 1, MirrorTag: "mirror"})
	require.NoError(t, err)

	_, err = s.Scan(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")
}

func TestListChildren_Pagination(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /drive/v3/files", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("pageToken") == "" {
			json.NewEncoder(w).Encode(fileListResponse{
				Files:         []File{{ID: "a", Name: "a"}},
				NextPageToken: "p2",
			})
			return
		}
		json.NewEncoder(w).Encode(fileListResponse{Files: []File{{ID: "b", Name: "b"}}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := New(&Config{BaseURL: srv.URL, APIToken: "src_test"})
	require.NoError(t, err)
	defer c.Close()

	files, err := c.ListChildren(context.Background(), "root")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a", files[0].ID)
	assert.Equal(t, "b", files[1].ID)
}
