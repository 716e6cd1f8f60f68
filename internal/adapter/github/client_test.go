package github

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testRepo          = "example/brewmap"
	testPath          = "data/na_breweries_combined.csv"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(baseURL string) *Client {
	return NewClient(baseURL, testRepo, testPath, 5*time.Second, discardLogger())
}

func serveJSON(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/"+testRepo+"/commits", r.URL.Path)
		assert.Equal(t, testPath, r.URL.Query().Get("path"))
		assert.Equal(t, "1", r.URL.Query().Get("per_page"))
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		w.Header().Set(headerContentType, contentTypeJSON)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_LatestCommit_Success(t *testing.T) {
	srv := serveJSON(t, http.StatusOK, `[{
		"sha": "abc1234def5678",
		"html_url": "https://github.com/example/brewmap/commit/abc1234def5678",
		"commit": {
			"author": {"date": "2025-01-01T08:00:00Z"},
			"committer": {"date": "2025-01-02T09:30:00Z"}
		}
	}]`)

	info, err := testClient(srv.URL).LatestCommit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, time.January, 2, 9, 30, 0, 0, time.UTC), info.CommittedAt)
	assert.Equal(t, "abc1234", info.ShortSHA)
	assert.Equal(t, "https://github.com/example/brewmap/commit/abc1234def5678", info.URL)
}

func TestClient_LatestCommit_Fallbacks(t *testing.T) {
	srv := serveJSON(t, http.StatusOK, `[{
		"sha": "abc",
		"commit": {"author": {"date": "2025-01-01T08:00:00Z"}, "committer": {}}
	}]`)

	info, err := testClient(srv.URL).LatestCommit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, time.January, 1, 8, 0, 0, 0, time.UTC), info.CommittedAt, "author date when committer is missing")
	assert.Equal(t, "abc", info.ShortSHA)
	assert.Equal(t, "https://github.com/example/brewmap/commits/main/data/na_breweries_combined.csv", info.URL)
}

func TestClient_LatestCommit_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"empty history", http.StatusOK, `[]`, "no commit found"},
		{"rate limited", http.StatusForbidden, `{"message":"API rate limit exceeded"}`, "status 403"},
		{"bad date", http.StatusOK, `[{"sha":"abc","commit":{"committer":{"date":"yesterday"}}}]`, "parse commit date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serveJSON(t, tt.status, tt.body)

			_, err := testClient(srv.URL).LatestCommit(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestClient_LatestCommit_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := testClient(url).LatestCommit(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commits request")
}
