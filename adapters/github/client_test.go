package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/logger"
)

func newTestFetcher(baseURL, token string, timeout time.Duration) *restClient {
	var cfg config.Config
	cfg.GitHub.BaseURL = baseURL
	cfg.GitHub.Token = token
	cfg.GitHub.Timeout = timeout
	return NewRepoFetcher(cfg, logger.NewNopLogger()).(*restClient)
}

func TestFetchRepos_SendsQueryAndHeaders(t *testing.T) {
	var gotPath, gotAuth, gotAgent string
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"name":"first"},{"id":2,"name":"second"}]`))
	}))
	defer srv.Close()

	f := newTestFetcher(srv.URL+"/", "s3cret", time.Second)
	repos, err := f.FetchRepos(context.Background(), "octocat")

	require.NoError(t, err)
	assert.Equal(t, "/users/octocat/repos", gotPath)
	assert.Equal(t, []string{"5"}, gotQuery["per_page"])
	assert.Equal(t, []string{"created"}, gotQuery["sort"])
	assert.Equal(t, []string{"asc"}, gotQuery["direction"])
	assert.NotContains(t, gotQuery, "client_secret")
	assert.NotContains(t, gotQuery, "client_id")
	assert.Equal(t, "token s3cret", gotAuth)
	assert.Equal(t, userAgent, gotAgent)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(repos, &decoded))
	assert.Len(t, decoded, 2)
	assert.Equal(t, "first", decoded[0]["name"])
}

func TestFetchRepos_NoTokenNoAuthHeader(t *testing.T) {
	var hasAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := newTestFetcher(srv.URL, "", time.Second).FetchRepos(context.Background(), "octocat")

	require.NoError(t, err)
	assert.False(t, hasAuth)
}

func TestFetchRepos_Non200IsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	}))
	defer srv.Close()

	_, err := newTestFetcher(srv.URL, "", time.Second).FetchRepos(context.Background(), "ghost")

	assert.ErrorIs(t, err, apperror.ErrUpstream)
}

func TestFetchRepos_TimeoutIsUpstream(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	_, err := newTestFetcher(srv.URL, "", 50*time.Millisecond).FetchRepos(context.Background(), "slow")

	assert.ErrorIs(t, err, apperror.ErrUpstream)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchRepos_InvalidJSONIsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	_, err := newTestFetcher(srv.URL, "", time.Second).FetchRepos(context.Background(), "octocat")

	assert.ErrorIs(t, err, apperror.ErrUpstream)
}

func TestNewRepoFetcher_Defaults(t *testing.T) {
	f := NewRepoFetcher(config.Config{}, logger.NewNopLogger()).(*restClient)

	assert.Equal(t, defaultBaseURL, f.baseURL)
	assert.Equal(t, defaultTimeout, f.http.Timeout)
}

func TestCacheKey_Lowercases(t *testing.T) {
	assert.Equal(t, "github:repos:octocat", CacheKey("OctoCat"))
}
