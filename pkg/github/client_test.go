package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGithubServer(t *testing.T, repoCount int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var readmeCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat/repos", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "updated", r.URL.Query().Get("sort"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		repos := make([]string, repoCount)
		for i := range repos {
			repos[i] = fmt.Sprintf(`{"name":"repo-%d","description":"desc %d","language":"Go","stargazers_count":%d,"forks_count":1,"html_url":"https://github.com/octocat/repo-%d","updated_at":"2024-05-01T10:00:00Z"}`, i, i, i, i)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, "[%s]", strings.Join(repos, ","))
	})
	mux.HandleFunc("/repos/octocat/", func(w http.ResponseWriter, r *http.Request) {
		readmeCalls.Add(1)
		assert.Equal(t, "application/vnd.github.raw", r.Header.Get("Accept"))
		switch {
		case strings.HasPrefix(r.URL.Path, "/repos/octocat/repo-0/"):
			fmt.Fprint(w, strings.Repeat("a", MaxReadmeBytes+500))
		case strings.HasPrefix(r.URL.Path, "/repos/octocat/repo-1/"):
			w.WriteHeader(http.StatusNotFound)
		default:
			fmt.Fprintf(w, "# %s", strings.Split(r.URL.Path, "/")[3])
		}
	})
	mux.HandleFunc("/users/ghost/repos", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &readmeCalls
}

func TestFetchRepositories(t *testing.T) {
	srv, readmeCalls := newGithubServer(t, 3)
	c := NewClient(srv.URL, "secret", time.Second)

	repos, err := c.FetchRepositories(context.Background(), "octocat")
	require.NoError(t, err)
	require.Len(t, repos, 3)
	assert.EqualValues(t, 3, readmeCalls.Load())

	assert.Equal(t, "repo-0", repos[0].Name)
	assert.Len(t, repos[0].Readme, MaxReadmeBytes)
	assert.Equal(t, "desc 1", repos[1].Readme, "falls back to the description")
	assert.Equal(t, "# repo-2", repos[2].Readme)
	assert.Equal(t, 2, repos[2].Stars)
	require.NotNil(t, repos[2].UpdatedAt)
	assert.Equal(t, 2024, repos[2].UpdatedAt.Year())
}

func TestFetchRepositoriesCapsAtTen(t *testing.T) {
	srv, readmeCalls := newGithubServer(t, 14)
	c := NewClient(srv.URL, "secret", time.Second)

	repos, err := c.FetchRepositories(context.Background(), "octocat")
	require.NoError(t, err)
	assert.Len(t, repos, MaxRepositories)
	assert.EqualValues(t, MaxRepositories, readmeCalls.Load())
	assert.Equal(t, "repo-9", repos[9].Name)
}

func TestFetchRepositoriesErrors(t *testing.T) {
	srv, _ := newGithubServer(t, 0)
	c := NewClient(srv.URL, "", time.Second)

	tests := []struct {
		name     string
		username string
		want     error
	}{
		{"unknown user", "ghost", ErrUserNotFound},
		{"path injection", "octocat/../admin", ErrInvalidUsername},
		{"empty", "", ErrInvalidUsername},
		{"trailing hyphen", "octocat-", ErrInvalidUsername},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.FetchRepositories(context.Background(), tt.username)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFetchRepositoriesUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "", time.Second).FetchRepositories(context.Background(), "octocat")
	assert.ErrorContains(t, err, "status 403")
}
