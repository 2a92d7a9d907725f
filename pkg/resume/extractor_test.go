package resume

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPExtractor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "%PDF-1.7", string(body))
		assert.Equal(t, "application/pdf", r.Header.Get("Content-Type"))
		assert.Equal(t, "cv.pdf", r.Header.Get("X-File-Name"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"name":"Ada Lovelace","skills":["Go","Postgres"]}`)
	}))
	defer srv.Close()

	facts, err := NewHTTPExtractor(srv.URL, time.Second).Extract(context.Background(), "cv.pdf", []byte("%PDF-1.7"))
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", facts.Name)
	assert.Equal(t, []string{"Go", "Postgres"}, facts.Skills)
}

func TestHTTPExtractorStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "cannot parse", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	_, err := NewHTTPExtractor(srv.URL, time.Second).Extract(context.Background(), "cv.pdf", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 422")
	assert.Contains(t, err.Error(), "cannot parse")
}

func TestNoopExtractor(t *testing.T) {
	facts, err := NoopExtractor{}.Extract(context.Background(), "cv.pdf", nil)
	require.NoError(t, err)
	assert.True(t, facts.IsEmpty())
}
