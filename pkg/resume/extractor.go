package resume

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"resume-assistant-be/internal/entity"
)

// Extractor turns resume bytes into structured facts.
type Extractor interface {
	Extract(ctx context.Context, fileName string, content []byte) (*entity.ResumeFacts, error)
}

// NoopExtractor is used when no extraction service is configured.
// It accepts every document and reports no facts.
type NoopExtractor struct{}

func (NoopExtractor) Extract(context.Context, string, []byte) (*entity.ResumeFacts, error) {
	return &entity.ResumeFacts{}, nil
}

// HTTPExtractor posts the PDF to an extraction service that answers with
// facts as JSON.
type HTTPExtractor struct {
	URL    string
	Client *http.Client
}

var _ Extractor = &HTTPExtractor{}

func NewHTTPExtractor(url string, timeout time.Duration) *HTTPExtractor {
	return &HTTPExtractor{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

func (e *HTTPExtractor) Extract(ctx context.Context, fileName string, content []byte) (*entity.ResumeFacts, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.URL, bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/pdf")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-File-Name", fileName)

	resp, err := e.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extractor request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("extractor error: status %d, body: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var facts entity.ResumeFacts
	if err := json.NewDecoder(resp.Body).Decode(&facts); err != nil {
		return nil, fmt.Errorf("decode facts: %w", err)
	}
	return &facts, nil
}
