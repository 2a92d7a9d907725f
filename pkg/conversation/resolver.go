package conversation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"resume-assistant-be/internal/dto"
	"resume-assistant-be/internal/entity"
	"resume-assistant-be/internal/pkg/serverutils"
	"resume-assistant-be/pkg/rag/history"
	"resume-assistant-be/pkg/rag/intent"
)

// LocalResolver answers in-process with the keyword rules. Latency simulates
// a network round trip for offline sessions and tests.
type LocalResolver struct {
	Resolver *intent.Resolver
	Latency  time.Duration
}

func NewLocalResolver(latency time.Duration) *LocalResolver {
	return &LocalResolver{Resolver: intent.NewResolver(), Latency: latency}
}

func (r *LocalResolver) Resolve(ctx context.Context, message string, turns []entity.ConversationTurn) (*intent.Resolution, error) {
	if r.Latency > 0 {
		timer := time.NewTimer(r.Latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	resolver := r.Resolver
	if resolver == nil {
		resolver = intent.NewResolver()
	}
	return resolver.Resolve(message, turns), nil
}

// RemoteResolver posts each exchange to the server's /chat endpoint.
type RemoteResolver struct {
	baseURL string
	client  *http.Client

	mu          sync.RWMutex
	candidateId string
}

func NewRemoteResolver(baseURL, candidateId string, client *http.Client) *RemoteResolver {
	if client == nil {
		client = &http.Client{}
	}
	return &RemoteResolver{
		baseURL:     strings.TrimRight(baseURL, "/"),
		candidateId: candidateId,
		client:      client,
	}
}

// Bind points subsequent requests at another candidate.
func (r *RemoteResolver) Bind(candidateId string) {
	r.mu.Lock()
	r.candidateId = candidateId
	r.mu.Unlock()
}

// Resolve sends only the most recent turns; the server never reads further back.
func (r *RemoteResolver) Resolve(ctx context.Context, message string, turns []entity.ConversationTurn) (*intent.Resolution, error) {
	const op = "POST /chat"

	recent := history.Window(turns, history.DefaultWindow)
	wire := make([]dto.ChatTurnDTO, 0, len(recent))
	for _, t := range recent {
		wire = append(wire, dto.ChatTurnDTO{Role: t.Role, Content: t.Content})
	}
	r.mu.RLock()
	candidateId := r.candidateId
	r.mu.RUnlock()

	body, err := json.Marshal(dto.ChatRequest{
		Message:     message,
		History:     wire,
		CandidateId: candidateId,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return nil, &serverutils.TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &serverutils.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &serverutils.TransportError{Op: op, StatusCode: resp.StatusCode}
	}

	var out dto.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &serverutils.TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}

	res := &intent.Resolution{Reply: out.Reply, Citations: out.Sources}
	if len(out.Sources) > 0 {
		res.Category = out.Sources[0]
	}
	return res, nil
}
