package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	TypeCandidateUploaded = "candidate.uploaded"
	TypeCandidateParsed   = "candidate.parsed"
	TypeChatReplied       = "chat.replied"
	TypeProjectAdded      = "candidate.project_added"
	TypeGithubFetched     = "candidate.github_fetched"
)

// Event defines the contract for all domain events.
type Event interface {
	// EventId is unique per occurrence and doubles as the dedupe key on the bus.
	EventId() string
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

// Publisher sends events to whatever bus is configured.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close()
}

type BaseEvent struct {
	Id         uuid.UUID
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		Id:         uuid.New(),
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}
}

func (e BaseEvent) EventId() string {
	return e.Id.String()
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func CandidateUploaded(candidateId, candidateName, fileName string) BaseEvent {
	return New(TypeCandidateUploaded, map[string]interface{}{
		"candidate_id":   candidateId,
		"candidate_name": candidateName,
		"file_name":      fileName,
	})
}

func CandidateParsed(candidateId, status, failureReason string) BaseEvent {
	data := map[string]interface{}{
		"candidate_id": candidateId,
		"status":       status,
	}
	if failureReason != "" {
		data["failure_reason"] = failureReason
	}
	return New(TypeCandidateParsed, data)
}

func ChatReplied(candidateId, category string, historyTurns int) BaseEvent {
	return New(TypeChatReplied, map[string]interface{}{
		"candidate_id":  candidateId,
		"category":      category,
		"history_turns": historyTurns,
	})
}

func ProjectAdded(candidateId string, projectId uuid.UUID, name string) BaseEvent {
	return New(TypeProjectAdded, map[string]interface{}{
		"candidate_id": candidateId,
		"project_id":   projectId.String(),
		"name":         name,
	})
}

func GithubFetched(candidateId, username string, repoCount int) BaseEvent {
	return New(TypeGithubFetched, map[string]interface{}{
		"candidate_id": candidateId,
		"username":     username,
		"repos_count":  repoCount,
	})
}

// NopPublisher drops every event. Used when no bus is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() {}

// Recorder keeps published events in memory for tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
	return nil
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *Recorder) Close() {}

// Types lists the recorded event types in publish order.
func (r *Recorder) Types() []string {
	recorded := r.Events()
	types := make([]string, len(recorded))
	for i, e := range recorded {
		types[i] = e.EventType()
	}
	return types
}
