package conversation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"resume-assistant-be/internal/constant"
	"resume-assistant-be/internal/entity"
	"resume-assistant-be/pkg/rag/intent"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var testSession = entity.CandidateSession{CandidateId: "candidate_1700000000000_abc123xyz", CandidateName: "Ada"}

type failingResolver struct{ err error }

func (r failingResolver) Resolve(context.Context, string, []entity.ConversationTurn) (*intent.Resolution, error) {
	return nil, r.err
}

type panickingResolver struct{}

func (panickingResolver) Resolve(context.Context, string, []entity.ConversationTurn) (*intent.Resolution, error) {
	var replies map[string]string
	replies["hello"] = "unreachable"
	return nil, nil
}

// blockingResolver parks every call until release is closed.
type blockingResolver struct {
	started chan struct{}
	release chan struct{}
	history []entity.ConversationTurn
}

func newBlockingResolver() *blockingResolver {
	return &blockingResolver{started: make(chan struct{}, 1), release: make(chan struct{})}
}

func (r *blockingResolver) Resolve(ctx context.Context, message string, history []entity.ConversationTurn) (*intent.Resolution, error) {
	r.history = history
	r.started <- struct{}{}
	select {
	case <-r.release:
		return intent.NewResolver().Resolve(message, history), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestSubmitRejectsBlankMessage(t *testing.T) {
	c := NewController(testSession, NewLocalResolver(0))

	for _, msg := range []string{"", "   ", "\n\t"} {
		_, err := c.Submit(context.Background(), msg)
		assert.ErrorIs(t, err, ErrEmptyMessage)
	}
	assert.Empty(t, c.Transcript())
	assert.Equal(t, StateIdle, c.State())
}

func TestSubmitAppendsUserAndAssistantTurns(t *testing.T) {
	c := NewController(testSession, NewLocalResolver(0))

	exchange, err := c.Submit(context.Background(), "Tell me about your projects")
	require.NoError(t, err)
	assert.False(t, exchange.Failed)
	assert.Equal(t, []string{intent.CategoryProjects}, exchange.Citations)

	_, err = c.Submit(context.Background(), "What are your skills?")
	require.NoError(t, err)

	want := []entity.ConversationTurn{
		{Role: constant.ChatMessageRoleUser, Content: "Tell me about your projects"},
		{Role: constant.ChatMessageRoleAssistant, Content: intent.ReplyProjects},
		{Role: constant.ChatMessageRoleUser, Content: "What are your skills?"},
		{Role: constant.ChatMessageRoleAssistant, Content: intent.ReplySkills},
	}
	if diff := cmp.Diff(want, c.Transcript()); diff != "" {
		t.Errorf("transcript mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, c.Busy())
}

func TestSubmitFailureAppendsFallback(t *testing.T) {
	var observed error
	c := NewController(testSession, failingResolver{err: errors.New("connection refused")},
		WithErrorHandler(func(err error) { observed = err }))

	exchange, err := c.Submit(context.Background(), "hello")
	require.NoError(t, err)
	assert.True(t, exchange.Failed)
	assert.EqualError(t, observed, "connection refused")

	want := []entity.ConversationTurn{
		{Role: constant.ChatMessageRoleUser, Content: "hello"},
		{Role: constant.ChatMessageRoleAssistant, Content: constant.ChatFallbackReply},
	}
	if diff := cmp.Diff(want, c.Transcript()); diff != "" {
		t.Errorf("transcript mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, StateIdle, c.State())
}

func TestSubmitRecoversFromResolverPanic(t *testing.T) {
	var observed error
	c := NewController(testSession, panickingResolver{},
		WithErrorHandler(func(err error) { observed = err }))

	exchange, err := c.Submit(context.Background(), "hello")
	require.NoError(t, err)
	assert.True(t, exchange.Failed)
	assert.Equal(t, constant.ChatFallbackReply, exchange.Reply.Content)
	assert.ErrorContains(t, observed, "resolver panicked")
	assert.Equal(t, StateIdle, c.State())
	assert.False(t, c.Busy())

	// The session stays usable after the panic.
	_, err = c.Submit(context.Background(), "again")
	require.NoError(t, err)
	assert.Len(t, c.Transcript(), 4)
	assert.NoError(t, c.Reset(testSession))
}

func TestSubmitWhileBusyIsNoOp(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	resolver := newBlockingResolver()
	c := NewController(testSession, resolver)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := c.Submit(context.Background(), "first")
		assert.NoError(t, err)
	}()

	<-resolver.started
	assert.True(t, c.Busy())
	assert.False(t, c.CanSubmit())

	_, err := c.Submit(context.Background(), "second")
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, c.Reset(testSession), ErrBusy)
	assert.Len(t, c.Transcript(), 1)

	close(resolver.release)
	wg.Wait()

	turns := c.Transcript()
	require.Len(t, turns, 2)
	assert.Equal(t, "first", turns[0].Content)
	assert.False(t, c.Busy())
}

func TestSubmitPassesPriorTurnsOnly(t *testing.T) {
	resolver := newBlockingResolver()
	close(resolver.release)
	c := NewController(testSession, resolver)

	_, err := c.Submit(context.Background(), "one")
	require.NoError(t, err)
	<-resolver.started
	assert.Empty(t, resolver.history)

	_, err = c.Submit(context.Background(), "two")
	require.NoError(t, err)
	<-resolver.started
	assert.Len(t, resolver.history, 2)
}

func TestSubmitTimeoutFallsBack(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	resolver := newBlockingResolver()
	var observed error
	c := NewController(testSession, resolver,
		WithTimeout(20*time.Millisecond),
		WithErrorHandler(func(err error) { observed = err }))

	exchange, err := c.Submit(context.Background(), "slow")
	require.NoError(t, err)
	assert.True(t, exchange.Failed)
	assert.ErrorIs(t, observed, context.DeadlineExceeded)
	assert.Equal(t, constant.ChatFallbackReply, c.Transcript()[1].Content)
}

func TestSubmitInputClearsPendingInput(t *testing.T) {
	c := NewController(testSession, NewLocalResolver(0))
	assert.False(t, c.CanSubmit())

	c.SetInput("How can I contact you?")
	assert.True(t, c.CanSubmit())

	exchange, err := c.SubmitInput(context.Background())
	require.NoError(t, err)
	assert.Equal(t, intent.ReplyContact, exchange.Reply.Content)
	assert.Empty(t, c.Input())
}

func TestResetReplacesSession(t *testing.T) {
	c := NewController(testSession, NewLocalResolver(0))
	_, err := c.Submit(context.Background(), "hi")
	require.NoError(t, err)

	next := entity.CandidateSession{CandidateId: "candidate_1700000000001_zzzzzzzzz", CandidateName: "Grace"}
	require.NoError(t, c.Reset(next))
	assert.Empty(t, c.Transcript())
	assert.Equal(t, next, c.Session())
}

func TestLocalResolverHonoursContext(t *testing.T) {
	r := NewLocalResolver(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Resolve(ctx, "skills", nil)
	assert.ErrorIs(t, err, context.Canceled)
}
