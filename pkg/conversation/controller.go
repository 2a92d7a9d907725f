package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"resume-assistant-be/internal/constant"
	"resume-assistant-be/internal/entity"
	"resume-assistant-be/pkg/rag/intent"
)

// DefaultTimeout bounds a single exchange unless overridden with WithTimeout.
const DefaultTimeout = 30 * time.Second

var (
	ErrEmptyMessage = errors.New("conversation: message is empty")
	ErrBusy         = errors.New("conversation: an exchange is already in flight")
	errEmptyReply   = errors.New("conversation: resolver returned an empty reply")
)

type State int

const (
	StateIdle State = iota
	StateAwaitingReply
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateAwaitingReply:
		return "AwaitingReply"
	default:
		return "Unknown"
	}
}

// Resolver answers one message. LocalResolver and RemoteResolver satisfy it.
type Resolver interface {
	Resolve(ctx context.Context, message string, history []entity.ConversationTurn) (*intent.Resolution, error)
}

// Exchange describes the assistant side of a completed Submit.
type Exchange struct {
	Reply     entity.ConversationTurn
	Citations []string
	Failed    bool
}

type Option func(*Controller)

// WithTimeout bounds each exchange. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// WithErrorHandler observes resolver failures before they become the fallback turn.
func WithErrorHandler(fn func(error)) Option {
	return func(c *Controller) { c.onError = fn }
}

// Controller serializes exchanges for one candidate session:
// Idle -> AwaitingReply -> Idle, with failures also landing back in Idle.
type Controller struct {
	mu       sync.Mutex
	state    State
	input    string
	store    *Store
	resolver Resolver
	timeout  time.Duration
	onError  func(error)
}

func NewController(session entity.CandidateSession, resolver Resolver, opts ...Option) *Controller {
	c := &Controller{
		state:    StateIdle,
		store:    NewStore(session),
		resolver: resolver,
		timeout:  DefaultTimeout,
		onError:  func(error) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Session() entity.CandidateSession { return c.store.Session() }

func (c *Controller) Transcript() []entity.ConversationTurn { return c.store.Turns() }

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy reports whether an exchange is in flight.
func (c *Controller) Busy() bool { return c.State() == StateAwaitingReply }

func (c *Controller) SetInput(text string) {
	c.mu.Lock()
	c.input = text
	c.mu.Unlock()
}

func (c *Controller) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// CanSubmit gates the submit affordance: idle and with non-blank pending input.
func (c *Controller) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateIdle && strings.TrimSpace(c.input) != ""
}

// Reset binds the controller to a freshly uploaded candidate.
func (c *Controller) Reset(session entity.CandidateSession) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateAwaitingReply {
		return ErrBusy
	}
	c.store.Replace(session)
	c.input = ""
	return nil
}

// SubmitInput submits the pending input.
func (c *Controller) SubmitInput(ctx context.Context) (*Exchange, error) {
	return c.Submit(ctx, c.Input())
}

// Submit runs one exchange. Blank messages and submissions made while another
// exchange is in flight are rejected without touching the transcript. Resolver
// failures are absorbed into a fixed fallback reply and are not retried.
func (c *Controller) Submit(ctx context.Context, message string) (*Exchange, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	c.mu.Lock()
	if c.state == StateAwaitingReply {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	prior := c.store.Turns()
	c.store.Append(entity.ConversationTurn{Role: constant.ChatMessageRoleUser, Content: message})
	c.input = ""
	c.state = StateAwaitingReply
	c.mu.Unlock()

	exchange := c.resolve(ctx, message, prior)

	c.mu.Lock()
	c.store.Append(exchange.Reply)
	c.state = StateIdle
	c.mu.Unlock()

	return exchange, nil
}

// resolve never panics: a panicking resolver is treated like any other
// failure so the controller always returns to Idle.
func (c *Controller) resolve(ctx context.Context, message string, prior []entity.ConversationTurn) (exchange *Exchange) {
	defer func() {
		if r := recover(); r != nil {
			exchange = c.fail(fmt.Errorf("conversation: resolver panicked: %v", r))
		}
	}()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	res, err := c.resolver.Resolve(ctx, message, prior)
	if err == nil && (res == nil || strings.TrimSpace(res.Reply) == "") {
		err = errEmptyReply
	}
	if err != nil {
		return c.fail(err)
	}

	return &Exchange{
		Reply:     entity.ConversationTurn{Role: constant.ChatMessageRoleAssistant, Content: res.Reply},
		Citations: res.Citations,
	}
}

func (c *Controller) fail(err error) *Exchange {
	c.onError(err)
	return &Exchange{
		Reply:  entity.ConversationTurn{Role: constant.ChatMessageRoleAssistant, Content: constant.ChatFallbackReply},
		Failed: true,
	}
}
