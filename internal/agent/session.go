package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cloudwego/eino/schema"

	"github.com/taskhub-ai/taskhub/internal/logging"
	"github.com/taskhub-ai/taskhub/internal/provider"
	"github.com/taskhub-ai/taskhub/internal/tool"
)

const (
	// MaxSteps is the maximum number of tool-calling loop iterations per message.
	MaxSteps = 10
	// MaxRetries is the maximum number of retries for model API errors.
	MaxRetries = 3
	// DefaultMaxTokens bounds a single completion.
	DefaultMaxTokens = 4096
)

// Retry intervals for exponential backoff. Variables so tests can shrink them.
var (
	retryInitialInterval = time.Second
	retryMaxInterval     = 15 * time.Second
)

// Fixed replies. The chat surface always answers with plain text, so every
// failure class maps to one of these or to an "Error processing message"
// string carrying the upstream error text.
const (
	NotInitializedMessage = "Error: Agent is not initialized"
	CouldNotProcessReply  = "I'm sorry, I couldn't process your request. Please try again."
	NoContentReply        = "No content returned from agent."
)

// Instructions is the system prompt given to every session's agent.
const Instructions = "You are an agent that manages tasks using CRUD operations. " +
	"Use the task functions to create, read, update, and delete tasks. " +
	"Always call the appropriate function for any task management request. " +
	"Don't try to handle any requests that are not related to task management."

// Session wraps a single conversation with the chat model. A session with a
// nil provider is uninitialized: it never makes an outbound call and always
// answers with NotInitializedMessage. There is no transition from
// uninitialized to ready after construction.
type Session struct {
	id       string
	provider provider.Provider
	tools    *tool.Registry

	// mu serializes ProcessMessage so concurrent calls on one session
	// cannot interleave their read-modify-write of the history.
	mu      sync.Mutex
	history []*schema.Message
}

// NewSession creates a session for the given id. prov may be nil, in which
// case the session is permanently uninitialized.
func NewSession(id string, prov provider.Provider, tools *tool.Registry) *Session {
	s := &Session{
		id:       id,
		provider: prov,
		tools:    tools,
	}
	s.history = []*schema.Message{
		{Role: schema.System, Content: Instructions},
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Ready reports whether the session has a usable agent.
func (s *Session) Ready() bool { return s.provider != nil }

// History returns a copy of the conversation history.
func (s *Session) History() []*schema.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*schema.Message, len(s.history))
	copy(out, s.history)
	return out
}

// ProcessMessage forwards a user message through the tool-calling loop and
// returns the agent's textual reply. It never returns an error: every
// failure is converted to a human-readable string.
func (s *Session) ProcessMessage(ctx context.Context, text string) string {
	if !s.Ready() {
		return NotInitializedMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	messages := make([]*schema.Message, len(s.history), len(s.history)+1)
	copy(messages, s.history)
	messages = append(messages, &schema.Message{Role: schema.User, Content: text})

	var turns []string
	responses := 0
	done := false

	retry := newRetryBackoff(ctx)

	for step := 0; step < MaxSteps; step++ {
		select {
		case <-ctx.Done():
			return "Error processing message: " + ctx.Err().Error()
		default:
		}

		req := &provider.CompletionRequest{
			Messages:  messages,
			Tools:     s.tools.ToolInfos(),
			MaxTokens: DefaultMaxTokens,
		}

		resp, err := s.provider.Generate(ctx, req)
		if err != nil {
			next := retry.NextBackOff()
			if next == backoff.Stop {
				logging.Error().Err(err).Str("session", s.id).Msg("message processing failed")
				return "Error processing message: " + err.Error()
			}
			time.Sleep(next)
			step--
			continue
		}
		retry.Reset()

		if resp == nil {
			break
		}

		responses++
		messages = append(messages, resp)
		if content := strings.TrimSpace(resp.Content); content != "" {
			turns = append(turns, content)
		}

		if len(resp.ToolCalls) == 0 {
			done = true
			break
		}

		for _, tc := range resp.ToolCalls {
			output := s.runTool(ctx, tc)
			messages = append(messages, &schema.Message{
				Role:       schema.Tool,
				Content:    output,
				ToolCallID: tc.ID,
			})
		}
	}

	if !done && responses > 0 {
		logging.Warn().Str("session", s.id).Int("steps", MaxSteps).Msg("tool-calling loop did not converge")
		return "Error processing message: maximum tool steps reached"
	}

	if responses == 0 {
		return CouldNotProcessReply
	}

	// Adopt the post-loop conversation state so tool-call turns and
	// assistant turns persist for the next invocation.
	s.history = messages

	if len(turns) == 0 {
		return NoContentReply
	}
	return strings.Join(turns, "\n\n")
}

// runTool dispatches a single tool call and returns its textual output.
// Failures become text fed back to the model rather than loop errors.
func (s *Session) runTool(ctx context.Context, tc schema.ToolCall) string {
	name := tc.Function.Name

	t, ok := s.tools.Get(name)
	if !ok {
		logging.Warn().Str("session", s.id).Str("tool", name).Msg("model requested unknown tool")
		return fmt.Sprintf("Tool %q not found", name)
	}

	logging.Debug().Str("session", s.id).Str("tool", name).Msg("executing tool call")

	output, err := t.Execute(ctx, json.RawMessage(tc.Function.Arguments))
	if err != nil {
		logging.Error().Err(err).Str("session", s.id).Str("tool", name).Msg("tool execution failed")
		return "Error: " + err.Error()
	}
	return output
}

// newRetryBackoff creates an exponential backoff with jitter for model API
// retries.
func newRetryBackoff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = retryInitialInterval
	b.MaxInterval = retryMaxInterval
	b.RandomizationFactor = 0.5
	b.Multiplier = 2.0
	b.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(b, MaxRetries), ctx)
}
