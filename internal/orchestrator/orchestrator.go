package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"vaultagent/internal/dispatch"
	"vaultagent/internal/llm"
	"vaultagent/internal/memory"
	"vaultagent/internal/models"
	"vaultagent/internal/observability"
)

// Canned responses. LLM infrastructure failures terminate the loop with one
// of these and never write an assistant turn to memory.
const (
	MsgMemoryCleared  = "Conversation memory cleared. Let's start fresh!"
	msgUnauthorized   = "The AI service rejected this agent's credentials. Please check the service configuration."
	msgForbidden      = "The AI service refused the request. This agent may not have access to the configured model."
	msgRateLimited    = "The AI service is receiving too many requests. Please try again in a moment."
	msgLLMUnavailable = "The AI service is currently unavailable. Please try again later."
)

// Completer is the two-stage chat interface the orchestrator drives.
type Completer interface {
	Complete(ctx context.Context, stage string, messages []openai.ChatCompletionMessage, tools []openai.Tool) (openai.ChatCompletionMessage, error)
}

// ToolDispatcher executes one tool invocation, never failing outright.
type ToolDispatcher interface {
	Dispatch(ctx context.Context, inv dispatch.Invocation) dispatch.Result
}

// ToolLister exposes the catalog for the stage-1 request.
type ToolLister interface {
	Tools() []openai.Tool
}

// Orchestrator runs the query control loop: read memory, ask the model to
// select tools, execute them, ask again for a synthesis, persist the answer.
// It never lets an internal fault escape to the transport; every outcome is
// a string response.
type Orchestrator struct {
	llm      Completer
	tools    ToolLister
	dispatch ToolDispatcher
	memory   *memory.Store
	window   int
	log      zerolog.Logger
}

// New wires an orchestrator. window caps how many history messages are read
// as context for each query.
func New(completer Completer, tools ToolLister, dispatcher ToolDispatcher, store *memory.Store, window int, log zerolog.Logger) *Orchestrator {
	if window <= 0 {
		window = 10
	}
	return &Orchestrator{
		llm:      completer,
		tools:    tools,
		dispatch: dispatcher,
		memory:   store,
		window:   window,
		log:      log,
	}
}

// ClearMemory drops the session's history, reporting whether any existed.
// Reachable both through the in-band command and the REST clear endpoint.
func (o *Orchestrator) ClearMemory(sessionID string) bool {
	return o.memory.Clear(sessionID)
}

// ProcessQuery answers one user query for the session. principal may be
// empty for anonymous queries.
func (o *Orchestrator) ProcessQuery(ctx context.Context, query, sessionID, principal string) (response string) {
	started := time.Now()
	outcome := "answer"
	defer func() {
		if r := recover(); r != nil {
			o.log.Error().Interface("panic", r).Str("session_id", sessionID).Msg("query processing panicked")
			response = fmt.Sprintf("An error occurred while processing your request: %v", r)
			outcome = "internal_error"
		}
		observability.RecordQuery(outcome, time.Since(started))
	}()

	if ParseCommand(query) == CommandClearMemory {
		o.memory.Clear(sessionID)
		o.log.Info().Str("session_id", sessionID).Msg("memory cleared by command")
		outcome = "command"
		return MsgMemoryCleared
	}

	history := o.memory.History(sessionID, o.window)

	// The user's turn is durable even if the LLM call fails below.
	o.memory.Append(sessionID, models.RoleUser, query)

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: buildSystemPrompt(principal),
	})
	messages = append(messages, historyMessages(history)...)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: query,
	})

	first, err := o.llm.Complete(ctx, llm.StageSelect, messages, o.tools.Tools())
	if err != nil {
		outcome = "llm_error"
		return llmFailureMessage(err)
	}

	if len(first.ToolCalls) == 0 {
		o.memory.Append(sessionID, models.RoleAssistant, first.Content)
		return first.Content
	}

	messages = append(messages, first)
	for _, call := range first.ToolCalls {
		result := o.dispatch.Dispatch(ctx, dispatch.Invocation{
			ID:        call.ID,
			Tool:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
		// Tool payloads travel back to the model only; memory keeps just the
		// final synthesized answer.
		messages = append(messages, openai.ChatCompletionMessage{
			Role:       openai.ChatMessageRoleTool,
			Content:    result.Content(),
			ToolCallID: result.ID,
		})
	}

	final, err := o.llm.Complete(ctx, llm.StageSynthesize, messages, nil)
	if err != nil {
		outcome = "llm_error"
		return llmFailureMessage(err)
	}

	o.memory.Append(sessionID, models.RoleAssistant, final.Content)
	outcome = "tool_answer"
	return final.Content
}

// historyMessages converts stored turns for the outgoing request. System
// entries are skipped so the instruction is never duplicated.
func historyMessages(history []models.ConversationMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(history))
	for _, msg := range history {
		var role string
		switch msg.Role {
		case models.RoleUser:
			role = openai.ChatMessageRoleUser
		case models.RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		case models.RoleTool:
			role = openai.ChatMessageRoleTool
		case models.RoleSystem:
			continue
		default:
			role = openai.ChatMessageRoleUser
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: msg.Content})
	}
	return out
}

func llmFailureMessage(err error) string {
	switch {
	case errors.Is(err, llm.ErrUnauthorized):
		return msgUnauthorized
	case errors.Is(err, llm.ErrForbidden):
		return msgForbidden
	case errors.Is(err, llm.ErrRateLimited):
		return msgRateLimited
	default:
		return msgLLMUnavailable
	}
}
