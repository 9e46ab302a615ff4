package llm

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"vaultagent/internal/config"
)

type fakeAPI struct {
	lastReq openai.ChatCompletionRequest
	resp    openai.ChatCompletionResponse
	err     error
}

func (f *fakeAPI) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.lastReq = req
	return f.resp, f.err
}

func newTestClient(api *fakeAPI) *Client {
	return NewClientWithAPI(api, config.LLMConfig{
		Model:       "asi1-mini",
		Temperature: 0.7,
		MaxTokens:   1024,
	}, zerolog.Nop())
}

func TestCompleteBuildsRequest(t *testing.T) {
	api := &fakeAPI{resp: openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "hi"},
		}},
	}}
	client := newTestClient(api)

	tools := []openai.Tool{{Type: openai.ToolTypeFunction, Function: &openai.FunctionDefinition{Name: "get_vault_info"}}}
	msg, err := client.Complete(context.Background(), StageSelect,
		[]openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: "hello"}}, tools)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Content != "hi" {
		t.Fatalf("unexpected content: %q", msg.Content)
	}
	if api.lastReq.Model != "asi1-mini" {
		t.Fatalf("unexpected model: %s", api.lastReq.Model)
	}
	if api.lastReq.Temperature != 0.7 || api.lastReq.MaxTokens != 1024 {
		t.Fatalf("unexpected sampling params: %v %v", api.lastReq.Temperature, api.lastReq.MaxTokens)
	}
	if len(api.lastReq.Tools) != 1 {
		t.Fatalf("tools not forwarded: %v", api.lastReq.Tools)
	}
}

func TestCompleteOmitsEmptyToolList(t *testing.T) {
	api := &fakeAPI{resp: openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: "done"}}},
	}}
	client := newTestClient(api)

	if _, err := client.Complete(context.Background(), StageSynthesize, nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if api.lastReq.Tools != nil {
		t.Fatalf("expected no tools in synthesis request, got %v", api.lastReq.Tools)
	}
}

func TestCompleteClassifiesStatusCodes(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusTooManyRequests, ErrRateLimited},
	}
	for _, tc := range cases {
		api := &fakeAPI{err: &openai.APIError{HTTPStatusCode: tc.status, Message: "nope"}}
		client := newTestClient(api)

		_, err := client.Complete(context.Background(), StageSelect, nil, nil)
		if !errors.Is(err, tc.want) {
			t.Fatalf("status %d: expected %v, got %v", tc.status, tc.want, err)
		}
	}
}

func TestCompleteGenericFailure(t *testing.T) {
	api := &fakeAPI{err: &openai.APIError{HTTPStatusCode: http.StatusBadGateway, Message: "bad gateway"}}
	client := newTestClient(api)

	_, err := client.Complete(context.Background(), StageSelect, nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	for _, sentinel := range []error{ErrUnauthorized, ErrForbidden, ErrRateLimited} {
		if errors.Is(err, sentinel) {
			t.Fatalf("502 must not map to %v", sentinel)
		}
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	api := &fakeAPI{resp: openai.ChatCompletionResponse{}}
	client := newTestClient(api)

	if _, err := client.Complete(context.Background(), StageSelect, nil, nil); err == nil {
		t.Fatal("expected error for empty choices")
	}
}
