package candidates

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ymori/visafaq/internal/domain/generation"
	"github.com/ymori/visafaq/internal/infra/llm/chatgpt"
)

type stubChat struct {
	content string
	usage   chatgpt.Usage
	err     error
}

func (s *stubChat) CreateChatCompletion(context.Context, chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
	if s.err != nil {
		return chatgpt.ChatCompletionResponse{}, s.err
	}
	var resp chatgpt.ChatCompletionResponse
	resp.Usage = s.usage
	resp.Choices = append(resp.Choices, struct {
		Message chatgpt.Message `json:"message"`
	}{Message: chatgpt.Message{Role: "assistant", Content: s.content}})
	return resp, nil
}

func TestParseCandidate(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantQ   string
		wantErr bool
	}{
		{
			name:    "bare object",
			content: `{"question": "Q", "answer": "A", "keywords": "k", "category": "c"}`,
			wantQ:   "Q",
		},
		{
			name:    "markdown fence",
			content: "以下が結果です:\n```json\n{\"question\": \"Q2\", \"answer\": \"A2\"}\n```\nご確認ください。",
			wantQ:   "Q2",
		},
		{
			name:    "no object",
			content: "すみません、生成できませんでした。",
			wantErr: true,
		},
		{
			name:    "missing answer",
			content: `{"question": "Q"}`,
			wantErr: true,
		},
	}
	for _, tc := range cases {
		candidate, err := parseCandidate(tc.content)
		if tc.wantErr {
			require.Error(t, err, tc.name)
			continue
		}
		require.NoError(t, err, tc.name)
		require.Equal(t, tc.wantQ, candidate.Question, tc.name)
	}
}

func TestChatGPTSourceUsage(t *testing.T) {
	stub := &stubChat{
		content: `{"question": "Q", "answer": "A"}`,
		usage:   chatgpt.Usage{PromptTokens: 50, CompletionTokens: 10, TotalTokens: 60},
	}
	source := NewChatGPTSource(stub, 0.7, nil, slog.Default())

	candidate, usage, err := source.Next(context.Background(), generation.Input{Prompt: "p"})
	require.NoError(t, err)
	require.Equal(t, "Q", candidate.Question)
	require.Equal(t, 60, usage.TotalTokens)
}

func TestChatGPTSourceFallsBack(t *testing.T) {
	stub := &stubChat{err: errors.New("api down")}
	source := NewChatGPTSource(stub, 0.7, NewRuleBasedSource(), slog.Default())

	candidate, _, err := source.Next(context.Background(), generation.Input{Prompt: "p", Attempt: 1})
	require.NoError(t, err)
	require.NotEmpty(t, candidate.Question)
	require.NotEmpty(t, candidate.Answer)
}

func TestChatGPTSourceNoFallback(t *testing.T) {
	stub := &stubChat{err: errors.New("api down")}
	source := NewChatGPTSource(stub, 0.7, nil, slog.Default())

	_, _, err := source.Next(context.Background(), generation.Input{Prompt: "p"})
	require.Error(t, err)
}

func TestRuleBasedSourceCyclesCatalog(t *testing.T) {
	source := NewRuleBasedSource()
	seen := map[string]bool{}
	for attempt := 1; attempt <= len(ruleCatalog); attempt++ {
		candidate, _, err := source.Next(context.Background(), generation.Input{Prompt: "既存の質問: なし", Attempt: attempt})
		require.NoError(t, err)
		seen[candidate.Question] = true
	}
	require.Len(t, seen, len(ruleCatalog))
}

func TestRuleBasedSourceImprovementTrigger(t *testing.T) {
	source := NewRuleBasedSource()
	prompt := "以下の質問に対して既存の回答では顧客が満足しませんでした。\n顧客の質問: I-94はどこで確認できますか？"
	candidate, _, err := source.Next(context.Background(), generation.Input{Prompt: prompt, Attempt: 1})
	require.NoError(t, err)
	require.Contains(t, candidate.Question, "I-94")
}
