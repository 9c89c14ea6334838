package candidates

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/ymori/visafaq/internal/domain/generation"
	"github.com/ymori/visafaq/internal/infra/llm/chatgpt"
	"github.com/ymori/visafaq/pkg/metrics"
)

const systemPrompt = "あなたは米国ビザ申請に精通したFAQ作成アシスタントです。指示されたJSON形式のみで出力してください。"

// ChatClient is the slice of the ChatGPT client the source needs.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

// ChatGPTSource produces FAQ candidates via the ChatGPT API. Any failure
// (transport, empty response, unparseable JSON) falls back to the rule-based
// source so a generation run degrades instead of aborting.
type ChatGPTSource struct {
	client      ChatClient
	temperature float32
	fallback    generation.CandidateSource
	logger      *slog.Logger
}

// NewChatGPTSource constructs the source. fallback may be nil to disable
// degradation.
func NewChatGPTSource(client ChatClient, temperature float32, fallback generation.CandidateSource, logger *slog.Logger) *ChatGPTSource {
	return &ChatGPTSource{
		client:      client,
		temperature: temperature,
		fallback:    fallback,
		logger:      logger.With("component", "candidates.chatgpt"),
	}
}

func (s *ChatGPTSource) Next(ctx context.Context, input generation.Input) (generation.Candidate, metrics.TokenUsage, error) {
	candidate, usage, err := s.generate(ctx, input)
	if err == nil {
		return candidate, usage, nil
	}
	if ctx.Err() != nil || s.fallback == nil {
		return generation.Candidate{}, usage, err
	}
	s.logger.Warn("chatgpt candidate failed, using rule-based fallback", "error", err)
	candidate, fallbackUsage, err := s.fallback.Next(ctx, input)
	usage.Add(fallbackUsage)
	return candidate, usage, err
}

func (s *ChatGPTSource) generate(ctx context.Context, input generation.Input) (generation.Candidate, metrics.TokenUsage, error) {
	resp, err := s.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Messages: []chatgpt.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: input.Prompt},
		},
		Temperature: s.temperature,
	})
	usage := metrics.TokenUsage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	if err != nil {
		return generation.Candidate{}, usage, err
	}
	if len(resp.Choices) == 0 {
		return generation.Candidate{}, usage, errors.New("chatgpt returned no choices")
	}
	candidate, err := parseCandidate(resp.Choices[0].Message.Content)
	if err != nil {
		return generation.Candidate{}, usage, err
	}
	return candidate, usage, nil
}

// parseCandidate extracts the outermost JSON object from the model output.
// Models routinely wrap the object in prose or a markdown fence.
func parseCandidate(content string) (generation.Candidate, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end <= start {
		return generation.Candidate{}, errors.New("no JSON object in llm output")
	}
	var candidate generation.Candidate
	if err := json.Unmarshal([]byte(content[start:end+1]), &candidate); err != nil {
		return generation.Candidate{}, err
	}
	if strings.TrimSpace(candidate.Question) == "" || strings.TrimSpace(candidate.Answer) == "" {
		return generation.Candidate{}, errors.New("llm output missing question or answer")
	}
	return candidate, nil
}

var _ generation.CandidateSource = (*ChatGPTSource)(nil)
