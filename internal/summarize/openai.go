package summarize

import (
	"context"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = "gpt-4o-mini"

const summarySystemPrompt = "You are a security log analyst. You condense raw " +
	"log content into a short plain-text digest: what the system was doing, " +
	"which errors and warnings occurred, and anything that looks suspicious. " +
	"No markdown, no bullet points."

// OpenAI is an abstractive summarization capability backed by a chat
// completion model. The client is created once and is safe for concurrent
// calls.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates the capability. model may be empty to use the default.
func NewOpenAI(apiKey, model string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("summarize: OpenAI API key not set")
	}
	if model == "" {
		model = defaultOpenAIModel
		slog.Debug("summarize: no OpenAI model configured, using default", "model", model)
	}
	return &OpenAI{client: openai.NewClient(apiKey), model: model}, nil
}

// Summarize requests a digest bounded to [minWords, maxWords] words.
func (o *OpenAI) Summarize(ctx context.Context, text string, minWords, maxWords int) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summarySystemPrompt},
			{
				Role: openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Summarize the following log content in %d to %d words:\n\n%s",
					minWords, maxWords, text),
			},
		},
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("summarize: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("summarize: model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
