package llm

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Part is one piece of a request message: plain text, or an inline image
// carried as a data URL.
type Part struct {
	Text     string
	ImageURL string
}

// Request describes a single blocking completion call.
type Request struct {
	Model       string
	Temperature float32
	MaxTokens   int
	Parts       []Part
}

// Client is the generation-service capability. It is constructed once in main
// and passed into every component, so tests can substitute a fake.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

type OpenAIClient struct {
	client *openai.Client
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	message := openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
	}

	if len(req.Parts) == 1 && req.Parts[0].ImageURL == "" {
		message.Content = req.Parts[0].Text
	} else {
		parts := make([]openai.ChatMessagePart, 0, len(req.Parts))
		for _, p := range req.Parts {
			if p.ImageURL != "" {
				parts = append(parts, openai.ChatMessagePart{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL:    p.ImageURL,
						Detail: openai.ImageURLDetailLow,
					},
				})
			} else {
				parts = append(parts, openai.ChatMessagePart{
					Type: openai.ChatMessagePartTypeText,
					Text: p.Text,
				})
			}
		}
		message.MultiContent = parts
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Messages:    []openai.ChatCompletionMessage{message},
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
