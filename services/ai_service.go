package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"sargassum-ops-api/config"
)

const chatSystemPrompt = "You are an assistant helping Vincy GreenRoots plan sargassum operations. " +
	"You help with beach cleanup scheduling, campaign management, task coordination, " +
	"and provide advice on sargassum management best practices."

const stubChatResponse = "This is a stub AI response because OPENAI_API_KEY is not set."

// AIService proxies chat messages to the OpenAI chat-completions API,
// falling back to a fixed offline response when no key is configured.
// Upstream failures come back in the response text rather than as
// errors, matching the assistant's best-effort role.
type AIService struct {
	cfg    config.OpenAIConfig
	client *http.Client
}

func NewAIService(cfg config.OpenAIConfig) *AIService {
	return &AIService{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type ChatResult struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversation_id"`
}

func (s *AIService) Chat(ctx context.Context, message, conversationID string) ChatResult {
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	if s.cfg.APIKey == "" {
		return ChatResult{Response: stubChatResponse, ConversationID: conversationID}
	}

	reply, err := s.complete(ctx, message)
	if err != nil {
		return ChatResult{
			Response:       fmt.Sprintf("Error calling OpenAI API: %v", err),
			ConversationID: conversationID,
		}
	}
	return ChatResult{Response: reply, ConversationID: conversationID}
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (s *AIService) complete(ctx context.Context, message string) (string, error) {
	body, err := json.Marshal(chatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: chatSystemPrompt},
			{Role: "user", Content: message},
		},
		MaxTokens:   1000,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("openai: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai: empty response (status %d)", resp.StatusCode)
	}
	return parsed.Choices[0].Message.Content, nil
}
