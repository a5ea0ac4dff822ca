package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pastelaria-dev/pastelaria-kiosk-api/config"
)

// ChatTurn is a single message in a conversation with the completion
// service. Role is "user" or "model".
type ChatTurn struct {
	Role string
	Text string
}

// TextGenerator is the interface to the hosted generative-language API
type TextGenerator interface {
	// GenerateText sends a single prompt and returns the model's text
	GenerateText(ctx context.Context, prompt string) (string, error)

	// GenerateChat sends a whole conversation, constrained by a system
	// instruction, and returns the model's next reply
	GenerateChat(ctx context.Context, systemInstruction string, turns []ChatTurn) (string, error)

	// Enabled reports whether the service is configured and usable
	Enabled() bool
}

// GenAIService calls the hosted generative-language REST API
type GenAIService struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

var textGeneratorInstance TextGenerator

// InitGenAIService initializes the generative-language client from config
func InitGenAIService(cfg *config.Config) TextGenerator {
	textGeneratorInstance = &GenAIService{
		apiKey:  cfg.GenAIAPIKey,
		model:   cfg.GenAIModel,
		baseURL: strings.TrimSuffix(cfg.GenAIBaseURL, "/"),
		// No client-side timeout: callers bound each request through ctx
		httpClient: &http.Client{},
	}
	return textGeneratorInstance
}

// GetTextGenerator returns the initialized generator instance
func GetTextGenerator() TextGenerator {
	return textGeneratorInstance
}

// SetTextGenerator sets the generator instance (primarily for testing)
func SetTextGenerator(g TextGenerator) {
	textGeneratorInstance = g
}

// Request/response shapes of the generateContent endpoint

type genaiPart struct {
	Text string `json:"text"`
}

type genaiContent struct {
	Role  string      `json:"role,omitempty"`
	Parts []genaiPart `json:"parts"`
}

type genaiRequest struct {
	Contents          []genaiContent `json:"contents"`
	SystemInstruction *genaiContent  `json:"systemInstruction,omitempty"`
}

type genaiResponse struct {
	Candidates []struct {
		Content genaiContent `json:"content"`
	} `json:"candidates"`
}

// Enabled reports whether an API key is configured
func (s *GenAIService) Enabled() bool {
	return s.apiKey != ""
}

// GenerateText sends a single user prompt to the completion service
func (s *GenAIService) GenerateText(ctx context.Context, prompt string) (string, error) {
	return s.generate(ctx, genaiRequest{
		Contents: []genaiContent{
			{Role: "user", Parts: []genaiPart{{Text: prompt}}},
		},
	})
}

// GenerateChat sends a full conversation with a system instruction
func (s *GenAIService) GenerateChat(ctx context.Context, systemInstruction string, turns []ChatTurn) (string, error) {
	req := genaiRequest{}
	if systemInstruction != "" {
		req.SystemInstruction = &genaiContent{Parts: []genaiPart{{Text: systemInstruction}}}
	}
	for _, turn := range turns {
		req.Contents = append(req.Contents, genaiContent{
			Role:  turn.Role,
			Parts: []genaiPart{{Text: turn.Text}},
		})
	}
	return s.generate(ctx, req)
}

// generate posts a generateContent request and extracts the first
// candidate's text
func (s *GenAIService) generate(ctx context.Context, payload genaiRequest) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("generative-language service is not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.baseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call completion service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("completion service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed genaiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}

	text := extractText(parsed)
	if text == "" {
		return "", fmt.Errorf("completion service returned an empty response")
	}
	return text, nil
}

// extractText concatenates the text parts of the first candidate
func extractText(resp genaiResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return strings.TrimSpace(b.String())
}
