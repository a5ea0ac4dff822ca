package services

import (
	"context"
	"fmt"
	"sync"
)

// MockTextGenerator is a mock implementation of TextGenerator for testing
type MockTextGenerator struct {
	mu        sync.RWMutex
	enabled   bool
	response  string
	err       error
	prompts   []string        // every prompt seen by GenerateText
	chatCalls [][]ChatTurn    // every conversation seen by GenerateChat
	systems   map[string]bool // system instructions seen
}

// NewMockTextGenerator creates an enabled mock that echoes a canned response
func NewMockTextGenerator(response string) *MockTextGenerator {
	return &MockTextGenerator{
		enabled:  true,
		response: response,
		systems:  make(map[string]bool),
	}
}

// SetAsMockForTesting sets this mock as the global generator instance
func (m *MockTextGenerator) SetAsMockForTesting() {
	SetTextGenerator(m)
}

// SetError makes every subsequent call fail with the given error
func (m *MockTextGenerator) SetError(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

// SetEnabled toggles the Enabled flag
func (m *MockTextGenerator) SetEnabled(enabled bool) {
	m.mu.Lock()
	m.enabled = enabled
	m.mu.Unlock()
}

// Enabled reports the configured flag
func (m *MockTextGenerator) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled
}

// GenerateText records the prompt and returns the canned response
func (m *MockTextGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.enabled {
		return "", fmt.Errorf("generative-language service is not configured")
	}
	if m.err != nil {
		return "", m.err
	}
	m.prompts = append(m.prompts, prompt)
	return m.response, nil
}

// GenerateChat records the conversation and returns the canned response
func (m *MockTextGenerator) GenerateChat(ctx context.Context, systemInstruction string, turns []ChatTurn) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.enabled {
		return "", fmt.Errorf("generative-language service is not configured")
	}
	if m.err != nil {
		return "", m.err
	}
	copied := make([]ChatTurn, len(turns))
	copy(copied, turns)
	m.chatCalls = append(m.chatCalls, copied)
	m.systems[systemInstruction] = true
	return m.response, nil
}

// Prompts returns a copy of every prompt seen so far
func (m *MockTextGenerator) Prompts() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

// LastPrompt returns the most recent prompt, or "" when none were sent
func (m *MockTextGenerator) LastPrompt() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

// ChatCalls returns a copy of every conversation seen so far
func (m *MockTextGenerator) ChatCalls() [][]ChatTurn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([][]ChatTurn, len(m.chatCalls))
	copy(out, m.chatCalls)
	return out
}

// SawSystemInstruction reports whether the given system instruction was used
func (m *MockTextGenerator) SawSystemInstruction(instruction string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.systems[instruction]
}
