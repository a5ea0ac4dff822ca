package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// ChatSystemInstruction constrains the chat widget to Q&A: the assistant
// answers questions but never takes or modifies orders.
const ChatSystemInstruction = "Você é o atendente virtual de uma pastelaria. Responda dúvidas sobre o cardápio, ingredientes e o funcionamento da loja, sempre em português. Você não anota, altera nem cancela pedidos; compras são feitas apenas pelo totem."

// ChatService keeps one conversation per session handle. A session is
// created transparently on first use and recreated whenever the handle is
// unknown, so callers never manage session lifecycle themselves.
type ChatService struct {
	generator TextGenerator

	mu       sync.Mutex
	sessions map[string][]ChatTurn
}

var chatServiceInstance *ChatService

// InitChatService initializes the chat service with the given generator
func InitChatService(generator TextGenerator) *ChatService {
	chatServiceInstance = NewChatService(generator)
	return chatServiceInstance
}

// GetChatService returns the initialized chat service instance
func GetChatService() *ChatService {
	return chatServiceInstance
}

// SetChatService sets the chat service instance (primarily for testing)
func SetChatService(s *ChatService) {
	chatServiceInstance = s
}

// NewChatService creates a new chat service
func NewChatService(generator TextGenerator) *ChatService {
	return &ChatService{
		generator: generator,
		sessions:  make(map[string][]ChatTurn),
	}
}

// SendMessage appends the user message to the session's conversation,
// forwards the whole conversation to the completion service, and records
// the reply. An empty or unknown sessionID starts a fresh conversation;
// the (possibly new) handle is returned alongside the reply.
func (s *ChatService) SendMessage(ctx context.Context, sessionID, message string) (reply string, handle string, err error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	s.mu.Lock()
	history := make([]ChatTurn, len(s.sessions[sessionID]))
	copy(history, s.sessions[sessionID])
	s.mu.Unlock()

	turns := append(history, ChatTurn{Role: "user", Text: message})

	reply, err = s.generator.GenerateChat(ctx, ChatSystemInstruction, turns)
	if err != nil {
		return "", sessionID, err
	}

	s.mu.Lock()
	s.sessions[sessionID] = append(turns, ChatTurn{Role: "model", Text: reply})
	s.mu.Unlock()

	return reply, sessionID, nil
}

// Reset drops a session's conversation. Sending to the same handle
// afterwards starts over.
func (s *ChatService) Reset(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// SessionLength returns how many turns a session holds (for testing)
func (s *ChatService) SessionLength(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions[sessionID])
}
