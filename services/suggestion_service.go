package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/pastelaria-dev/pastelaria-kiosk-api/models"
)

// Prompt kinds chosen by the suggestion decision table
const (
	PromptWelcome      = "welcome"
	PromptComplement   = "complement"
	PromptPersonalized = "personalized"
)

// Fixed fallback texts used when the completion service fails or is
// disabled. Suggestions degrade to friendly canned text, never to a
// visible error.
const (
	SuggestionFallback = "Experimente nossos pastéis! O de carne é o queridinho da casa."
	ChefFallback       = "O chef manda um abraço e recomenda o pastel do dia!"
)

// SuggestionService builds prompts from order/cart/menu state and forwards
// them to the completion service. Each call is an independent request; no
// session state is shared between them.
type SuggestionService struct {
	generator TextGenerator
}

// NewSuggestionService creates a new suggestion service
func NewSuggestionService(generator TextGenerator) *SuggestionService {
	return &SuggestionService{generator: generator}
}

// SelectSuggestionPrompt applies the decision table and returns the chosen
// prompt kind together with the prompt text. Pure function of its inputs,
// so tests can assert on the selected category without a network call.
func SelectSuggestionPrompt(history []models.Order, cart []models.OrderItem, menu []models.Product) (kind string, prompt string) {
	switch {
	case len(history) == 0 && len(cart) == 0:
		return PromptWelcome, welcomePrompt(menu)
	case len(history) == 0:
		return PromptComplement, complementPrompt(cart, menu)
	default:
		return PromptPersonalized, personalizedPrompt(history, cart)
	}
}

// Suggest returns upsell text for the current kiosk state, or the fixed
// fallback when the completion service is unavailable
func (s *SuggestionService) Suggest(ctx context.Context, history []models.Order, cart []models.OrderItem, menu []models.Product) string {
	kind, prompt := SelectSuggestionPrompt(history, cart, menu)

	if s.generator == nil {
		return SuggestionFallback
	}
	text, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		log.Printf("Suggestion (%s) fell back to canned text: %v", kind, err)
		return SuggestionFallback
	}
	return text
}

// CartNudge inspects the cart's category coverage and asks the completion
// service to polish a template nudge. Returns the empty string when the
// cart is empty or no nudge applies; on a model failure the raw template is
// returned instead of a fallback message.
func (s *SuggestionService) CartNudge(ctx context.Context, cart []models.OrderItem, menu []models.Product) string {
	template := nudgeTemplate(cart, menu)
	if template == "" {
		return ""
	}
	if s.generator == nil {
		return template
	}

	prompt := fmt.Sprintf(
		"Reescreva a frase a seguir para um totem de pastelaria, mantendo o mesmo convite, em uma única frase simpática em português: %q",
		template,
	)
	text, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		log.Printf("Cart nudge fell back to template text: %v", err)
		return template
	}
	return text
}

// ChefMessage produces a short "message from the chef"
func (s *SuggestionService) ChefMessage(ctx context.Context) string {
	prompt := "Escreva uma mensagem curta e calorosa do chef de uma pastelaria brasileira para o cliente que acabou de abrir o totem. No máximo duas frases, em português."

	if s.generator == nil {
		return ChefFallback
	}
	text, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		log.Printf("Chef message fell back to canned text: %v", err)
		return ChefFallback
	}
	return text
}

// welcomePrompt greets a first-time customer and highlights popular items
func welcomePrompt(menu []models.Product) string {
	popular := productNames(menu, func(p models.Product) bool { return p.Popular })
	if len(popular) == 0 {
		popular = productNames(menu, func(p models.Product) bool { return true })
	}
	return fmt.Sprintf(
		"Você é o atendente de uma pastelaria. Dê boas-vindas a um cliente novo e destaque os itens mais pedidos: %s. Responda em uma ou duas frases em português.",
		strings.Join(popular, ", "),
	)
}

// complementPrompt suggests items that go well with the current cart
func complementPrompt(cart []models.OrderItem, menu []models.Product) string {
	inCart := make(map[string]bool, len(cart))
	var cartNames []string
	for _, item := range cart {
		inCart[item.ProductID] = true
		cartNames = append(cartNames, item.Name)
	}
	available := productNames(menu, func(p models.Product) bool { return !inCart[p.ID] })
	return fmt.Sprintf(
		"Você é o atendente de uma pastelaria. O cliente tem no carrinho: %s. Sugira um item do cardápio que combine com o pedido, escolhendo entre: %s. Responda em uma frase em português.",
		strings.Join(cartNames, ", "),
		strings.Join(available, ", "),
	)
}

// personalizedPrompt upsells based on past orders, skipping what is
// already in the cart
func personalizedPrompt(history []models.Order, cart []models.OrderItem) string {
	inCart := make(map[string]bool, len(cart))
	for _, item := range cart {
		inCart[item.ProductID] = true
	}

	seen := make(map[string]bool)
	var past []string
	for _, order := range history {
		for _, item := range order.Items {
			if inCart[item.ProductID] || seen[item.ProductID] {
				continue
			}
			seen[item.ProductID] = true
			past = append(past, item.Name)
		}
	}

	return fmt.Sprintf(
		"Você é o atendente de uma pastelaria e conhece o cliente. Em pedidos anteriores ele escolheu: %s. Sugira algo que ele costuma gostar e que ainda não está no carrinho. Responda em uma ou duas frases em português.",
		strings.Join(past, ", "),
	)
}

// nudgeTemplate picks the raw nudge sentence from the cart's category
// coverage, or "" when nothing applies
func nudgeTemplate(cart []models.OrderItem, menu []models.Product) string {
	if len(cart) == 0 {
		return ""
	}

	categoryByID := make(map[string]string, len(menu))
	for _, p := range menu {
		categoryByID[p.ID] = p.Category
	}

	inCart := make(map[string]bool, len(cart))
	hasBebida := false
	hasDoce := false
	for _, item := range cart {
		inCart[item.ProductID] = true
		switch categoryByID[item.ProductID] {
		case models.CategoryBebida:
			hasBebida = true
		case models.CategoryDoce:
			hasDoce = true
		}
	}

	if !hasBebida {
		if name := firstName(menu, func(p models.Product) bool { return p.Category == models.CategoryBebida && !inCart[p.ID] }); name != "" {
			return fmt.Sprintf("Que tal uma bebida para acompanhar? Temos %s.", name)
		}
	}
	if !hasDoce {
		if name := firstName(menu, func(p models.Product) bool { return p.Category == models.CategoryDoce && !inCart[p.ID] }); name != "" {
			return fmt.Sprintf("Um doce para fechar o pedido? Experimente %s.", name)
		}
	}
	if name := firstName(menu, func(p models.Product) bool { return p.Popular && !inCart[p.ID] }); name != "" {
		return fmt.Sprintf("Leve também %s, é um dos mais pedidos!", name)
	}
	return ""
}

func productNames(menu []models.Product, keep func(models.Product) bool) []string {
	var names []string
	for _, p := range menu {
		if keep(p) {
			names = append(names, p.Name)
		}
	}
	return names
}

func firstName(menu []models.Product, keep func(models.Product) bool) string {
	for _, p := range menu {
		if keep(p) {
			return p.Name
		}
	}
	return ""
}
