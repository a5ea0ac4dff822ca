package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pastelaria-dev/pastelaria-kiosk-api/models"
)

func testMenu() []models.Product {
	return []models.Product{
		{ID: "p1", Name: "Pastel de Carne", Category: models.CategoryPastel, Price: 12.5, Popular: true},
		{ID: "p2", Name: "Pastel de Queijo", Category: models.CategoryPastel, Price: 11},
		{ID: "p3", Name: "Coca-Cola", Category: models.CategoryBebida, Price: 6},
		{ID: "p4", Name: "Caldo de Cana", Category: models.CategoryBebida, Price: 8, Popular: true},
		{ID: "p5", Name: "Churros", Category: models.CategoryDoce, Price: 9},
	}
}

func TestSelectSuggestionPrompt(t *testing.T) {
	menu := testMenu()
	cart := []models.OrderItem{{ProductID: "p1", Name: "Pastel de Carne", Price: 12.5, Quantity: 1}}
	history := []models.Order{{
		ID:    "1000-abc",
		Items: []models.OrderItem{{ProductID: "p5", Name: "Churros", Price: 9, Quantity: 1}},
	}}

	tests := []struct {
		name         string
		history      []models.Order
		cart         []models.OrderItem
		expectedKind string
	}{
		{
			name:         "No history and empty cart selects welcome",
			expectedKind: PromptWelcome,
		},
		{
			name:         "No history with cart selects complement",
			cart:         cart,
			expectedKind: PromptComplement,
		},
		{
			name:         "History selects personalized regardless of cart",
			history:      history,
			expectedKind: PromptPersonalized,
		},
		{
			name:         "History with cart still personalized",
			history:      history,
			cart:         cart,
			expectedKind: PromptPersonalized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, prompt := SelectSuggestionPrompt(tt.history, tt.cart, menu)
			assert.Equal(t, tt.expectedKind, kind)
			assert.NotEmpty(t, prompt)
		})
	}
}

func TestWelcomePromptHighlightsPopularItems(t *testing.T) {
	_, prompt := SelectSuggestionPrompt(nil, nil, testMenu())
	assert.Contains(t, prompt, "Pastel de Carne")
	assert.Contains(t, prompt, "Caldo de Cana")
	assert.NotContains(t, prompt, "Pastel de Queijo", "non-popular items are not highlighted")
}

func TestPersonalizedPromptExcludesCartItems(t *testing.T) {
	history := []models.Order{{
		ID: "1000-abc",
		Items: []models.OrderItem{
			{ProductID: "p1", Name: "Pastel de Carne", Price: 12.5, Quantity: 1},
			{ProductID: "p5", Name: "Churros", Price: 9, Quantity: 1},
		},
	}}
	cart := []models.OrderItem{{ProductID: "p1", Name: "Pastel de Carne", Price: 12.5, Quantity: 1}}

	_, prompt := SelectSuggestionPrompt(history, cart, testMenu())
	assert.Contains(t, prompt, "Churros")
	assert.NotContains(t, prompt, "Pastel de Carne", "items already in the cart are excluded")
}

func TestSuggestReturnsModelText(t *testing.T) {
	mock := NewMockTextGenerator("Que tal um caldo de cana?")
	svc := NewSuggestionService(mock)

	text := svc.Suggest(context.Background(), nil, nil, testMenu())
	assert.Equal(t, "Que tal um caldo de cana?", text)
	assert.NotEmpty(t, mock.Prompts())
}

func TestSuggestFallsBackOnError(t *testing.T) {
	mock := NewMockTextGenerator("ignored")
	mock.SetError(errors.New("upstream down"))
	svc := NewSuggestionService(mock)

	text := svc.Suggest(context.Background(), nil, nil, testMenu())
	assert.Equal(t, SuggestionFallback, text)
}

func TestCartNudgeEmptyCart(t *testing.T) {
	mock := NewMockTextGenerator("ignored")
	svc := NewSuggestionService(mock)

	text := svc.CartNudge(context.Background(), nil, testMenu())
	assert.Equal(t, "", text, "empty cart yields no nudge, not a fallback")
	assert.Empty(t, mock.Prompts(), "no network call for an empty cart")
}

func TestCartNudgeSuggestsDrinkFirst(t *testing.T) {
	mock := NewMockTextGenerator("Uma bebida geladinha cai bem!")
	svc := NewSuggestionService(mock)

	cart := []models.OrderItem{{ProductID: "p1", Name: "Pastel de Carne", Price: 12.5, Quantity: 1}}
	text := svc.CartNudge(context.Background(), cart, testMenu())

	assert.Equal(t, "Uma bebida geladinha cai bem!", text)
	assert.Contains(t, mock.LastPrompt(), "bebida")
}

func TestCartNudgeSuggestsDessertWhenDrinkPresent(t *testing.T) {
	mock := NewMockTextGenerator("polished")
	svc := NewSuggestionService(mock)

	cart := []models.OrderItem{
		{ProductID: "p1", Name: "Pastel de Carne", Price: 12.5, Quantity: 1},
		{ProductID: "p3", Name: "Coca-Cola", Price: 6, Quantity: 1},
	}
	svc.CartNudge(context.Background(), cart, testMenu())

	assert.Contains(t, mock.LastPrompt(), "doce")
}

func TestCartNudgeFallsBackToTemplateOnError(t *testing.T) {
	mock := NewMockTextGenerator("ignored")
	mock.SetError(errors.New("timeout"))
	svc := NewSuggestionService(mock)

	cart := []models.OrderItem{{ProductID: "p1", Name: "Pastel de Carne", Price: 12.5, Quantity: 1}}
	text := svc.CartNudge(context.Background(), cart, testMenu())

	assert.Contains(t, text, "bebida", "the raw template is returned, not the generic fallback")
	assert.NotEqual(t, SuggestionFallback, text)
}

func TestCartNudgeNothingApplies(t *testing.T) {
	mock := NewMockTextGenerator("ignored")
	svc := NewSuggestionService(mock)

	// Cart covers drinks, desserts, and every popular item
	cart := []models.OrderItem{
		{ProductID: "p1", Name: "Pastel de Carne", Price: 12.5, Quantity: 1},
		{ProductID: "p3", Name: "Coca-Cola", Price: 6, Quantity: 1},
		{ProductID: "p4", Name: "Caldo de Cana", Price: 8, Quantity: 1},
		{ProductID: "p5", Name: "Churros", Price: 9, Quantity: 1},
	}
	text := svc.CartNudge(context.Background(), cart, testMenu())
	assert.Equal(t, "", text)
}

func TestChefMessage(t *testing.T) {
	mock := NewMockTextGenerator("Bem-vindo! Hoje o pastel de carne está imperdível.")
	svc := NewSuggestionService(mock)

	text := svc.ChefMessage(context.Background())
	assert.Equal(t, "Bem-vindo! Hoje o pastel de carne está imperdível.", text)
}

func TestChefMessageFallsBack(t *testing.T) {
	mock := NewMockTextGenerator("ignored")
	mock.SetEnabled(false)
	svc := NewSuggestionService(mock)

	text := svc.ChefMessage(context.Background())
	assert.Equal(t, ChefFallback, text)
}
