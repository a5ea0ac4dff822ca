package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"gorm.io/gorm"

	"github.com/pastelaria-dev/pastelaria-kiosk-api/models"
)

// SeedMenu loads the product catalog into an empty database. Products are
// reference data: when any row already exists the seed is skipped, so
// restarting the server never duplicates or rewrites the menu.
func SeedMenu(db *gorm.DB, seedFile string) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check existing products: %w", err)
	}
	if count > 0 {
		log.Printf("Menu already seeded (%d products), skipping", count)
		return nil
	}

	products := DefaultMenu()
	if seedFile != "" {
		loaded, err := loadMenuFile(seedFile)
		if err != nil {
			return err
		}
		products = loaded
	}

	for _, p := range products {
		if !models.ValidCategory(p.Category) {
			return fmt.Errorf("product %q has unknown category %q", p.ID, p.Category)
		}
		if p.Price < 0 {
			return fmt.Errorf("product %q has a negative price", p.ID)
		}
	}

	if err := db.Create(&products).Error; err != nil {
		return fmt.Errorf("failed to seed menu: %w", err)
	}

	log.Printf("Seeded menu with %d products", len(products))
	return nil
}

// loadMenuFile reads a product catalog from a JSON file (a top-level array)
func loadMenuFile(path string) ([]models.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu seed file: %w", err)
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to parse menu seed file: %w", err)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("menu seed file %s contains no products", path)
	}
	return products, nil
}

// DefaultMenu is the built-in catalog used when no seed file is configured
func DefaultMenu() []models.Product {
	return []models.Product{
		{ID: "pastel-carne", Name: "Pastel de Carne", Description: "Carne moída temperada com azeitona", Price: 12.5, Category: models.CategoryPastel, Popular: true},
		{ID: "pastel-queijo", Name: "Pastel de Queijo", Description: "Mussarela derretida no capricho", Price: 11, Category: models.CategoryPastel, Popular: true},
		{ID: "pastel-palmito", Name: "Pastel de Palmito", Description: "Palmito refogado com catupiry", Price: 13, Category: models.CategoryPastel},
		{ID: "pastel-pizza", Name: "Pastel de Pizza", Description: "Mussarela, presunto, tomate e orégano", Price: 12, Category: models.CategoryPastel},
		{ID: "caldo-cana", Name: "Caldo de Cana", Description: "Moído na hora, copo 500ml", Price: 8, Category: models.CategoryBebida, Popular: true},
		{ID: "coca-cola", Name: "Coca-Cola", Description: "Lata 350ml gelada", Price: 6, Category: models.CategoryBebida},
		{ID: "suco-laranja", Name: "Suco de Laranja", Description: "Natural, copo 400ml", Price: 9, Category: models.CategoryBebida},
		{ID: "churros", Name: "Churros", Description: "Recheado com doce de leite", Price: 9, Category: models.CategoryDoce},
		{ID: "pastel-romeu", Name: "Pastel Romeu e Julieta", Description: "Queijo com goiabada", Price: 12, Category: models.CategoryDoce, Popular: true},
	}
}
