// Package scenario loads the product and persona catalogs that seed a
// negotiation run. Both are JSON lookup tables keyed by name; an unknown
// name is a fatal initialization error, not a silent default.
package scenario

import (
	"encoding/json"
	"fmt"
	"os"
)

// Product describes the item under negotiation plus the two parties'
// private valuations for it.
type Product struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Category        string  `json:"category"`
	Condition       string  `json:"condition"` // excellent, good, moderate, slight wear and tear, damaged
	Used            int     `json:"used"`      // years of prior use
	AvgSimilarPrice float64 `json:"avg_similar_price"`
	AvgNewPrice     float64 `json:"avg_new_price"`
	Demand          int     `json:"demand"` // 0 = very little, 10 = very high
	Supply          int     `json:"supply"`
	BuyerCost       float64 `json:"buyer_cost"`  // buyer's maximum willingness to pay
	SellerCost      float64 `json:"seller_cost"` // seller's minimum acceptable price
}

// Persona describes a negotiating party's character and starting
// bargaining parameters.
type Persona struct {
	Personality string  `json:"personality"`
	Background  string  `json:"background"`
	Emotion     string  `json:"emotion"`
	Discount    float64 `json:"discount"`
}

// Catalog holds both lookup tables.
type Catalog struct {
	products map[string]Product
	personas map[string]Persona
}

// Load reads the product and persona catalogs from JSON files.
func Load(productsPath, personasPath string) (*Catalog, error) {
	products := map[string]Product{}
	if err := readJSON(productsPath, &products); err != nil {
		return nil, fmt.Errorf("load scenarios: %w", err)
	}

	personas := map[string]Persona{}
	if err := readJSON(personasPath, &personas); err != nil {
		return nil, fmt.Errorf("load personas: %w", err)
	}

	return &Catalog{products: products, personas: personas}, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// Product returns the named product scenario.
func (c *Catalog) Product(name string) (Product, error) {
	p, ok := c.products[name]
	if !ok {
		return Product{}, fmt.Errorf("scenario %q not found", name)
	}
	return p, nil
}

// Persona returns the named persona profile.
func (c *Catalog) Persona(name string) (Persona, error) {
	p, ok := c.personas[name]
	if !ok {
		return Persona{}, fmt.Errorf("profile %q not found", name)
	}
	return p, nil
}
