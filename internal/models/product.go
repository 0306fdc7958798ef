package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is an item users may claim for reviewing.
// Reward is the fixed payout associated with an approved review of the product
type Product struct {
	ID          int
	Name        string
	Category    string
	Description string
	Price       decimal.Decimal
	Reward      decimal.Decimal
	Rating      decimal.Decimal
	ReviewCount int
	Stock       int
	Available   bool
	CreatedAt   time.Time
}

func NewProduct(name, category, description string, price, reward decimal.Decimal, stock int) Product {
	return Product{
		Name:        name,
		Category:    category,
		Description: description,
		Price:       price,
		Reward:      reward,
		Stock:       stock,
		Available:   stock > 0,
		CreatedAt:   time.Now(),
	}
}
