package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Ad struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Location    string          `json:"location"`
	Phone       string          `json:"phone"`
	Images      []string        `json:"images"`
	Owner       string          `json:"owner"`
	Status      string          `json:"status"` // pending, active, sold, expired
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type AdForm struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Location    string          `json:"location"`
	Phone       string          `json:"phone"`
}
