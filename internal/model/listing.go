package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusAvailable = "available"
	StatusReserved  = "reserved"
	StatusSold      = "sold"
)

const (
	CurrencyINR = "INR"
	CurrencyUSD = "USD"
)

// Listing is a sellable catalog row. It is created server-side; this
// service only ever reads it.
type Listing struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	ImageURL    string          `json:"image_url"`
	PriceINR    decimal.Decimal `json:"price_inr"`
	PriceUSD    decimal.Decimal `json:"price_usd"`
	Category    string          `json:"category,omitempty"`
	IsSold      bool            `json:"is_sold"`
	IsReserved  bool            `json:"is_reserved"`
	CreatorName string          `json:"creator_name,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (l *Listing) Available() bool {
	return !l.IsSold && !l.IsReserved
}

// Status derives the display status; is_sold wins over is_reserved
// when the backend sends both.
func (l *Listing) Status() string {
	switch {
	case l.IsSold:
		return StatusSold
	case l.IsReserved:
		return StatusReserved
	default:
		return StatusAvailable
	}
}

// Price returns the price in the given currency. USD for anything that
// is not INR, matching the backend's two-currency model.
func (l *Listing) Price(currency string) decimal.Decimal {
	if currency == CurrencyINR {
		return l.PriceINR
	}
	return l.PriceUSD
}
