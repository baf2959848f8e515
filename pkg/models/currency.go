package models

import (
	"fmt"
	"strings"
	"time"
)

// Currency is an upper-case currency code
type Currency string

const (
	CurrencyRUB Currency = "RUB"
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyBTC Currency = "BTC"
	CurrencyETH Currency = "ETH"
	CurrencySTQ Currency = "STQ"
)

var knownCurrencies = map[Currency]bool{
	CurrencyRUB: true,
	CurrencyEUR: true,
	CurrencyUSD: true,
	CurrencyBTC: true,
	CurrencyETH: true,
	CurrencySTQ: true,
}

// ParseCurrency normalizes and validates a currency code
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !knownCurrencies[c] {
		return "", fmt.Errorf("%w: unknown currency %q", ErrInvalidPayload, s)
	}
	return c, nil
}

// Valid reports whether c is a known currency
func (c Currency) Valid() bool {
	return knownCurrencies[c]
}

// ExchangeRates maps a target currency to the rate of every source currency in it
type ExchangeRates map[Currency]map[Currency]float64

// CurrencyExchange is a snapshot of exchange rates
type CurrencyExchange struct {
	ID        int64     `json:"id"`
	Data      JSONMap   `json:"data"`
	CreatedAt time.Time `json:"created_at"`
}

// Rates decodes the snapshot data into typed exchange rates
func (c *CurrencyExchange) Rates() ExchangeRates {
	rates := make(ExchangeRates)
	for target, raw := range c.Data {
		inner, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		row := make(map[Currency]float64, len(inner))
		for source, v := range inner {
			if f, ok := v.(float64); ok {
				row[Currency(source)] = f
			}
		}
		rates[Currency(target)] = row
	}
	return rates
}

// Convert converts amount from one currency to another. Rows are keyed by the
// target currency: r[to][from] is the price in to of one unit of from.
// The second return value is false when no rate is known.
func (r ExchangeRates) Convert(amount float64, from, to Currency) (float64, bool) {
	if from == to {
		return amount, true
	}
	row, ok := r[to]
	if !ok {
		return 0, false
	}
	rate, ok := row[from]
	if !ok {
		return 0, false
	}
	return amount * rate, true
}

// NewCurrencyExchange is the payload for storing a new rates snapshot
type NewCurrencyExchange struct {
	Data ExchangeRates `json:"data"`
}

// Validate checks every currency code and rate in the snapshot
func (n *NewCurrencyExchange) Validate() error {
	if len(n.Data) == 0 {
		return fmt.Errorf("%w: exchange data is empty", ErrInvalidPayload)
	}
	for target, row := range n.Data {
		if !target.Valid() {
			return fmt.Errorf("%w: unknown currency %q", ErrInvalidPayload, target)
		}
		for source, rate := range row {
			if !source.Valid() {
				return fmt.Errorf("%w: unknown currency %q", ErrInvalidPayload, source)
			}
			if rate <= 0 {
				return fmt.Errorf("%w: rate %s->%s must be positive", ErrInvalidPayload, source, target)
			}
		}
	}
	return nil
}

// JSON converts the typed rates into the persisted representation
func (n *NewCurrencyExchange) JSON() JSONMap {
	out := make(JSONMap, len(n.Data))
	for from, row := range n.Data {
		inner := make(map[string]interface{}, len(row))
		for to, rate := range row {
			inner[string(to)] = rate
		}
		out[string(from)] = inner
	}
	return out
}
