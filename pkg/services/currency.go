package services

import (
	"context"
	"errors"

	"github.com/platinummonkey/stores/pkg/contextkeys"
	"github.com/platinummonkey/stores/pkg/models"
	"github.com/platinummonkey/stores/pkg/observability"
	"github.com/platinummonkey/stores/pkg/repos"
)

// converter converts variant prices into the currency requested in ctx
type converter struct {
	target models.Currency
	rates  models.ExchangeRates
}

// newConverter loads the latest rates when ctx asks for a currency.
// A nil converter leaves prices untouched.
func (s *Service) newConverter(ctx context.Context, conn repos.DBTX) (*converter, error) {
	target := models.Currency(contextkeys.GetCurrency(ctx))
	if target == "" {
		return nil, nil
	}
	snapshot, err := s.repos.CurrencyExchange(conn, s.repos.SystemACL()).Latest(ctx)
	if errors.Is(err, repos.ErrNotFound) {
		observability.FromContext(ctx).WithField("currency", target).Debug("no exchange rates, prices left unconverted")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &converter{target: target, rates: snapshot.Rates()}, nil
}

func (c *converter) product(ctx context.Context, p *models.Product) {
	if c == nil || p.Currency == c.target {
		return
	}
	price, ok := c.rates.Convert(p.Price, p.Currency, c.target)
	if !ok {
		observability.FromContext(ctx).WithFields(map[string]interface{}{
			"from": p.Currency,
			"to":   c.target,
		}).Debug("no exchange rate, price left unconverted")
		return
	}
	p.Price = price
	p.Currency = c.target
}

func (c *converter) products(ctx context.Context, products []models.Product) {
	for i := range products {
		c.product(ctx, &products[i])
	}
}

func (c *converter) variants(ctx context.Context, variants []models.ProductWithAttributes) {
	for i := range variants {
		c.product(ctx, &variants[i].Product)
	}
}
