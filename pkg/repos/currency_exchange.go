package repos

import (
	"context"
	"time"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/models"
)

const currencyExchangeColumns = "id, data, created_at"

// CurrencyExchange keeps the history of exchange rate snapshots
type CurrencyExchange struct {
	base
}

// NewCurrencyExchange creates a currency exchange repository
func NewCurrencyExchange(db DBTX, a acl.ACL) *CurrencyExchange {
	return &CurrencyExchange{base{db: db, acl: a}}
}

// Latest returns the most recent snapshot
func (r *CurrencyExchange) Latest(ctx context.Context) (*models.CurrencyExchange, error) {
	if err := r.visible(ctx, acl.ResourceCurrencyExchange, nil); err != nil {
		return nil, classify("find latest exchange rates", err)
	}
	var c models.CurrencyExchange
	err := r.db.QueryRowContext(ctx,
		"SELECT "+currencyExchangeColumns+" FROM currency_exchange ORDER BY id DESC LIMIT 1",
	).Scan(&c.ID, &c.Data, &c.CreatedAt)
	if err != nil {
		return nil, classify("find latest exchange rates", err)
	}
	return &c, nil
}

// Update stores a new snapshot. Earlier snapshots are kept.
func (r *CurrencyExchange) Update(ctx context.Context, payload *models.NewCurrencyExchange) (*models.CurrencyExchange, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	if err := r.allowed(ctx, acl.ResourceCurrencyExchange, acl.ActionUpdate, nil); err != nil {
		return nil, classify("update exchange rates", err)
	}
	var c models.CurrencyExchange
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO currency_exchange (data, created_at) VALUES ($1, $2) RETURNING "+currencyExchangeColumns,
		payload.JSON(), time.Now().UTC(),
	).Scan(&c.ID, &c.Data, &c.CreatedAt)
	if err != nil {
		return nil, classify("update exchange rates", err)
	}
	return &c, nil
}
