package models

import (
	"context"
	"time"

	"github.com/digikhata/khata.go/ledger"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Transaction : Transaction Model
// Debit and Credit are non-negative decimals and exactly one of them is
// expected to be positive. BalanceAfter is derived state: it is fully
// rewritten for the whole client ledger on every mutation and must never be
// edited directly.
type Transaction struct {
	ID           int64           `json:"id" bun:",pk,autoincrement"`
	UserID       int64           `json:"user_id" bun:",notnull"`
	User         *User           `json:"-" bun:"rel:belongs-to,join:user_id=id"`
	ClientID     int64           `json:"client_id" bun:",notnull"`
	Client       *Client         `json:"-" bun:"rel:belongs-to,join:client_id=id"`
	Date         time.Time       `json:"date" bun:",notnull"`
	Particulars  string          `json:"particulars" bun:",nullzero"`
	BillNo       string          `json:"bill_no" bun:",nullzero"`
	Debit        decimal.Decimal `json:"debit" bun:"type:numeric(14,2),notnull,default:0"`
	Credit       decimal.Decimal `json:"credit" bun:"type:numeric(14,2),notnull,default:0"`
	BalanceAfter decimal.Decimal `json:"balance_after" bun:"type:numeric(14,2),notnull,default:0"`
	CreatedAt    time.Time       `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt    bun.NullTime    `json:"updated_at"`
}

func (t *Transaction) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.UpdateQuery:
		t.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

func (t *Transaction) LedgerEntry() ledger.Entry {
	return ledger.Entry{
		ID:        t.ID,
		Date:      t.Date,
		CreatedAt: t.CreatedAt,
		Debit:     t.Debit,
		Credit:    t.Credit,
	}
}

var _ bun.BeforeAppendModelHook = (*Transaction)(nil)
