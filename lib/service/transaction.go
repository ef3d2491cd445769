package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/digikhata/khata.go/common"
	"github.com/digikhata/khata.go/db/models"
	"github.com/digikhata/khata.go/ledger"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type TransactionParams struct {
	Date        time.Time
	Particulars string
	BillNo      string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

func (svc *KhataService) validateAmounts(params TransactionParams) error {
	if params.Debit.IsNegative() || params.Credit.IsNegative() {
		return fmt.Errorf("amounts must not be negative")
	}
	if !params.Debit.IsPositive() && !params.Credit.IsPositive() {
		return fmt.Errorf("either debit or credit must be greater than 0")
	}
	if max := svc.Config.MaxTransactionAmount; max > 0 {
		limit := decimal.NewFromInt(max)
		if params.Debit.GreaterThan(limit) || params.Credit.GreaterThan(limit) {
			return fmt.Errorf("amount exceeds the configured maximum of %d", max)
		}
	}
	return nil
}

func (svc *KhataService) AddTransaction(ctx context.Context, userId, clientId int64, params TransactionParams) (*models.Transaction, error) {
	if err := svc.validateAmounts(params); err != nil {
		return nil, err
	}
	client, err := svc.FindClient(ctx, userId, clientId)
	if err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		UserID:      userId,
		ClientID:    client.ID,
		Date:        params.Date,
		Particulars: params.Particulars,
		BillNo:      params.BillNo,
		Debit:       params.Debit,
		Credit:      params.Credit,
	}

	err = svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(transaction).Exec(ctx); err != nil {
			return err
		}
		return svc.recomputeClientBalances(ctx, tx, transaction)
	})
	if err != nil {
		return nil, err
	}

	svc.TxPubSub.Publish(common.TxEvent{Type: common.TxEventCreated, Transaction: *transaction})
	return transaction, nil
}

func (svc *KhataService) FindTransaction(ctx context.Context, userId, transactionId int64) (*models.Transaction, error) {
	var transaction models.Transaction

	err := svc.DB.NewSelect().Model(&transaction).Where("id = ? AND user_id = ?", transactionId, userId).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &transaction, nil
}

func (svc *KhataService) UpdateTransaction(ctx context.Context, userId, transactionId int64, params TransactionParams) (*models.Transaction, error) {
	if err := svc.validateAmounts(params); err != nil {
		return nil, err
	}
	transaction, err := svc.FindTransaction(ctx, userId, transactionId)
	if err != nil {
		return nil, err
	}

	transaction.Date = params.Date
	transaction.Particulars = params.Particulars
	transaction.BillNo = params.BillNo
	transaction.Debit = params.Debit
	transaction.Credit = params.Credit

	err = svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewUpdate().Model(transaction).
			Column("date", "particulars", "bill_no", "debit", "credit", "updated_at").
			WherePK().Exec(ctx); err != nil {
			return err
		}
		return svc.recomputeClientBalances(ctx, tx, transaction)
	})
	if err != nil {
		return nil, err
	}

	svc.TxPubSub.Publish(common.TxEvent{Type: common.TxEventUpdated, Transaction: *transaction})
	return transaction, nil
}

func (svc *KhataService) DeleteTransaction(ctx context.Context, userId, transactionId int64) error {
	transaction, err := svc.FindTransaction(ctx, userId, transactionId)
	if err != nil {
		return err
	}

	err = svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model(transaction).WherePK().Exec(ctx); err != nil {
			return err
		}
		return svc.recomputeClientBalances(ctx, tx, transaction)
	})
	if err != nil {
		return err
	}

	svc.TxPubSub.Publish(common.TxEvent{Type: common.TxEventDeleted, Transaction: *transaction})
	return nil
}

// recomputeClientBalances reloads the mutated client's full ledger inside the
// caller's database transaction, recomputes every balance_after and rewrites
// them all. The rewrite is a full idempotent overwrite: repeating it after a
// failure yields the same rows, and the surrounding transaction guarantees no
// reader ever sees a half-updated ledger.
func (svc *KhataService) recomputeClientBalances(ctx context.Context, tx bun.Tx, mutated *models.Transaction) error {
	var transactions []models.Transaction
	err := tx.NewSelect().
		Model(&transactions).
		Where("client_id = ?", mutated.ClientID).
		OrderExpr("date ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return err
	}
	if len(transactions) == 0 {
		return nil
	}

	entries := make([]ledger.Entry, len(transactions))
	for i, transaction := range transactions {
		entries[i] = transaction.LedgerEntry()
	}
	result := ledger.ComputeBalances(entries, ledger.SortSpec{Field: ledger.SortFieldDate, Order: ledger.SortOrderAsc})
	if err := ledger.CheckInvariant(result, ledger.SortFieldDate); err != nil {
		// an algorithmic bug, abort the whole mutation rather than persist it
		return err
	}

	for i := range transactions {
		transactions[i].BalanceAfter = result[i].BalanceAfter
		if mutated.ID == transactions[i].ID {
			mutated.BalanceAfter = result[i].BalanceAfter
		}
	}

	_, err = tx.NewUpdate().
		With("_data", tx.NewValues(&transactions)).
		Model((*models.Transaction)(nil)).
		TableExpr("_data").
		Set("balance_after = _data.balance_after").
		Where("transaction.id = _data.id").
		Exec(ctx)
	return err
}

// TransactionsFor returns one client's ledger ordered per spec. Stored
// balances are returned as-is; the display ordering never changes them.
func (svc *KhataService) TransactionsFor(ctx context.Context, userId, clientId int64, spec ledger.SortSpec) ([]models.Transaction, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	client, err := svc.FindClient(ctx, userId, clientId)
	if err != nil {
		return nil, err
	}

	direction := "ASC"
	if spec.Order == ledger.SortOrderDesc {
		direction = "DESC"
	}
	var transactions []models.Transaction
	err = svc.DB.NewSelect().
		Model(&transactions).
		Where("client_id = ?", client.ID).
		OrderExpr(fmt.Sprintf("%s %s, id %s", spec.Field, direction, direction)).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return transactions, nil
}
