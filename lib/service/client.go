package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/digikhata/khata.go/db/models"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

var (
	ErrClientNotFound      = errors.New("client not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)

type ClientParams struct {
	Name    string
	Phone   string
	Address string
	Notes   string
}

// ClientOverview is a client plus its derived ledger aggregates. None of the
// aggregates are stored; the balance is the balance_after of the
// chronologically last transaction (date, then id).
type ClientOverview struct {
	Client           models.Client
	Balance          decimal.Decimal
	TransactionCount int64
	LastActivity     time.Time
}

func (svc *KhataService) CreateClient(ctx context.Context, userId int64, params ClientParams) (*models.Client, error) {
	client := &models.Client{
		UserID:  userId,
		Name:    params.Name,
		Phone:   params.Phone,
		Address: params.Address,
		Notes:   params.Notes,
	}
	_, err := svc.DB.NewInsert().Model(client).Exec(ctx)
	return client, err
}

func (svc *KhataService) FindClient(ctx context.Context, userId, clientId int64) (*models.Client, error) {
	var client models.Client

	err := svc.DB.NewSelect().Model(&client).Where("id = ? AND user_id = ?", clientId, userId).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return &client, nil
}

func (svc *KhataService) UpdateClient(ctx context.Context, userId, clientId int64, params ClientParams) (*models.Client, error) {
	client, err := svc.FindClient(ctx, userId, clientId)
	if err != nil {
		return nil, err
	}
	client.Name = params.Name
	client.Phone = params.Phone
	client.Address = params.Address
	client.Notes = params.Notes

	_, err = svc.DB.NewUpdate().Model(client).WherePK().Exec(ctx)
	return client, err
}

// DeleteClient removes the client and its entire ledger in one database
// transaction.
func (svc *KhataService) DeleteClient(ctx context.Context, userId, clientId int64) error {
	client, err := svc.FindClient(ctx, userId, clientId)
	if err != nil {
		return err
	}
	return svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*models.Transaction)(nil)).Where("client_id = ?", client.ID).Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewDelete().Model(client).WherePK().Exec(ctx)
		return err
	})
}

func (svc *KhataService) ClientsForUser(ctx context.Context, userId int64) ([]ClientOverview, error) {
	var clients []models.Client
	err := svc.DB.NewSelect().Model(&clients).Where("user_id = ?", userId).OrderExpr("name ASC, id ASC").Scan(ctx)
	if err != nil {
		return nil, err
	}

	type clientAgg struct {
		ClientID     int64     `bun:"client_id"`
		TxCount      int64     `bun:"tx_count"`
		LastActivity time.Time `bun:"last_activity"`
	}
	var aggs []clientAgg
	err = svc.DB.NewSelect().
		Model((*models.Transaction)(nil)).
		Column("client_id").
		ColumnExpr("count(*) AS tx_count").
		ColumnExpr("max(created_at) AS last_activity").
		Where("user_id = ?", userId).
		Group("client_id").
		Scan(ctx, &aggs)
	if err != nil {
		return nil, err
	}

	var latest []models.Transaction
	err = svc.DB.NewSelect().
		Model(&latest).
		ColumnExpr("DISTINCT ON (client_id) *").
		Where("user_id = ?", userId).
		OrderExpr("client_id, date DESC, id DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[int64]clientAgg, len(aggs))
	for _, agg := range aggs {
		counts[agg.ClientID] = agg
	}
	balances := make(map[int64]decimal.Decimal, len(latest))
	for _, transaction := range latest {
		balances[transaction.ClientID] = transaction.BalanceAfter
	}

	overviews := make([]ClientOverview, len(clients))
	for i, client := range clients {
		overviews[i] = ClientOverview{
			Client:           client,
			Balance:          balances[client.ID],
			TransactionCount: counts[client.ID].TxCount,
			LastActivity:     counts[client.ID].LastActivity,
		}
	}
	return overviews, nil
}

// ClientBalance returns the current balance of one client: the stored
// balance_after of the chronologically last transaction, zero for an empty
// ledger. A missing client is an error, never a zero balance.
func (svc *KhataService) ClientBalance(ctx context.Context, userId, clientId int64) (decimal.Decimal, error) {
	client, err := svc.FindClient(ctx, userId, clientId)
	if err != nil {
		return decimal.Zero, err
	}

	var last models.Transaction
	err = svc.DB.NewSelect().
		Model(&last).
		Where("client_id = ?", client.ID).
		OrderExpr("date DESC, id DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return last.BalanceAfter, nil
}
