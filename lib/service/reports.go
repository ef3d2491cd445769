package service

import (
	"context"
	"fmt"
	"time"

	"github.com/digikhata/khata.go/db/models"
	"github.com/shopspring/decimal"
)

// MonthlyTotals aggregates one Gregorian calendar month across all of a
// user's clients. Net is credit minus debit: money received minus credit
// extended.
type MonthlyTotals struct {
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	Net         decimal.Decimal `json:"net"`
}

type MonthlyClientRow struct {
	ClientID    int64           `bun:"client_id" json:"client_id"`
	ClientName  string          `bun:"client_name" json:"client_name"`
	TotalDebit  decimal.Decimal `bun:"total_debit" json:"total_debit"`
	TotalCredit decimal.Decimal `bun:"total_credit" json:"total_credit"`
}

func monthWindow(year, month int) (start, end time.Time, err error) {
	if month < 1 || month > 12 {
		return start, end, fmt.Errorf("invalid month %d", month)
	}
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	// first day of the following month, both boundary dates stay inclusive
	end = start.AddDate(0, 1, 0)
	return start, end, nil
}

func (svc *KhataService) MonthlyTotals(ctx context.Context, userId int64, year, month int) (*MonthlyTotals, error) {
	start, end, err := monthWindow(year, month)
	if err != nil {
		return nil, err
	}

	totals := &MonthlyTotals{Year: year, Month: month}
	err = svc.DB.NewSelect().
		Model((*models.Transaction)(nil)).
		ColumnExpr("COALESCE(sum(debit), 0) AS total_debit").
		ColumnExpr("COALESCE(sum(credit), 0) AS total_credit").
		Where("user_id = ? AND date >= ? AND date < ?", userId, start, end).
		Scan(ctx, &totals.TotalDebit, &totals.TotalCredit)
	if err != nil {
		return nil, err
	}
	totals.Net = totals.TotalCredit.Sub(totals.TotalDebit)
	return totals, nil
}

func (svc *KhataService) MonthlyClientRows(ctx context.Context, userId int64, year, month int) ([]MonthlyClientRow, error) {
	start, end, err := monthWindow(year, month)
	if err != nil {
		return nil, err
	}

	var rows []MonthlyClientRow
	err = svc.DB.NewSelect().
		Model((*models.Transaction)(nil)).
		ColumnExpr("transaction.client_id AS client_id").
		ColumnExpr("client.name AS client_name").
		ColumnExpr("COALESCE(sum(transaction.debit), 0) AS total_debit").
		ColumnExpr("COALESCE(sum(transaction.credit), 0) AS total_credit").
		Join("JOIN clients AS client ON client.id = transaction.client_id").
		Where("transaction.user_id = ? AND transaction.date >= ? AND transaction.date < ?", userId, start, end).
		GroupExpr("transaction.client_id, client.name").
		OrderExpr("client.name ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
