package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {

		if db.Dialect().Name().String() != "pg" {
			fmt.Printf("\033[1;31m%s\033[0m", "You are not using PostgreSQL. DB level checks can not be enabled!\n")
			return nil
		}
		sql := `
			-- amounts are one-sided and never negative
				ALTER TABLE transactions
				ADD CONSTRAINT check_amounts_not_negative
				CHECK (debit >= 0 AND credit >= 0);

				ALTER TABLE transactions
				ADD CONSTRAINT check_one_side_positive
				CHECK (debit > 0 OR credit > 0);

			-- ledgers are read per client, balances recomputed per client
				CREATE INDEX IF NOT EXISTS transactions_client_date_idx
				ON transactions (client_id, date, id);

				CREATE INDEX IF NOT EXISTS transactions_user_date_idx
				ON transactions (user_id, date);

				CREATE INDEX IF NOT EXISTS clients_user_idx
				ON clients (user_id);
		`
		if _, err := db.Exec(sql); err != nil {
			return err
		}
		return nil
	}, nil)
}
