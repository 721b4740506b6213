package pgdb

import (
	"context"

	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/drsn-tech/catalog-core/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/jimlawless/whereami"
)

// PgTxRunner выполняет функцию в транзакции PostgreSQL, прокидывая
// pgx.Tx репозиториям через контекст (см. pkg/tr). Единая точка
// управления commit/rollback для составных мутаций каталога.
type PgTxRunner struct {
	dbPool transaction.Transactional
}

func NewPgTxRunner(dbPool transaction.Transactional) *PgTxRunner {
	return &PgTxRunner{dbPool: dbPool}
}

func (r *PgTxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, r.dbPool)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer func() {
		if tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()

	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	if err := fn(ctx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
