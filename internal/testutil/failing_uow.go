package testutil

import (
	"context"
	"database/sql"
	"strings"

	"github.com/alexanderramin/st8/internal/db"
)

// FailingUoW runs transactions like db.SQLiteUnitOfWork but makes the
// FailOn-th write fail with Err. When Table is set only statements naming
// that table are counted, so a test can break a save halfway through the
// agents or the planning entries.
type FailingUoW struct {
	DB     *sql.DB
	Table  string
	FailOn int
	Err    error
}

func (u *FailingUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failingTx{DBTX: tx, uow: u})
	})
}

type failingTx struct {
	db.DBTX
	uow    *FailingUoW
	writes int
}

func (f *failingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.uow.Table == "" || strings.Contains(query, f.uow.Table) {
		f.writes++
		if f.writes == f.uow.FailOn {
			return nil, f.uow.Err
		}
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
