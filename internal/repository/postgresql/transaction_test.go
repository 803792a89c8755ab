package postgresql

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/kintai-works/kintai-backend-go/internal/pkg/database"
	"github.com/stretchr/testify/assert"
)

type stubTx struct {
	pgx.Tx
}

func TestGetQuerier_PrefersTransactionFromContext(t *testing.T) {
	db := &database.DB{}
	tx := stubTx{}

	q := GetQuerier(TxContext(context.Background(), tx), db)
	assert.Equal(t, tx, q, "repository calls inside a transaction must join it")
}

func TestGetQuerier_FallsBackToPool(t *testing.T) {
	db := &database.DB{}

	q := GetQuerier(context.Background(), db)
	assert.Equal(t, database.Querier(db.Pool), q)
}
