package database

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func getTestLogger() ectologger.Logger {
	zapLogger, _ := zap.NewDevelopment()
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

func getTestDB(t *testing.T) DB {
	t.Helper()
	sqlxDB, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	sqlxDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlxDB.Close() })

	_, err = sqlxDB.Exec("CREATE TABLE items (value TEXT NOT NULL)")
	require.NoError(t, err)

	return NewDatabaseInstance(sqlxDB, getTestLogger())
}

func TestGetTxReusesOpenTransaction(t *testing.T) {
	db := getTestDB(t)

	txCtx, tx, err := db.GetTx(context.Background(), nil)
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.True(t, tx.IsOpen())

	sameCtx, sameTx, err := db.GetTx(txCtx, nil)
	require.NoError(t, err)
	assert.Equal(t, txCtx, sameCtx)
	assert.Same(t, tx, sameTx)

	require.NoError(t, tx.Commit(txCtx))
	assert.False(t, tx.IsOpen())

	// commit and rollback are no-ops once closed
	require.NoError(t, tx.Commit(txCtx))
	require.NoError(t, tx.Rollback(txCtx))
}

func TestGetTxOpensFreshAfterClose(t *testing.T) {
	db := getTestDB(t)

	txCtx, tx, err := db.GetTx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, tx.Commit(txCtx))

	_, fresh, err := db.GetTx(txCtx, nil)
	require.NoError(t, err)
	assert.NotSame(t, tx, fresh)
	require.NoError(t, fresh.Rollback(txCtx))
}

func TestTransactionCommitPersists(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()

	txCtx, tx, err := db.GetTx(ctx, nil)
	require.NoError(t, err)
	_, err = tx.ExecContext(txCtx, "INSERT INTO items (value) VALUES (?)", "kept")
	require.NoError(t, err)
	require.NoError(t, tx.Commit(txCtx))

	var count int
	require.NoError(t, db.GetContext(ctx, &count, "SELECT COUNT(*) FROM items"))
	assert.Equal(t, 1, count)
}

func TestTransactionRollbackDiscards(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()

	txCtx, tx, err := db.GetTx(ctx, nil)
	require.NoError(t, err)
	_, err = tx.ExecContext(txCtx, "INSERT INTO items (value) VALUES (?)", "dropped")
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(txCtx))

	var count int
	require.NoError(t, db.GetContext(ctx, &count, "SELECT COUNT(*) FROM items"))
	assert.Zero(t, count)
}

func TestRunnerResolution(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()

	// no transaction open: statements run on the database handle
	assert.Equal(t, db, Runner(ctx, db))

	txCtx, tx, err := db.GetTx(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, tx, Runner(txCtx, db))

	require.NoError(t, tx.Commit(txCtx))
	assert.Equal(t, db, Runner(txCtx, db))
}
