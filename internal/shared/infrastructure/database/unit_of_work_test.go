package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTx records commit/rollback calls. The embedded interface covers
// the Executor methods the tests never reach.
type stubTx struct {
	Transaction
	committed  bool
	rolledBack bool
}

func (t *stubTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *stubTx) Rollback(ctx context.Context) error {
	t.rolledBack = true
	return nil
}

type stubConn struct {
	Connection
	tx       *stubTx
	beginErr error
}

func (c *stubConn) BeginTx(ctx context.Context) (Transaction, error) {
	if c.beginErr != nil {
		return nil, c.beginErr
	}
	return c.tx, nil
}

func TestGenericUnitOfWork(t *testing.T) {
	ctx := context.Background()

	t.Run("owns and commits a fresh transaction", func(t *testing.T) {
		tx := &stubTx{}
		uow := NewUnitOfWork(&stubConn{tx: tx})

		txCtx, err := uow.Begin(ctx)
		require.NoError(t, err)

		info, ok := TxInfoFromContext(txCtx)
		require.True(t, ok)
		assert.True(t, info.Owned)

		require.NoError(t, uow.Commit(txCtx))
		assert.True(t, tx.committed)
		assert.False(t, tx.rolledBack)
	})

	t.Run("owns and rolls back a fresh transaction", func(t *testing.T) {
		tx := &stubTx{}
		uow := NewUnitOfWork(&stubConn{tx: tx})

		txCtx, err := uow.Begin(ctx)
		require.NoError(t, err)

		require.NoError(t, uow.Rollback(txCtx))
		assert.True(t, tx.rolledBack)
		assert.False(t, tx.committed)
	})

	t.Run("nested unit reuses the outer transaction", func(t *testing.T) {
		tx := &stubTx{}
		outer := NewUnitOfWork(&stubConn{tx: tx})
		inner := NewUnitOfWork(&stubConn{tx: &stubTx{}})

		outerCtx, err := outer.Begin(ctx)
		require.NoError(t, err)

		innerCtx, err := inner.Begin(outerCtx)
		require.NoError(t, err)

		info, ok := TxInfoFromContext(innerCtx)
		require.True(t, ok)
		assert.False(t, info.Owned)
		assert.Same(t, tx, info.Tx.(*stubTx))

		// The inner unit neither commits nor rolls back.
		require.NoError(t, inner.Commit(innerCtx))
		assert.False(t, tx.committed)
		require.NoError(t, inner.Rollback(innerCtx))
		assert.False(t, tx.rolledBack)

		require.NoError(t, outer.Commit(outerCtx))
		assert.True(t, tx.committed)
	})

	t.Run("propagates begin failures", func(t *testing.T) {
		uow := NewUnitOfWork(&stubConn{beginErr: errors.New("connection lost")})

		_, err := uow.Begin(ctx)
		assert.EqualError(t, err, "connection lost")
	})

	t.Run("commit without a transaction fails", func(t *testing.T) {
		uow := NewUnitOfWork(&stubConn{tx: &stubTx{}})

		assert.Error(t, uow.Commit(ctx))
		assert.Error(t, uow.Rollback(ctx))
	})
}

func TestExecutorFromContext(t *testing.T) {
	conn := &stubConn{tx: &stubTx{}}

	t.Run("falls back to the connection", func(t *testing.T) {
		executor := ExecutorFromContext(context.Background(), conn)
		assert.Same(t, conn, executor.(*stubConn))
	})

	t.Run("prefers the transaction in context", func(t *testing.T) {
		tx := &stubTx{}
		ctx := WithTx(context.Background(), tx, true)

		executor := ExecutorFromContext(ctx, conn)
		assert.Same(t, tx, executor.(*stubTx))
	})
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, IsNoRows(sql.ErrNoRows))
	assert.True(t, IsNoRows(pgx.ErrNoRows))
	assert.True(t, IsNoRows(fmt.Errorf("find user: %w", sql.ErrNoRows)))
	assert.False(t, IsNoRows(nil))
	assert.False(t, IsNoRows(errors.New("disk full")))
}
