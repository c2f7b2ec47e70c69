package handlers

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawhaven/pawhaven-backend/internal/adoption"
	"github.com/pawhaven/pawhaven-backend/internal/database"
	"github.com/pawhaven/pawhaven-backend/internal/models"
)

const (
	settleUpdateSQL  = `UPDATE orders SET status = $1 WHERE id = $2 AND user_id = $3 AND status = 'pending'`
	settleExistsSQL  = `SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1 AND user_id = $2)`
	settleItemsSQL   = `SELECT product_id, quantity FROM order_items WHERE order_id = $1`
	settleRestockSQL = `UPDATE products SET stock = stock + $1 WHERE id = $2`
)

func withMockPostgres(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	prev := database.PostgresDB
	database.PostgresDB = db
	t.Cleanup(func() {
		database.PostgresDB = prev
		db.Close()
	})
	return mock
}

func TestSettlePendingOrder(t *testing.T) {
	const (
		orderID = "order-1"
		userID  = "64a000000000000000000001"
	)

	t.Run("marks a pending order paid", func(t *testing.T) {
		mock := withMockPostgres(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(settleUpdateSQL)).
			WithArgs(models.OrderPaid, orderID, userID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := settlePendingOrder(context.Background(), orderID, userID, models.OrderPaid)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure restocks every order item", func(t *testing.T) {
		mock := withMockPostgres(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(settleUpdateSQL)).
			WithArgs(models.OrderFailed, orderID, userID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta(settleItemsSQL)).
			WithArgs(orderID).
			WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity"}).
				AddRow("prod-a", 2).
				AddRow("prod-b", 1))
		mock.ExpectExec(regexp.QuoteMeta(settleRestockSQL)).
			WithArgs(2, "prod-a").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta(settleRestockSQL)).
			WithArgs(1, "prod-b").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := settlePendingOrder(context.Background(), orderID, userID, models.OrderFailed)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("second settlement of the same order conflicts without restocking", func(t *testing.T) {
		mock := withMockPostgres(t)

		// The guarded UPDATE matches nothing once the order left pending,
		// so the loser of a settlement race never reaches the restock loop.
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(settleUpdateSQL)).
			WithArgs(models.OrderFailed, orderID, userID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(settleExistsSQL)).
			WithArgs(orderID, userID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		err := settlePendingOrder(context.Background(), orderID, userID, models.OrderFailed)
		assert.True(t, errors.Is(err, adoption.ErrConflict))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown order is not found", func(t *testing.T) {
		mock := withMockPostgres(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(settleUpdateSQL)).
			WithArgs(models.OrderPaid, "missing", userID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(settleExistsSQL)).
			WithArgs("missing", userID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectRollback()

		err := settlePendingOrder(context.Background(), "missing", userID, models.OrderPaid)
		assert.True(t, errors.Is(err, adoption.ErrNotFound))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
