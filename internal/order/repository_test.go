package order

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"parana-shopper/internal/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDay = time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

const (
	lockBasketSQL  = "SELECT id FROM baskets WHERE id = \\$1 AND shopper_id = \\$2 AND basket_date = \\$3 FOR UPDATE"
	snapshotSQL    = "SELECT product_id, seller_id, quantity, price FROM basket_lines WHERE basket_id = \\$1"
	insertOrderSQL = "INSERT INTO orders \\(shopper_id, order_date, status\\)"
	insertLineSQL  = "INSERT INTO order_lines \\(order_id, product_id, seller_id, quantity, price, status\\)"
	clearBasketSQL = "DELETE FROM basket_lines WHERE basket_id = \\$1"
)

func snapshotRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"product_id", "seller_id", "quantity", "price"})
}

func TestRepository_Commit(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(lockBasketSQL).
			WithArgs(int64(7), int64(1), testDay).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectQuery(snapshotSQL).
			WithArgs(int64(7)).
			WillReturnRows(snapshotRows().
				AddRow(10, 1, 2, "1.50").
				AddRow(20, 2, 1, "2.00"))
		mock.ExpectQuery(insertOrderSQL).
			WithArgs(int64(1), testDay, "Placed").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(500))
		mock.ExpectQuery(insertLineSQL).
			WithArgs(int64(500), int64(10), int64(1), 2, sqlmock.AnyArg(), "Placed").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9001))
		mock.ExpectQuery(insertLineSQL).
			WithArgs(int64(500), int64(20), int64(2), 1, sqlmock.AnyArg(), "Placed").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9002))
		mock.ExpectExec(clearBasketSQL).
			WithArgs(int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		o, err := repo.Commit(context.Background(), 7, 1, testDay)

		require.NoError(t, err)
		assert.Equal(t, int64(500), o.ID)
		assert.Equal(t, StatusPlaced, o.Status)
		assert.Equal(t, testDay, o.OrderDate)
		require.Len(t, o.Lines, 2)
		for _, l := range o.Lines {
			assert.Equal(t, StatusPlaced, l.Status)
			assert.Equal(t, int64(500), l.OrderID)
		}
		assert.Equal(t, "5.00", o.Total().StringFixed(2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("LineInsertFailureRollsBackEverything", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(lockBasketSQL).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectQuery(snapshotSQL).
			WillReturnRows(snapshotRows().
				AddRow(10, 1, 2, "1.50").
				AddRow(20, 2, 1, "2.00").
				AddRow(30, 3, 4, "0.99"))
		mock.ExpectQuery(insertOrderSQL).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(500))
		mock.ExpectQuery(insertLineSQL).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9001))
		mock.ExpectQuery(insertLineSQL).
			WillReturnError(errors.New("disk full"))
		// No basket delete and no commit may follow.
		mock.ExpectRollback()

		o, err := repo.Commit(context.Background(), 7, 1, testDay)

		assert.Nil(t, o)
		assert.ErrorIs(t, err, apperror.ErrStorage)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("EmptyBasket", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(lockBasketSQL).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectQuery(snapshotSQL).
			WillReturnRows(snapshotRows())
		mock.ExpectRollback()

		_, err = repo.Commit(context.Background(), 7, 1, testDay)

		assert.ErrorIs(t, err, ErrEmptyBasket)
		assert.ErrorIs(t, err, apperror.ErrEmptyState)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("BasketNotOwnedOrNotToday", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(lockBasketSQL).
			WithArgs(int64(7), int64(2), testDay).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err = repo.Commit(context.Background(), 7, 2, testDay)

		assert.ErrorIs(t, err, ErrNoActiveBasket)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("BeginFailure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		_, err = repo.Commit(context.Background(), 7, 1, testDay)

		assert.ErrorIs(t, err, apperror.ErrStorage)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ClearFailureRollsBack", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(lockBasketSQL).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectQuery(snapshotSQL).
			WillReturnRows(snapshotRows().AddRow(10, 1, 2, "1.50"))
		mock.ExpectQuery(insertOrderSQL).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(500))
		mock.ExpectQuery(insertLineSQL).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9001))
		mock.ExpectExec(clearBasketSQL).
			WillReturnError(errors.New("lock timeout"))
		mock.ExpectRollback()

		_, err = repo.Commit(context.Background(), 7, 1, testDay)

		assert.ErrorIs(t, err, apperror.ErrStorage)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CommitFailure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(lockBasketSQL).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectQuery(snapshotSQL).
			WillReturnRows(snapshotRows().AddRow(10, 1, 2, "1.50"))
		mock.ExpectQuery(insertOrderSQL).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(500))
		mock.ExpectQuery(insertLineSQL).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9001))
		mock.ExpectExec(clearBasketSQL).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

		_, err = repo.Commit(context.Background(), 7, 1, testDay)

		assert.ErrorIs(t, err, apperror.ErrStorage)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_History(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	cols := []string{"id", "order_date", "description", "name", "quantity", "price", "status"}
	yesterday := testDay.AddDate(0, 0, -1)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY o.order_date DESC, o.id DESC, ol.id")).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(cols).
				AddRow(501, testDay, "Apples", "SellerA", 2, "1.50", "Placed").
				AddRow(501, testDay, "Bread", "SellerB", 1, "2.00", "Placed").
				AddRow(400, yesterday, "Milk", "SellerA", 1, "0.89", "Delivered"))

		rows, err := repo.History(context.Background(), 1)

		assert.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, int64(501), rows[0].OrderID)
		assert.Equal(t, StatusPlaced, rows[0].Status)
		assert.True(t, decimal.RequireFromString("2.00").Equal(rows[1].Price))
		assert.Equal(t, Status("Delivered"), rows[2].Status)
	})

	t.Run("Empty", func(t *testing.T) {
		mock.ExpectQuery("SELECT .* FROM orders o JOIN order_lines ol").
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows(cols))

		rows, err := repo.History(context.Background(), 2)

		assert.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectQuery("SELECT .* FROM orders o").
			WillReturnError(errors.New("db error"))

		_, err := repo.History(context.Background(), 1)
		assert.ErrorIs(t, err, apperror.ErrStorage)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
