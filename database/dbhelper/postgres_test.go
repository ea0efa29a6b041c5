package dbhelper

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ray-remotestate/swiftserve/database"
	"github.com/ray-remotestate/swiftserve/models"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(&database.DB{DB: db, Driver: database.DriverPostgres}), mock
}

func TestPostgresGetMenuItemUsesDollarPlaceholders(t *testing.T) {
	s, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "name", "description", "price", "category", "available", "preparation_time", "tags", "nutrition_info", "ai_recommended", "image"}).
		AddRow("item2", "Paneer Tikka", "Grilled cottage cheese", 280, "Appetizers", true, 15, []byte(`["Vegetarian","Grilled"]`), []byte(`{"calories":320,"protein":18,"carbs":12,"fat":22}`), false, "")
	mock.ExpectQuery(regexp.QuoteMeta("FROM menu_items WHERE id = $1")).
		WithArgs("item2").
		WillReturnRows(rows)

	item, err := s.GetMenuItem(context.Background(), "item2")
	require.NoError(t, err)
	assert.Equal(t, "Paneer Tikka", item.Name)
	assert.Equal(t, []string{"Vegetarian", "Grilled"}, item.Tags)
	require.NotNil(t, item.NutritionInfo)
	assert.Equal(t, 320, item.NutritionInfo.Calories)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetMenuItemNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM menu_items WHERE id = $1")).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetMenuItem(context.Background(), "nope")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPostgresUpdateOrderStatusRecordsHistory(t *testing.T) {
	s, mock := newMockStore(t)
	at := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET status = $1, updated_at = $2")).
		WithArgs(models.OrderStatusReady, at, "order-1", models.OrderStatusPreparing).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO order_status_history")).
		WithArgs("order-1", models.OrderStatusPreparing, models.OrderStatusReady, at).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := s.UpdateOrderStatus(context.Background(), models.StatusChange{
		OrderID: "order-1", From: models.OrderStatusPreparing, To: models.OrderStatusReady, ChangedAt: at,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateOrderRollsBackOnHistoryFailure(t *testing.T) {
	s, mock := newMockStore(t)
	at := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	o := sampleOrder("order-9", 2, at)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO orders")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO order_status_history")).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := s.CreateOrder(context.Background(), o, models.StatusChange{OrderID: o.ID, To: models.OrderStatusNew, ChangedAt: at})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListOrdersBuildsFilter(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM orders WHERE table_number = $1 AND status NOT IN ($2, $3) ORDER BY timestamp DESC")).
		WithArgs(5, models.OrderStatusCompleted, models.OrderStatusCancelled).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	orders, err := s.ListOrders(context.Background(), models.OrderFilter{Table: 5, Active: true})
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.NoError(t, mock.ExpectationsWereMet())
}
