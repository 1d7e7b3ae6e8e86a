package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omegashop/internal/domain"
	apperrors "omegashop/internal/errors"
	"omegashop/internal/testutil"
)

func TestMySQLOrderRepository_CreateAndFind(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLOrderRepository(db)
	ctx := context.Background()

	order := domain.Order{
		Amount:     1300,
		Status:     domain.OrderStatusPending,
		CustomerID: 1,
		VendorIDs:  []int{100, 200},
	}
	items := []domain.OrderItem{
		{ProductID: 10, Qty: 2, Total: 1000},
		{ProductID: 11, Qty: 1, Total: 300},
	}

	created, err := repo.Create(ctx, order, items)
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	assert.Equal(t, int64(1300), created.Amount)
	assert.Equal(t, domain.OrderStatusPending, created.Status)
	assert.Equal(t, []int{100, 200}, created.VendorIDs)
	require.Len(t, created.Items, 2)
	assert.Equal(t, created.ID, created.Items[0].OrderID)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Amount, found.Amount)
	assert.Equal(t, created.VendorIDs, found.VendorIDs)

	foundItems, err := repo.FindItems(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, foundItems, 2)
	assert.Equal(t, int64(1000), foundItems[0].Total)
	assert.Equal(t, int64(300), foundItems[1].Total)
}

func TestMySQLOrderRepository_FindByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLOrderRepository(db)

	_, err := repo.FindByID(context.Background(), 999999)
	require.Error(t, err)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestMySQLOrderRepository_Create_RollsBackOnItemFailure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLOrderRepository(db)
	ctx := context.Background()

	var before int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM orders").Scan(&before))

	// qty column is NOT NULL INT; overflowing it fails the item insert after
	// the header insert succeeded.
	_, err := repo.Create(ctx, domain.Order{
		Amount:     100,
		Status:     domain.OrderStatusPending,
		CustomerID: 1,
		VendorIDs:  []int{100},
	}, []domain.OrderItem{
		{ProductID: 10, Qty: 1, Total: 100},
		{ProductID: 11, Qty: 1 << 40, Total: 100},
	})
	require.Error(t, err)

	var after int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM orders").Scan(&after))
	assert.Equal(t, before, after, "header insert must be rolled back")

	var itemCount int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM order_items").Scan(&itemCount))
	assert.Zero(t, itemCount)
}

func TestMySQLOrderRepository_ListByCustomer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLOrderRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, domain.Order{
			Amount:     int64(100 * (i + 1)),
			Status:     domain.OrderStatusPending,
			CustomerID: 1,
			VendorIDs:  []int{100},
		}, []domain.OrderItem{{ProductID: 10, Qty: 1, Total: int64(100 * (i + 1))}})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, domain.Order{
		Amount:     500,
		Status:     domain.OrderStatusPending,
		CustomerID: 2,
		VendorIDs:  []int{100},
	}, []domain.OrderItem{{ProductID: 10, Qty: 5, Total: 500}})
	require.NoError(t, err)

	orders, err := repo.ListByCustomer(ctx, 1)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	for _, order := range orders {
		assert.Equal(t, 1, order.CustomerID)
	}
}

func TestMySQLOrderRepository_ListAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLOrderRepository(db)
	ctx := context.Background()

	for customerID := 1; customerID <= 2; customerID++ {
		_, err := repo.Create(ctx, domain.Order{
			Amount:     400,
			Status:     domain.OrderStatusPending,
			CustomerID: customerID,
			VendorIDs:  []int{100},
		}, []domain.OrderItem{{ProductID: 10, Qty: 4, Total: 400}})
		require.NoError(t, err)
	}

	orders, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	customers := map[int]bool{}
	for _, order := range orders {
		customers[order.CustomerID] = true
	}
	assert.Len(t, customers, 2)
}

func TestMySQLOrderRepository_UpdateStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLOrderRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, domain.Order{
		Amount:     100,
		Status:     domain.OrderStatusPending,
		CustomerID: 1,
		VendorIDs:  []int{100},
	}, []domain.OrderItem{{ProductID: 10, Qty: 1, Total: 100}})
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(ctx, created.ID, domain.OrderStatusCompleted))

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, found.Status)
}
