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

func TestMySQLVendorRepository_InsertAndFind(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLVendorRepository(db)
	ctx := context.Background()

	id, err := repo.Insert(ctx, domain.Vendor{
		Name:     "Acme Store",
		Slug:     "acme-store",
		Status:   domain.VendorStatusActive,
		AuthorID: 42,
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	found, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Acme Store", found.Name)
	assert.Equal(t, "acme-store", found.Slug)
	assert.Equal(t, 42, found.AuthorID)
}

func TestMySQLVendorRepository_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLVendorRepository(db)
	ctx := context.Background()

	id, err := repo.Insert(ctx, domain.Vendor{
		Name:     "Acme Store",
		Slug:     "acme-store",
		Status:   domain.VendorStatusActive,
		AuthorID: 42,
	})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, id))

	_, err = repo.FindByID(ctx, id)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok, "expected not found after delete, got %v", err)
}
