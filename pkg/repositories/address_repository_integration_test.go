package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicodehq/civicode-engine/pkg/apperrors"
	"github.com/civicodehq/civicode-engine/pkg/models"
	"github.com/civicodehq/civicode-engine/pkg/testhelpers"
)

func newTestAddress(combadd string) *models.Address {
	owner := "SMITH, JOHN"
	street := "MAIN ST"
	return &models.Address{
		Combadd:    &combadd,
		OwnerName:  &owner,
		StreetName: &street,
		PropType:   1,
	}
}

func TestAddressRepository_CreateAndGet(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	repo := NewAddressRepository(testDB.DB)
	ctx := context.Background()

	combadd := fmt.Sprintf("101 MAIN ST %d", time.Now().UnixNano())
	address := newTestAddress(combadd)

	require.NoError(t, repo.Create(ctx, address))
	require.NotZero(t, address.ID)
	assert.False(t, address.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, address.ID)
	require.NoError(t, err)
	assert.Equal(t, combadd, *got.Combadd)
	assert.Equal(t, "SMITH, JOHN", *got.OwnerName)
}

func TestAddressRepository_GetByID_NotFound(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	repo := NewAddressRepository(testDB.DB)

	_, err := repo.GetByID(context.Background(), 999999999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAddressRepository_Search(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	repo := NewAddressRepository(testDB.DB)
	ctx := context.Background()

	marker := fmt.Sprintf("ELM AVE %d", time.Now().UnixNano())
	address := newTestAddress("42 " + marker)
	require.NoError(t, repo.Create(ctx, address))

	// Search is case-insensitive on the combined address
	results, err := repo.Search(ctx, "elm ave", 20)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	found := false
	for _, r := range results {
		if r.ID == address.ID {
			found = true
		}
	}
	assert.True(t, found, "expected created address in search results")
}

func TestAddressRepository_Units(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	repo := NewAddressRepository(testDB.DB)
	ctx := context.Background()

	address := newTestAddress(fmt.Sprintf("7 OAK CT %d", time.Now().UnixNano()))
	require.NoError(t, repo.Create(ctx, address))

	unit := &models.Unit{Number: "2B", AddressID: address.ID}
	require.NoError(t, repo.CreateUnit(ctx, unit))
	require.NotZero(t, unit.ID)

	got, err := repo.GetUnitUnderAddress(ctx, address.ID, unit.ID)
	require.NoError(t, err)
	assert.Equal(t, "2B", got.Number)

	// A unit is only reachable under its own address
	_, err = repo.GetUnitUnderAddress(ctx, address.ID+1, unit.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	units, err := repo.ListUnits(ctx, address.ID)
	require.NoError(t, err)
	assert.Len(t, units, 1)
}

func TestAddressRepository_Delete(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	repo := NewAddressRepository(testDB.DB)
	ctx := context.Background()

	address := newTestAddress(fmt.Sprintf("9 PINE RD %d", time.Now().UnixNano()))
	require.NoError(t, repo.Create(ctx, address))

	require.NoError(t, repo.Delete(ctx, address.ID))

	_, err := repo.GetByID(ctx, address.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, address.ID), apperrors.ErrNotFound)
}
