package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicodehq/civicode-engine/pkg/apperrors"
	"github.com/civicodehq/civicode-engine/pkg/testhelpers"
)

func TestCodeRepository_CreateAndGet(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	repo := NewCodeRepository(testDB.DB)
	ctx := context.Background()

	code := createFixtureCode(t, testDB)
	require.NotZero(t, code.ID)

	got, err := repo.GetByID(ctx, code.ID)
	require.NoError(t, err)
	assert.Equal(t, code.Section, got.Section)
	assert.Equal(t, "Fixture code", got.Name)
}

func TestCodeRepository_DeleteThenGet(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	repo := NewCodeRepository(testDB.DB)
	ctx := context.Background()

	code := createFixtureCode(t, testDB)

	require.NoError(t, repo.Delete(ctx, code.ID))

	_, err := repo.GetByID(ctx, code.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCodeRepository_Search(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	repo := NewCodeRepository(testDB.DB)

	code := createFixtureCode(t, testDB)

	results, err := repo.Search(context.Background(), code.Section)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, code.ID, results[0].ID)
}
