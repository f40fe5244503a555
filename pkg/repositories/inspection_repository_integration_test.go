package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicodehq/civicode-engine/pkg/apperrors"
	"github.com/civicodehq/civicode-engine/pkg/models"
	"github.com/civicodehq/civicode-engine/pkg/testhelpers"
)

func createFixtureInspection(t *testing.T, db *testhelpers.TestDB) *models.Inspection {
	t.Helper()

	address := createFixtureAddress(t, db)

	repo := NewInspectionRepository(db.DB)
	source := "Complaint"
	status := "pending"
	inspection := &models.Inspection{
		Source:    &source,
		Status:    &status,
		AddressID: address.ID,
	}
	require.NoError(t, repo.Create(context.Background(), inspection))
	return inspection
}

func TestInspectionRepository_CreateAndGet(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	repo := NewInspectionRepository(testDB.DB)
	ctx := context.Background()

	inspection := createFixtureInspection(t, testDB)
	require.NotZero(t, inspection.ID)

	got, err := repo.GetByID(ctx, inspection.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Source)
	assert.Equal(t, "Complaint", *got.Source)
	assert.Equal(t, inspection.AddressID, got.AddressID)
}

func TestInspectionRepository_GetByID_NotFound(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	repo := NewInspectionRepository(testDB.DB)

	_, err := repo.GetByID(context.Background(), 999999999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestInspectionRepository_UpdateStatus(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	repo := NewInspectionRepository(testDB.DB)
	ctx := context.Background()

	inspection := createFixtureInspection(t, testDB)

	updated, err := repo.UpdateStatus(ctx, inspection.ID, "completed")
	require.NoError(t, err)
	require.NotNil(t, updated.Status)
	assert.Equal(t, "completed", *updated.Status)
}

func TestInspectionRepository_ReplaceCodes(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	repo := NewInspectionRepository(testDB.DB)
	ctx := context.Background()

	inspection := createFixtureInspection(t, testDB)
	first := createFixtureCode(t, testDB)
	second := createFixtureCode(t, testDB)

	require.NoError(t, repo.ReplaceCodes(ctx, inspection.ID, []int64{first.ID, second.ID}))

	codes, err := repo.ListCodes(ctx, inspection.ID)
	require.NoError(t, err)
	assert.Len(t, codes, 2)

	// Replacing swaps the whole set
	require.NoError(t, repo.ReplaceCodes(ctx, inspection.ID, []int64{second.ID}))

	codes, err = repo.ListCodes(ctx, inspection.ID)
	require.NoError(t, err)
	require.Len(t, codes, 1)
	assert.Equal(t, second.ID, codes[0].ID)
}
