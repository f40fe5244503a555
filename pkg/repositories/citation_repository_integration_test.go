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

func createFixtureCitation(t *testing.T, db *testhelpers.TestDB) *models.Citation {
	t.Helper()

	code := createFixtureCode(t, db)
	violation := createFixtureViolation(t, db, []int64{code.ID})
	user := createFixtureUser(t, db)

	repo := NewCitationRepository(db.DB)
	fine := 250
	citation := &models.Citation{
		Fine:        &fine,
		ViolationID: violation.ID,
		UserID:      user.ID,
		CodeID:      code.ID,
	}
	require.NoError(t, repo.Create(context.Background(), citation))
	return citation
}

func TestCitationRepository_CreateAndGet(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	repo := NewCitationRepository(testDB.DB)
	ctx := context.Background()

	citation := createFixtureCitation(t, testDB)
	require.NotZero(t, citation.ID)

	got, err := repo.GetByID(ctx, citation.ID)
	require.NoError(t, err)
	assert.Equal(t, citation.ViolationID, got.ViolationID)
	require.NotNil(t, got.Fine)
	assert.Equal(t, 250, *got.Fine)
}

func TestCitationRepository_List(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	repo := NewCitationRepository(testDB.DB)

	citation := createFixtureCitation(t, testDB)

	citations, err := repo.List(context.Background(), 0)
	require.NoError(t, err)

	found := false
	for _, c := range citations {
		if c.ID == citation.ID {
			found = true
		}
	}
	assert.True(t, found, "expected created citation in listing")
}

func TestCitationRepository_DeleteThenGet(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	repo := NewCitationRepository(testDB.DB)
	ctx := context.Background()

	citation := createFixtureCitation(t, testDB)

	require.NoError(t, repo.Delete(ctx, citation.ID))

	_, err := repo.GetByID(ctx, citation.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCitationRepository_ListByViolation_Denormalized(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	repo := NewCitationRepository(testDB.DB)

	citation := createFixtureCitation(t, testDB)

	citations, err := repo.ListByViolation(context.Background(), citation.ViolationID)
	require.NoError(t, err)
	require.Len(t, citations, 1)
	assert.NotNil(t, citations[0].Combadd)
	assert.NotNil(t, citations[0].CodeName)
}
