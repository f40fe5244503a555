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

func createFixtureViolation(t *testing.T, db *testhelpers.TestDB, codeIDs []int64) *models.Violation {
	t.Helper()

	address := createFixtureAddress(t, db)
	user := createFixtureUser(t, db)

	repo := NewViolationRepository(db.DB)
	description := "Overgrown vegetation at rear of property"
	violation := &models.Violation{
		Description:   &description,
		AddressID:     address.ID,
		UserID:        user.ID,
		Deadline:      "Immediate",
		ViolationType: "exterior",
	}
	require.NoError(t, repo.Create(context.Background(), violation, codeIDs))
	return violation
}

func TestViolationRepository_CreateAndGet(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	repo := NewViolationRepository(testDB.DB)
	ctx := context.Background()

	code := createFixtureCode(t, testDB)
	violation := createFixtureViolation(t, testDB, []int64{code.ID})
	require.NotZero(t, violation.ID)

	got, err := repo.GetByID(ctx, violation.ID)
	require.NoError(t, err)
	assert.Equal(t, *violation.Description, *got.Description)
	require.NotNil(t, got.Combadd, "expected joined address combadd")
}

func TestViolationRepository_List(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	repo := NewViolationRepository(testDB.DB)

	violation := createFixtureViolation(t, testDB, nil)

	violations, err := repo.List(context.Background(), 0)
	require.NoError(t, err)

	found := false
	for _, v := range violations {
		if v.ID == violation.ID {
			found = true
		}
	}
	assert.True(t, found, "expected created violation in listing")
}

func TestViolationRepository_DeleteThenGet(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	repo := NewViolationRepository(testDB.DB)
	ctx := context.Background()

	violation := createFixtureViolation(t, testDB, nil)

	require.NoError(t, repo.Delete(ctx, violation.ID))

	_, err := repo.GetByID(ctx, violation.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestViolationRepository_DeleteWithCitation_Conflict(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	violations := NewViolationRepository(testDB.DB)
	citations := NewCitationRepository(testDB.DB)
	ctx := context.Background()

	code := createFixtureCode(t, testDB)
	violation := createFixtureViolation(t, testDB, []int64{code.ID})
	user := createFixtureUser(t, testDB)

	citation := &models.Citation{
		ViolationID: violation.ID,
		UserID:      user.ID,
		CodeID:      code.ID,
	}
	require.NoError(t, citations.Create(ctx, citation))

	assert.ErrorIs(t, violations.Delete(ctx, violation.ID), apperrors.ErrConflict)
}
