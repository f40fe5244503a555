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

func createFixtureContact(t *testing.T, db *testhelpers.TestDB, hidden bool) *models.Contact {
	t.Helper()

	repo := NewContactRepository(db.DB)
	name := fmt.Sprintf("Jordan Fixture %d", time.Now().UnixNano())
	email := fmt.Sprintf("jordan%d@example.com", time.Now().UnixNano())
	contact := &models.Contact{
		Name:   &name,
		Email:  &email,
		Hidden: hidden,
	}
	require.NoError(t, repo.Create(context.Background(), contact))
	return contact
}

func TestContactRepository_CreateAndGet(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	repo := NewContactRepository(testDB.DB)
	ctx := context.Background()

	contact := createFixtureContact(t, testDB, false)
	require.NotZero(t, contact.ID)

	got, err := repo.GetByID(ctx, contact.ID)
	require.NoError(t, err)
	assert.Equal(t, *contact.Name, *got.Name)
}

func TestContactRepository_DeleteThenGet(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	repo := NewContactRepository(testDB.DB)
	ctx := context.Background()

	contact := createFixtureContact(t, testDB, false)

	require.NoError(t, repo.Delete(ctx, contact.ID))

	_, err := repo.GetByID(ctx, contact.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestContactRepository_Search_ExcludesHidden(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	repo := NewContactRepository(testDB.DB)

	visible := createFixtureContact(t, testDB, false)
	hidden := createFixtureContact(t, testDB, true)

	results, err := repo.Search(context.Background(), *visible.Name)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, visible.ID, results[0].ID)

	results, err = repo.Search(context.Background(), *hidden.Name)
	require.NoError(t, err)
	assert.Empty(t, results)
}
