package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/civicodehq/civicode-engine/pkg/models"
	"github.com/civicodehq/civicode-engine/pkg/testhelpers"
)

// Fixture helpers shared by the integration tests in this package. Each
// creates a minimal valid row and fails the test on error.

func createFixtureUser(t *testing.T, db *testhelpers.TestDB) *models.User {
	t.Helper()

	repo := NewUserRepository(db.DB)
	user := &models.User{
		Email:             fmt.Sprintf("inspector%d@example.com", time.Now().UnixNano()),
		EncryptedPassword: "$2a$10$fixturehashfixturehashfixturehashfixtureha",
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func createFixtureAddress(t *testing.T, db *testhelpers.TestDB) *models.Address {
	t.Helper()

	repo := NewAddressRepository(db.DB)
	address := newTestAddress(fmt.Sprintf("1 FIXTURE ST %d", time.Now().UnixNano()))
	require.NoError(t, repo.Create(context.Background(), address))
	return address
}

func createFixtureCode(t *testing.T, db *testhelpers.TestDB) *models.Code {
	t.Helper()

	repo := NewCodeRepository(db.DB)
	description := "Fixture code section"
	code := &models.Code{
		Chapter:     "7",
		Section:     fmt.Sprintf("999.%d", time.Now().UnixNano()),
		Name:        "Fixture code",
		Description: &description,
	}
	require.NoError(t, repo.Create(context.Background(), code))
	return code
}
