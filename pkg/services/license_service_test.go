package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/civicodehq/civicode-engine/pkg/apperrors"
	"github.com/civicodehq/civicode-engine/pkg/models"
)

func TestFiscalYearFor(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2024-06-30", "2023-2024"},
		{"2024-07-01", "2024-2025"},
		{"2025-01-15", "2024-2025"},
		{"2025-12-01", "2025-2026"},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d, err := time.Parse("2006-01-02", tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.want, FiscalYearFor(d))
		})
	}
}

func TestFiscalYearEnd(t *testing.T) {
	d := time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), FiscalYearEnd(d))

	d = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), FiscalYearEnd(d))
}

func newLicenseService(licenses *mockLicenseRepo, inspections *mockInspectionRepo, businesses *mockBusinessRepo, addresses *mockAddressRepo) LicenseService {
	return NewLicenseService(licenses, inspections, businesses, addresses, zap.NewNop())
}

func TestCreateLicenseIdempotentPerInspection(t *testing.T) {
	licenses := &mockLicenseRepo{licenses: []*models.License{
		{ID: 5, InspectionID: 7, LicenseType: LicenseTypeBusiness},
	}}
	inspections := &mockInspectionRepo{inspections: []*models.Inspection{{ID: 7, AddressID: 1}}}

	svc := newLicenseService(licenses, inspections, &mockBusinessRepo{}, &mockAddressRepo{})

	got, err := svc.Create(context.Background(), &LicenseCreateInput{
		InspectionID: 7,
		LicenseType:  LicenseTypeBusiness,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.ID)
	assert.Len(t, licenses.licenses, 1)
}

func TestCreateLicenseDuplicateNumberConflicts(t *testing.T) {
	number := "BL-100"
	licenses := &mockLicenseRepo{licenses: []*models.License{
		{ID: 1, InspectionID: 2, LicenseNumber: &number},
	}}
	inspections := &mockInspectionRepo{inspections: []*models.Inspection{{ID: 9, AddressID: 1}}}

	svc := newLicenseService(licenses, inspections, &mockBusinessRepo{}, &mockAddressRepo{})

	_, err := svc.Create(context.Background(), &LicenseCreateInput{
		InspectionID:  9,
		LicenseType:   LicenseTypeBusiness,
		LicenseNumber: &number,
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestCreateLicenseDefaultsFiscalFields(t *testing.T) {
	licenses := &mockLicenseRepo{}
	inspections := &mockInspectionRepo{inspections: []*models.Inspection{{ID: 3, AddressID: 1}}}

	svc := newLicenseService(licenses, inspections, &mockBusinessRepo{}, &mockAddressRepo{})

	got, err := svc.Create(context.Background(), &LicenseCreateInput{
		InspectionID: 3,
		LicenseType:  LicenseTypeSingleFamily,
	})
	require.NoError(t, err)

	require.NotNil(t, got.FiscalYear)
	assert.Equal(t, FiscalYearFor(time.Now()), *got.FiscalYear)
	require.NotNil(t, got.DateIssued)
	require.NotNil(t, got.ExpirationDate)
	assert.Equal(t, time.June, got.ExpirationDate.Month())
	assert.Equal(t, 30, got.ExpirationDate.Day())
}

func TestCreateBusinessLicenseStampsInspection(t *testing.T) {
	businessAddr := int64(44)
	licenses := &mockLicenseRepo{}
	inspections := &mockInspectionRepo{}
	businesses := &mockBusinessRepo{businesses: []*models.Business{
		{ID: 6, AddressID: &businessAddr},
	}}

	svc := newLicenseService(licenses, inspections, businesses, &mockAddressRepo{})

	businessID := int64(6)
	got, err := svc.Create(context.Background(), &LicenseCreateInput{
		LicenseType: LicenseTypeBusiness,
		BusinessID:  &businessID,
	})
	require.NoError(t, err)

	require.Len(t, inspections.inspections, 1)
	created := inspections.inspections[0]
	assert.Equal(t, businessAddr, created.AddressID)
	require.NotNil(t, created.Source)
	assert.Equal(t, "Business License", *created.Source)
	assert.Equal(t, created.ID, got.InspectionID)
}

func TestCreateHousingLicenseRequiresAddress(t *testing.T) {
	svc := newLicenseService(&mockLicenseRepo{}, &mockInspectionRepo{}, &mockBusinessRepo{}, &mockAddressRepo{})

	_, err := svc.Create(context.Background(), &LicenseCreateInput{
		LicenseType: LicenseTypeMultifamily,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
