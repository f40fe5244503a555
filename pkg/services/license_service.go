package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/civicodehq/civicode-engine/pkg/apperrors"
	"github.com/civicodehq/civicode-engine/pkg/models"
	"github.com/civicodehq/civicode-engine/pkg/repositories"
)

// License types.
const (
	LicenseTypeBusiness     = 1
	LicenseTypeSingleFamily = 2
	LicenseTypeMultifamily  = 3
)

// LicenseCreateInput is the create payload. AddressID is only a hint for
// housing licenses created without an inspection.
type LicenseCreateInput struct {
	InspectionID   int64      `json:"inspection_id"`
	LicenseType    int        `json:"license_type"`
	BusinessID     *int64     `json:"business_id"`
	AddressID      *int64     `json:"address_id"`
	LicenseNumber  *string    `json:"license_number"`
	Sent           *bool      `json:"sent"`
	Revoked        *bool      `json:"revoked"`
	DateIssued     *time.Time `json:"date_issued"`
	ExpirationDate *time.Time `json:"expiration_date"`
	Conditions     *string    `json:"conditions"`
	Paid           bool       `json:"paid"`
}

// LicenseUpdate carries a partial license update. Nil fields are left
// unchanged.
type LicenseUpdate struct {
	Sent           *bool      `json:"sent"`
	Revoked        *bool      `json:"revoked"`
	FiscalYear     *string    `json:"fiscal_year"`
	ExpirationDate *time.Time `json:"expiration_date"`
	LicenseType    *int       `json:"license_type"`
	BusinessID     *int64     `json:"business_id"`
	LicenseNumber  *string    `json:"license_number"`
	DateIssued     *time.Time `json:"date_issued"`
	Conditions     *string    `json:"conditions"`
	Paid           *bool      `json:"paid"`
}

// LicenseService manages licenses. One license per inspection: creating
// against an inspection that already has one returns the existing row.
// Licenses created without an inspection get one stamped out from the
// business or address, sourced by license type.
type LicenseService interface {
	Create(ctx context.Context, input *LicenseCreateInput) (*models.License, error)
	Update(ctx context.Context, licenseID int64, update *LicenseUpdate) (*models.License, error)
	Delete(ctx context.Context, licenseID int64) error
	GetByID(ctx context.Context, licenseID int64) (*models.License, error)
	List(ctx context.Context, skip int) ([]*models.License, error)
}

type licenseService struct {
	licenses    repositories.LicenseRepository
	inspections repositories.InspectionRepository
	businesses  repositories.BusinessRepository
	addresses   repositories.AddressRepository
	logger      *zap.Logger
}

// NewLicenseService creates a new LicenseService.
func NewLicenseService(
	licenses repositories.LicenseRepository,
	inspections repositories.InspectionRepository,
	businesses repositories.BusinessRepository,
	addresses repositories.AddressRepository,
	logger *zap.Logger,
) LicenseService {
	return &licenseService{
		licenses:    licenses,
		inspections: inspections,
		businesses:  businesses,
		addresses:   addresses,
		logger:      logger.Named("license-service"),
	}
}

var _ LicenseService = (*licenseService)(nil)

// FiscalYearFor returns the July-to-June fiscal year label containing t,
// e.g. "2024-2025" for any date from 2024-07-01 through 2025-06-30.
func FiscalYearFor(t time.Time) string {
	endYear := t.Year()
	if t.Month() >= time.July {
		endYear++
	}
	return fmt.Sprintf("%d-%d", endYear-1, endYear)
}

// FiscalYearEnd returns June 30 of the fiscal year containing t.
func FiscalYearEnd(t time.Time) time.Time {
	endYear := t.Year()
	if t.Month() >= time.July {
		endYear++
	}
	return time.Date(endYear, time.June, 30, 0, 0, 0, 0, time.UTC)
}

func (s *licenseService) Create(ctx context.Context, input *LicenseCreateInput) (*models.License, error) {
	if input.InspectionID != 0 {
		existing, err := s.licenses.GetByInspection(ctx, input.InspectionID)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}

	var licenseNumber *string
	if input.LicenseNumber != nil {
		trimmed := strings.TrimSpace(*input.LicenseNumber)
		if trimmed != "" {
			if _, err := s.licenses.GetByNumber(ctx, trimmed); err == nil {
				return nil, apperrors.ErrConflict
			} else if !errors.Is(err, apperrors.ErrNotFound) {
				return nil, err
			}
			licenseNumber = &trimmed
		}
	}

	inspectionID := input.InspectionID
	if inspectionID == 0 {
		inspection, err := s.createInspectionFor(ctx, input)
		if err != nil {
			return nil, err
		}
		inspectionID = inspection.ID
		if input.BusinessID == nil {
			input.BusinessID = inspection.BusinessID
		}
	}

	if input.BusinessID == nil {
		if inspection, err := s.inspections.GetByID(ctx, inspectionID); err == nil {
			input.BusinessID = inspection.BusinessID
		}
	}

	now := time.Now()
	fiscalYear := FiscalYearFor(now)

	dateIssued := input.DateIssued
	if dateIssued == nil {
		dateIssued = &now
	}
	expiration := input.ExpirationDate
	if expiration == nil {
		end := FiscalYearEnd(now)
		expiration = &end
	}

	license := &models.License{
		InspectionID:   inspectionID,
		Sent:           input.Sent,
		Revoked:        input.Revoked,
		FiscalYear:     &fiscalYear,
		ExpirationDate: expiration,
		LicenseType:    input.LicenseType,
		BusinessID:     input.BusinessID,
		LicenseNumber:  licenseNumber,
		DateIssued:     dateIssued,
		Conditions:     input.Conditions,
		Paid:           input.Paid,
	}

	if err := s.licenses.Create(ctx, license); err != nil {
		return nil, err
	}

	return s.licenses.GetByID(ctx, license.ID)
}

// createInspectionFor backfills the inspection a license hangs off when the
// caller did not supply one.
func (s *licenseService) createInspectionFor(ctx context.Context, input *LicenseCreateInput) (*models.Inspection, error) {
	switch input.LicenseType {
	case LicenseTypeBusiness:
		if input.BusinessID == nil {
			return nil, fmt.Errorf("business_id is required for business licenses: %w", apperrors.ErrInvalidInput)
		}
		business, err := s.businesses.GetByID(ctx, *input.BusinessID)
		if err != nil {
			return nil, err
		}
		if business.AddressID == nil {
			return nil, fmt.Errorf("business has no address on file: %w", apperrors.ErrInvalidInput)
		}

		source := "Business License"
		inspection := &models.Inspection{
			AddressID:  *business.AddressID,
			Source:     &source,
			BusinessID: &business.ID,
		}
		if err := s.inspections.Create(ctx, inspection); err != nil {
			return nil, err
		}
		return inspection, nil

	case LicenseTypeSingleFamily, LicenseTypeMultifamily:
		if input.AddressID == nil {
			return nil, fmt.Errorf("address_id is required for housing licenses: %w", apperrors.ErrInvalidInput)
		}
		address, err := s.addresses.GetByID(ctx, *input.AddressID)
		if err != nil {
			return nil, err
		}

		source := "Single Family License"
		if input.LicenseType == LicenseTypeMultifamily {
			source = "Multifamily License"
		}
		inspection := &models.Inspection{
			AddressID: address.ID,
			Source:    &source,
		}
		if err := s.inspections.Create(ctx, inspection); err != nil {
			return nil, err
		}
		return inspection, nil

	default:
		return nil, fmt.Errorf("unsupported license type %d: %w", input.LicenseType, apperrors.ErrInvalidInput)
	}
}

func (s *licenseService) Update(ctx context.Context, licenseID int64, update *LicenseUpdate) (*models.License, error) {
	license, err := s.licenses.GetByID(ctx, licenseID)
	if err != nil {
		return nil, err
	}

	if update.LicenseNumber != nil {
		trimmed := strings.TrimSpace(*update.LicenseNumber)
		if trimmed == "" {
			license.LicenseNumber = nil
		} else {
			existing, err := s.licenses.GetByNumber(ctx, trimmed)
			if err == nil && existing.ID != licenseID {
				return nil, apperrors.ErrConflict
			}
			if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				return nil, err
			}
			license.LicenseNumber = &trimmed
		}
	}

	if update.Sent != nil {
		license.Sent = update.Sent
	}
	if update.Revoked != nil {
		license.Revoked = update.Revoked
	}
	if update.FiscalYear != nil {
		license.FiscalYear = update.FiscalYear
	}
	if update.ExpirationDate != nil {
		license.ExpirationDate = update.ExpirationDate
	}
	if update.LicenseType != nil {
		license.LicenseType = *update.LicenseType
	}
	if update.BusinessID != nil {
		license.BusinessID = update.BusinessID
	}
	if update.DateIssued != nil {
		license.DateIssued = update.DateIssued
	}
	if update.Conditions != nil {
		license.Conditions = update.Conditions
	}
	if update.Paid != nil {
		license.Paid = *update.Paid
	}

	if err := s.licenses.Update(ctx, license); err != nil {
		return nil, err
	}

	return s.licenses.GetByID(ctx, licenseID)
}

func (s *licenseService) Delete(ctx context.Context, licenseID int64) error {
	return s.licenses.Delete(ctx, licenseID)
}

func (s *licenseService) GetByID(ctx context.Context, licenseID int64) (*models.License, error) {
	return s.licenses.GetByID(ctx, licenseID)
}

func (s *licenseService) List(ctx context.Context, skip int) ([]*models.License, error) {
	return s.licenses.List(ctx, skip)
}
