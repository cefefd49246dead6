package fleet

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fleetfin/pkg/models"
	"fleetfin/pkg/schedule"
	"fleetfin/pkg/store"
)

var (
	// ErrNoLoanInfo is returned when a schedule is requested for an asset
	// bought outright.
	ErrNoLoanInfo = errors.New("asset has no loan info")

	// ErrForbidden is returned when a user touches a company they don't own.
	ErrForbidden = errors.New("forbidden")
)

// Service handles the business logic for companies, assets and their
// financial schedules.
type Service struct {
	storage    store.Storage // Use the Storage interface
	lifePolicy schedule.UsefulLifePolicy
}

// NewService creates a new Service with a given Storage implementation and
// useful-life policy.
func NewService(s store.Storage, policy schedule.UsefulLifePolicy) *Service {
	return &Service{
		storage:    s,
		lifePolicy: policy,
	}
}

// CreateCompany registers a new company for a user.
func (s *Service) CreateCompany(ownerID uuid.UUID, name string) (*models.Company, error) {
	if name == "" {
		return nil, fmt.Errorf("company name is required")
	}

	company := &models.Company{
		ID:        uuid.New(),
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.storage.CreateCompany(company); err != nil {
		return nil, fmt.Errorf("failed to store company: %w", err)
	}
	return company, nil
}

// GetCompany retrieves a company, enforcing ownership.
func (s *Service) GetCompany(ownerID, companyID uuid.UUID) (*models.Company, error) {
	company, err := s.storage.GetCompany(companyID)
	if err != nil {
		return nil, err
	}
	if company.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return company, nil
}

// ListCompanies retrieves all companies owned by a user.
func (s *Service) ListCompanies(ownerID uuid.UUID) ([]*models.Company, error) {
	return s.storage.GetCompaniesByOwner(ownerID)
}

// RenameCompany updates a company's name.
func (s *Service) RenameCompany(ownerID, companyID uuid.UUID, name string) (*models.Company, error) {
	company, err := s.GetCompany(ownerID, companyID)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("company name is required")
	}
	company.Name = name
	if err := s.storage.UpdateCompany(company); err != nil {
		return nil, fmt.Errorf("failed to update company: %w", err)
	}
	return company, nil
}

// DeleteCompany removes a company and all its assets.
func (s *Service) DeleteCompany(ownerID, companyID uuid.UUID) error {
	if _, err := s.GetCompany(ownerID, companyID); err != nil {
		return err
	}
	return s.storage.DeleteCompany(companyID)
}

// CreateAsset registers a new asset under one of the user's companies. When
// loan terms are supplied they are validated by running the amortization
// engine, and the stored monthly payment is replaced by the computed one —
// the engine is authoritative.
func (s *Service) CreateAsset(ownerID uuid.UUID, asset *models.Asset) (*models.Asset, error) {
	if _, err := s.GetCompany(ownerID, asset.CompanyID); err != nil {
		return nil, err
	}
	if asset.Type == "" {
		return nil, fmt.Errorf("asset type is required")
	}

	if asset.LoanInfo != nil {
		sched, err := schedule.ComputeAmortization(asset.LoanInfo)
		if err != nil {
			return nil, err
		}
		asset.LoanInfo.MonthlyPayment = sched.MonthlyPayment
	}

	asset.ID = uuid.New()
	asset.CreatedAt = time.Now().UTC()
	if err := s.storage.CreateAsset(asset); err != nil {
		return nil, fmt.Errorf("failed to store asset: %w", err)
	}
	return asset, nil
}

// GetAsset retrieves an asset, enforcing ownership of its company.
func (s *Service) GetAsset(ownerID, assetID uuid.UUID) (*models.Asset, error) {
	asset, err := s.storage.GetAsset(assetID)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetCompany(ownerID, asset.CompanyID); err != nil {
		return nil, err
	}
	return asset, nil
}

// ListAssets retrieves a company's assets in creation order.
func (s *Service) ListAssets(ownerID, companyID uuid.UUID) ([]*models.Asset, error) {
	if _, err := s.GetCompany(ownerID, companyID); err != nil {
		return nil, err
	}
	return s.storage.GetAssetsByCompany(companyID)
}

// UpdateAsset replaces an asset's mutable fields, revalidating loan terms.
func (s *Service) UpdateAsset(ownerID uuid.UUID, asset *models.Asset) (*models.Asset, error) {
	existing, err := s.GetAsset(ownerID, asset.ID)
	if err != nil {
		return nil, err
	}
	asset.CompanyID = existing.CompanyID
	asset.CreatedAt = existing.CreatedAt

	if asset.LoanInfo != nil {
		sched, err := schedule.ComputeAmortization(asset.LoanInfo)
		if err != nil {
			return nil, err
		}
		asset.LoanInfo.MonthlyPayment = sched.MonthlyPayment
	}

	if err := s.storage.UpdateAsset(asset); err != nil {
		return nil, fmt.Errorf("failed to update asset: %w", err)
	}
	return asset, nil
}

// DeleteAsset removes an asset.
func (s *Service) DeleteAsset(ownerID, assetID uuid.UUID) error {
	if _, err := s.GetAsset(ownerID, assetID); err != nil {
		return err
	}
	return s.storage.DeleteAsset(assetID)
}

// AmortizationSchedule computes the monthly payoff schedule for a financed
// asset.
func (s *Service) AmortizationSchedule(ownerID, assetID uuid.UUID) (*models.AmortizationSchedule, error) {
	asset, err := s.GetAsset(ownerID, assetID)
	if err != nil {
		return nil, err
	}
	if asset.LoanInfo == nil {
		return nil, fmt.Errorf("asset %s: %w", assetID, ErrNoLoanInfo)
	}

	sched, err := schedule.ComputeAmortization(asset.LoanInfo)
	if err != nil {
		return nil, err
	}
	sched.AssetID = asset.ID
	return sched, nil
}

// DepreciationSchedule computes the annual straight-line depreciation
// schedule for an asset, with the useful life resolved from the configured
// policy by asset type.
func (s *Service) DepreciationSchedule(ownerID, assetID uuid.UUID) (*models.DepreciationSchedule, error) {
	asset, err := s.GetAsset(ownerID, assetID)
	if err != nil {
		return nil, err
	}

	sched, err := schedule.ComputeDepreciation(asset.PurchasePrice, s.lifePolicy.Years(asset.Type), asset.PurchaseDate)
	if err != nil {
		return nil, err
	}
	sched.AssetID = asset.ID
	return sched, nil
}

// BusinessDebtSchedule aggregates the current debt position across all of a
// company's financed assets as of the given date. Callers should treat
// schedule.ErrNoFinancedAssets as an empty result, not a failure.
func (s *Service) BusinessDebtSchedule(ownerID, companyID uuid.UUID, asOf time.Time) (*models.BusinessDebtSchedule, error) {
	if _, err := s.GetCompany(ownerID, companyID); err != nil {
		return nil, err
	}

	assets, err := s.storage.GetAssetsByCompany(companyID)
	if err != nil {
		return nil, err
	}

	sched, err := schedule.ComputeBusinessDebt(assets, asOf)
	if err != nil {
		return nil, err
	}
	sched.Summary.CompanyID = companyID
	return sched, nil
}
