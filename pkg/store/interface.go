package store

import (
	"errors"

	"github.com/google/uuid"

	"fleetfin/pkg/models"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("not found")

// Storage defines the interface for database operations on users, companies
// and fleet assets.
type Storage interface {
	CreateUser(user *models.User) error
	GetUser(id uuid.UUID) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)

	CreateCompany(company *models.Company) error
	GetCompany(id uuid.UUID) (*models.Company, error)
	GetCompaniesByOwner(ownerID uuid.UUID) ([]*models.Company, error)
	UpdateCompany(company *models.Company) error
	DeleteCompany(id uuid.UUID) error

	CreateAsset(asset *models.Asset) error
	GetAsset(id uuid.UUID) (*models.Asset, error)
	GetAssetsByCompany(companyID uuid.UUID) ([]*models.Asset, error)
	UpdateAsset(asset *models.Asset) error
	DeleteAsset(id uuid.UUID) error

	Close() error
}
