package store

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fleetfin/pkg/models"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbFile := "test_store_fleet.db"
	os.Remove(dbFile)
	t.Cleanup(func() { os.Remove(dbFile) })

	s, err := NewSQLiteStore(dbFile)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestUser(t *testing.T, s *SQLiteStore) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "hash",
		Name:         "Test Owner",
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.CreateUser(user); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}

func createTestCompany(t *testing.T, s *SQLiteStore, ownerID uuid.UUID) *models.Company {
	t.Helper()
	company := &models.Company{
		ID:        uuid.New(),
		Name:      "Haul Co",
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.CreateCompany(company); err != nil {
		t.Fatalf("Failed to create company: %v", err)
	}
	return company
}

func TestSQLiteStore_UserRoundTrip(t *testing.T) {
	s := setupTestStore(t)
	user := createTestUser(t, s)

	fetched, err := s.GetUser(user.ID)
	if err != nil {
		t.Fatalf("Failed to get user: %v", err)
	}
	if fetched.Email != user.Email {
		t.Errorf("Expected email %s, got %s", user.Email, fetched.Email)
	}

	byEmail, err := s.GetUserByEmail(user.Email)
	if err != nil {
		t.Fatalf("Failed to get user by email: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("Expected ID %s, got %s", user.ID, byEmail.ID)
	}

	if _, err := s.GetUser(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStore_CompanyCRUD(t *testing.T) {
	s := setupTestStore(t)
	user := createTestUser(t, s)
	company := createTestCompany(t, s, user.ID)

	fetched, err := s.GetCompany(company.ID)
	if err != nil {
		t.Fatalf("Failed to get company: %v", err)
	}
	if fetched.OwnerID != user.ID {
		t.Errorf("Expected owner %s, got %s", user.ID, fetched.OwnerID)
	}

	fetched.Name = "Haul Co LLC"
	if err := s.UpdateCompany(fetched); err != nil {
		t.Fatalf("Failed to update company: %v", err)
	}
	updated, _ := s.GetCompany(company.ID)
	if updated.Name != "Haul Co LLC" {
		t.Errorf("Expected updated name, got %s", updated.Name)
	}

	owned, err := s.GetCompaniesByOwner(user.ID)
	if err != nil {
		t.Fatalf("Failed to list companies: %v", err)
	}
	if len(owned) != 1 {
		t.Errorf("Expected 1 company, got %d", len(owned))
	}

	if err := s.DeleteCompany(company.ID); err != nil {
		t.Fatalf("Failed to delete company: %v", err)
	}
	if _, err := s.GetCompany(company.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestSQLiteStore_AssetWithLoanRoundTrip(t *testing.T) {
	s := setupTestStore(t)
	user := createTestUser(t, s)
	company := createTestCompany(t, s, user.ID)

	asset := &models.Asset{
		ID:            uuid.New(),
		CompanyID:     company.ID,
		Type:          "truck",
		Make:          "Kenworth",
		Model:         "T680",
		Year:          2023,
		VIN:           "1XKYDP9X5PJ123456",
		PurchaseDate:  time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
		PurchasePrice: decimal.NewFromFloat(165000.50),
		LoanInfo: &models.LoanInfo{
			LoanAmount:   decimal.NewFromInt(140000),
			InterestRate: decimal.NewFromFloat(0.065),
			LoanTerm:     72,
			StartDate:    time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
		},
		CreatedAt: time.Now().UTC(),
	}

	if err := s.CreateAsset(asset); err != nil {
		t.Fatalf("Failed to create asset: %v", err)
	}

	fetched, err := s.GetAsset(asset.ID)
	if err != nil {
		t.Fatalf("Failed to get asset: %v", err)
	}
	if !fetched.PurchasePrice.Equal(asset.PurchasePrice) {
		t.Errorf("Expected price %s, got %s", asset.PurchasePrice, fetched.PurchasePrice)
	}
	if fetched.LoanInfo == nil {
		t.Fatal("Expected loan info to survive round trip")
	}
	if !fetched.LoanInfo.LoanAmount.Equal(asset.LoanInfo.LoanAmount) {
		t.Errorf("Expected loan amount %s, got %s", asset.LoanInfo.LoanAmount, fetched.LoanInfo.LoanAmount)
	}
	if !fetched.LoanInfo.InterestRate.Equal(asset.LoanInfo.InterestRate) {
		t.Errorf("Expected rate %s, got %s", asset.LoanInfo.InterestRate, fetched.LoanInfo.InterestRate)
	}
	if fetched.LoanInfo.LoanTerm != 72 {
		t.Errorf("Expected term 72, got %d", fetched.LoanInfo.LoanTerm)
	}
}

func TestSQLiteStore_AssetWithoutLoan(t *testing.T) {
	s := setupTestStore(t)
	user := createTestUser(t, s)
	company := createTestCompany(t, s, user.ID)

	asset := &models.Asset{
		ID:            uuid.New(),
		CompanyID:     company.ID,
		Type:          "trailer",
		Make:          "Utility",
		Model:         "3000R",
		Year:          2020,
		VIN:           "1UYVS2538LM123456",
		PurchaseDate:  time.Date(2020, 8, 1, 0, 0, 0, 0, time.UTC),
		PurchasePrice: decimal.NewFromInt(35000),
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.CreateAsset(asset); err != nil {
		t.Fatalf("Failed to create asset: %v", err)
	}

	fetched, err := s.GetAsset(asset.ID)
	if err != nil {
		t.Fatalf("Failed to get asset: %v", err)
	}
	if fetched.LoanInfo != nil {
		t.Errorf("Expected nil loan info, got %+v", fetched.LoanInfo)
	}
}

func TestSQLiteStore_AssetsByCompanyOrdered(t *testing.T) {
	s := setupTestStore(t)
	user := createTestUser(t, s)
	company := createTestCompany(t, s, user.ID)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		asset := &models.Asset{
			ID:            uuid.New(),
			CompanyID:     company.ID,
			Type:          "truck",
			Make:          "Volvo",
			Model:         "VNL",
			Year:          2024,
			VIN:           uuid.NewString(),
			PurchaseDate:  base,
			PurchasePrice: decimal.NewFromInt(100000),
			CreatedAt:     base.Add(time.Duration(i) * time.Hour),
		}
		if err := s.CreateAsset(asset); err != nil {
			t.Fatalf("Failed to create asset %d: %v", i, err)
		}
		ids = append(ids, asset.ID)
	}

	assets, err := s.GetAssetsByCompany(company.ID)
	if err != nil {
		t.Fatalf("Failed to list assets: %v", err)
	}
	if len(assets) != 5 {
		t.Fatalf("Expected 5 assets, got %d", len(assets))
	}
	for i, a := range assets {
		if a.ID != ids[i] {
			t.Errorf("Asset %d out of creation order", i)
		}
	}
}

func TestSQLiteStore_UpdateAndDeleteAsset(t *testing.T) {
	s := setupTestStore(t)
	user := createTestUser(t, s)
	company := createTestCompany(t, s, user.ID)

	asset := &models.Asset{
		ID:            uuid.New(),
		CompanyID:     company.ID,
		Type:          "truck",
		Make:          "Peterbilt",
		Model:         "579",
		Year:          2022,
		VIN:           "1XPBDP9X1ND123456",
		PurchaseDate:  time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC),
		PurchasePrice: decimal.NewFromInt(150000),
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.CreateAsset(asset); err != nil {
		t.Fatalf("Failed to create asset: %v", err)
	}

	// Refinance: attach loan terms to a previously unfinanced asset.
	asset.LoanInfo = &models.LoanInfo{
		LoanAmount:   decimal.NewFromInt(120000),
		InterestRate: decimal.NewFromFloat(0.058),
		LoanTerm:     60,
		StartDate:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := s.UpdateAsset(asset); err != nil {
		t.Fatalf("Failed to update asset: %v", err)
	}

	fetched, _ := s.GetAsset(asset.ID)
	if fetched.LoanInfo == nil || !fetched.LoanInfo.LoanAmount.Equal(decimal.NewFromInt(120000)) {
		t.Errorf("Expected refinanced loan to persist, got %+v", fetched.LoanInfo)
	}

	if err := s.DeleteAsset(asset.ID); err != nil {
		t.Fatalf("Failed to delete asset: %v", err)
	}
	if _, err := s.GetAsset(asset.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}

	if err := s.DeleteAsset(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing asset, got %v", err)
	}
}
