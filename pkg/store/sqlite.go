package store

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fleetfin/pkg/models"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore manages the database connection and operations for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLiteStore and initializes the database.
func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("could not initialize schema: %w", err)
	}
	log.Println("Database connection established and schema initialized.")
	return s, nil
}

// initSchema creates the tables if they don't already exist. Decimal fields
// are stored as TEXT so no precision is lost. Loan columns on assets are
// nullable: a NULL loan_amount marks an asset bought outright.
func (s *SQLiteStore) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		name TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS companies (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		owner_id TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY(owner_id) REFERENCES users(id)
	);
	CREATE TABLE IF NOT EXISTS assets (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		type TEXT NOT NULL,
		make TEXT NOT NULL,
		model TEXT NOT NULL,
		year INTEGER NOT NULL,
		vin TEXT NOT NULL,
		purchase_date DATETIME NOT NULL,
		purchase_price TEXT NOT NULL,
		loan_amount TEXT,
		interest_rate TEXT,
		loan_term INTEGER,
		loan_start_date DATETIME,
		monthly_payment TEXT,
		created_at DATETIME NOT NULL,
		FOREIGN KEY(company_id) REFERENCES companies(id)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(user *models.User) error {
	_, err := s.db.Exec(
		`INSERT INTO users (id, email, password_hash, name, created_at) VALUES (?, ?, ?, ?, ?)`,
		user.ID.String(), user.Email, user.PasswordHash, user.Name, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *SQLiteStore) GetUser(id uuid.UUID) (*models.User, error) {
	row := s.db.QueryRow(`SELECT id, email, password_hash, name, created_at FROM users WHERE id = ?`, id.String())
	return scanUser(row)
}

// GetUserByEmail retrieves a user by email address.
func (s *SQLiteStore) GetUserByEmail(email string) (*models.User, error) {
	row := s.db.QueryRow(`SELECT id, email, password_hash, name, created_at FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	var idStr string
	err := row.Scan(&idStr, &user.Email, &user.PasswordHash, &user.Name, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	user.ID = uuid.MustParse(idStr)
	return &user, nil
}

// CreateCompany inserts a new company into the database.
func (s *SQLiteStore) CreateCompany(company *models.Company) error {
	_, err := s.db.Exec(
		`INSERT INTO companies (id, name, owner_id, created_at) VALUES (?, ?, ?, ?)`,
		company.ID.String(), company.Name, company.OwnerID.String(), company.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}
	return nil
}

// GetCompany retrieves a company by its ID.
func (s *SQLiteStore) GetCompany(id uuid.UUID) (*models.Company, error) {
	var company models.Company
	var idStr, ownerStr string

	row := s.db.QueryRow(`SELECT id, name, owner_id, created_at FROM companies WHERE id = ?`, id.String())
	if err := row.Scan(&idStr, &company.Name, &ownerStr, &company.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("company %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	company.ID = uuid.MustParse(idStr)
	company.OwnerID = uuid.MustParse(ownerStr)
	return &company, nil
}

// GetCompaniesByOwner retrieves all companies owned by a user.
func (s *SQLiteStore) GetCompaniesByOwner(ownerID uuid.UUID) ([]*models.Company, error) {
	rows, err := s.db.Query(`SELECT id, name, owner_id, created_at FROM companies WHERE owner_id = ? ORDER BY created_at ASC, id ASC`, ownerID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get companies: %w", err)
	}
	defer rows.Close()

	var companies []*models.Company
	for rows.Next() {
		var company models.Company
		var idStr, ownerStr string
		if err := rows.Scan(&idStr, &company.Name, &ownerStr, &company.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan company row: %w", err)
		}
		company.ID = uuid.MustParse(idStr)
		company.OwnerID = uuid.MustParse(ownerStr)
		companies = append(companies, &company)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return companies, nil
}

// UpdateCompany updates an existing company.
func (s *SQLiteStore) UpdateCompany(company *models.Company) error {
	result, err := s.db.Exec(
		`UPDATE companies SET name = ? WHERE id = ?`,
		company.Name, company.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update company: %w", err)
	}
	return checkAffected(result, "company")
}

// DeleteCompany removes a company and its assets within a transaction.
func (s *SQLiteStore) DeleteCompany(id uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM assets WHERE company_id = ?`, id.String()); err != nil {
		return fmt.Errorf("failed to delete company assets: %w", err)
	}

	result, err := tx.Exec(`DELETE FROM companies WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}
	if err := checkAffected(result, "company"); err != nil {
		return err
	}

	return tx.Commit()
}

const assetColumns = `id, company_id, type, make, model, year, vin, purchase_date, purchase_price,
	loan_amount, interest_rate, loan_term, loan_start_date, monthly_payment, created_at`

// CreateAsset inserts a new asset into the database.
func (s *SQLiteStore) CreateAsset(asset *models.Asset) error {
	var loanAmount, interestRate, monthlyPayment sql.NullString
	var loanTerm sql.NullInt64
	var loanStart sql.NullTime
	if loan := asset.LoanInfo; loan != nil {
		loanAmount = sql.NullString{String: loan.LoanAmount.String(), Valid: true}
		interestRate = sql.NullString{String: loan.InterestRate.String(), Valid: true}
		monthlyPayment = sql.NullString{String: loan.MonthlyPayment.String(), Valid: true}
		loanTerm = sql.NullInt64{Int64: int64(loan.LoanTerm), Valid: true}
		loanStart = sql.NullTime{Time: loan.StartDate, Valid: true}
	}

	_, err := s.db.Exec(
		`INSERT INTO assets (`+assetColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		asset.ID.String(), asset.CompanyID.String(), asset.Type, asset.Make, asset.Model, asset.Year,
		asset.VIN, asset.PurchaseDate, asset.PurchasePrice.String(),
		loanAmount, interestRate, loanTerm, loanStart, monthlyPayment, asset.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}
	return nil
}

// GetAsset retrieves an asset by its ID.
func (s *SQLiteStore) GetAsset(id uuid.UUID) (*models.Asset, error) {
	rows, err := s.db.Query(`SELECT `+assetColumns+` FROM assets WHERE id = ?`, id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	defer rows.Close()

	assets, err := scanAssets(rows)
	if err != nil {
		return nil, err
	}
	if len(assets) == 0 {
		return nil, fmt.Errorf("asset %w", ErrNotFound)
	}
	return assets[0], nil
}

// GetAssetsByCompany retrieves a company's assets in creation order. The
// order is stable so downstream aggregation emits deterministic detail rows.
func (s *SQLiteStore) GetAssetsByCompany(companyID uuid.UUID) ([]*models.Asset, error) {
	rows, err := s.db.Query(`SELECT `+assetColumns+` FROM assets WHERE company_id = ? ORDER BY created_at ASC, id ASC`, companyID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get assets for company %s: %w", companyID, err)
	}
	defer rows.Close()

	return scanAssets(rows)
}

// UpdateAsset updates an existing asset, including its loan terms.
func (s *SQLiteStore) UpdateAsset(asset *models.Asset) error {
	var loanAmount, interestRate, monthlyPayment sql.NullString
	var loanTerm sql.NullInt64
	var loanStart sql.NullTime
	if loan := asset.LoanInfo; loan != nil {
		loanAmount = sql.NullString{String: loan.LoanAmount.String(), Valid: true}
		interestRate = sql.NullString{String: loan.InterestRate.String(), Valid: true}
		monthlyPayment = sql.NullString{String: loan.MonthlyPayment.String(), Valid: true}
		loanTerm = sql.NullInt64{Int64: int64(loan.LoanTerm), Valid: true}
		loanStart = sql.NullTime{Time: loan.StartDate, Valid: true}
	}

	result, err := s.db.Exec(
		`UPDATE assets SET type = ?, make = ?, model = ?, year = ?, vin = ?, purchase_date = ?, purchase_price = ?,
		loan_amount = ?, interest_rate = ?, loan_term = ?, loan_start_date = ?, monthly_payment = ? WHERE id = ?`,
		asset.Type, asset.Make, asset.Model, asset.Year, asset.VIN, asset.PurchaseDate, asset.PurchasePrice.String(),
		loanAmount, interestRate, loanTerm, loanStart, monthlyPayment, asset.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update asset: %w", err)
	}
	return checkAffected(result, "asset")
}

// DeleteAsset removes an asset from the database.
func (s *SQLiteStore) DeleteAsset(id uuid.UUID) error {
	result, err := s.db.Exec(`DELETE FROM assets WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	return checkAffected(result, "asset")
}

func scanAssets(rows *sql.Rows) ([]*models.Asset, error) {
	var assets []*models.Asset
	for rows.Next() {
		var asset models.Asset
		var idStr, companyStr, priceStr string
		var loanAmount, interestRate, monthlyPayment sql.NullString
		var loanTerm sql.NullInt64
		var loanStart sql.NullTime

		if err := rows.Scan(&idStr, &companyStr, &asset.Type, &asset.Make, &asset.Model, &asset.Year,
			&asset.VIN, &asset.PurchaseDate, &priceStr,
			&loanAmount, &interestRate, &loanTerm, &loanStart, &monthlyPayment, &asset.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan asset row: %w", err)
		}

		asset.ID = uuid.MustParse(idStr)
		asset.CompanyID = uuid.MustParse(companyStr)

		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			return nil, fmt.Errorf("invalid purchase price %q: %w", priceStr, err)
		}
		asset.PurchasePrice = price

		if loanAmount.Valid {
			loan := &models.LoanInfo{LoanTerm: int(loanTerm.Int64)}
			if loan.LoanAmount, err = decimal.NewFromString(loanAmount.String); err != nil {
				return nil, fmt.Errorf("invalid loan amount %q: %w", loanAmount.String, err)
			}
			if loan.InterestRate, err = decimal.NewFromString(interestRate.String); err != nil {
				return nil, fmt.Errorf("invalid interest rate %q: %w", interestRate.String, err)
			}
			if loan.MonthlyPayment, err = decimal.NewFromString(monthlyPayment.String); err != nil {
				return nil, fmt.Errorf("invalid monthly payment %q: %w", monthlyPayment.String, err)
			}
			if loanStart.Valid {
				loan.StartDate = loanStart.Time
			}
			asset.LoanInfo = loan
		}

		assets = append(assets, &asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return assets, nil
}

func checkAffected(result sql.Result, entity string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s %w", entity, ErrNotFound)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
