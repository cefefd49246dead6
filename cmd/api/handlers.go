package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"fleetfin/pkg/auth"
	"fleetfin/pkg/fleet"
	"fleetfin/pkg/models"
	"fleetfin/pkg/schedule"
	"fleetfin/pkg/store"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP status codes. Engine errors arrive
// here unchanged; no schedule is ever partially written before one is raised.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, fleet.ErrNoLoanInfo):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, fleet.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, schedule.ErrInvalidLoanParameters),
		errors.Is(err, schedule.ErrInvalidDepreciationParameters),
		errors.Is(err, schedule.ErrArithmeticDomain):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("Internal error: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := auth.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}
	return userID, ok
}

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)[name])
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- auth ---

type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		http.Error(w, "Email, password and name are required", http.StatusBadRequest)
		return
	}

	if _, err := s.storage.GetUserByEmail(req.Email); err == nil {
		http.Error(w, "Email already registered", http.StatusBadRequest)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.storage.CreateUser(user); err != nil {
		writeError(w, err)
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{User: user, Token: token})
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := s.storage.GetUserByEmail(req.Email)
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{User: user, Token: token})
}

func (s *Server) meHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	user, err := s.storage.GetUser(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// --- companies ---

func (s *Server) createCompanyHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	company, err := s.fleet.CreateCompany(userID, req.Name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, company)
}

func (s *Server) listCompaniesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	companies, err := s.fleet.ListCompanies(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if companies == nil {
		companies = []*models.Company{}
	}
	writeJSON(w, http.StatusOK, companies)
}

func (s *Server) getCompanyHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	companyID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid company ID", http.StatusBadRequest)
		return
	}

	company, err := s.fleet.GetCompany(userID, companyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, company)
}

func (s *Server) updateCompanyHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	companyID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid company ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	company, err := s.fleet.RenameCompany(userID, companyID, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, company)
}

func (s *Server) deleteCompanyHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	companyID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid company ID", http.StatusBadRequest)
		return
	}

	if err := s.fleet.DeleteCompany(userID, companyID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- assets ---

type assetRequest struct {
	CompanyID     uuid.UUID        `json:"company_id"`
	Type          string           `json:"type"`
	Make          string           `json:"make"`
	Model         string           `json:"model"`
	Year          int              `json:"year"`
	VIN           string           `json:"vin"`
	PurchaseDate  time.Time        `json:"purchase_date"`
	PurchasePrice decimal.Decimal  `json:"purchase_price"`
	LoanInfo      *models.LoanInfo `json:"loan_info"`
}

func (req *assetRequest) toAsset() *models.Asset {
	return &models.Asset{
		CompanyID:     req.CompanyID,
		Type:          req.Type,
		Make:          req.Make,
		Model:         req.Model,
		Year:          req.Year,
		VIN:           req.VIN,
		PurchaseDate:  req.PurchaseDate,
		PurchasePrice: req.PurchasePrice,
		LoanInfo:      req.LoanInfo,
	}
}

func (s *Server) createAssetHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req assetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	asset, err := s.fleet.CreateAsset(userID, req.toAsset())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, asset)
}

func (s *Server) getAssetHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	assetID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid asset ID", http.StatusBadRequest)
		return
	}

	asset, err := s.fleet.GetAsset(userID, assetID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

func (s *Server) listAssetsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	companyID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid company ID", http.StatusBadRequest)
		return
	}

	assets, err := s.fleet.ListAssets(userID, companyID)
	if err != nil {
		writeError(w, err)
		return
	}
	if assets == nil {
		assets = []*models.Asset{}
	}
	writeJSON(w, http.StatusOK, assets)
}

func (s *Server) updateAssetHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	assetID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid asset ID", http.StatusBadRequest)
		return
	}

	var req assetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	asset := req.toAsset()
	asset.ID = assetID // Ensure ID from URL is used

	updated, err := s.fleet.UpdateAsset(userID, asset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteAssetHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	assetID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid asset ID", http.StatusBadRequest)
		return
	}

	if err := s.fleet.DeleteAsset(userID, assetID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- schedules ---

func (s *Server) amortizationHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	assetID, err := pathID(r, "assetId")
	if err != nil {
		http.Error(w, "Invalid asset ID", http.StatusBadRequest)
		return
	}

	sched, err := s.fleet.AmortizationSchedule(userID, assetID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sched)
}

func (s *Server) depreciationHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	assetID, err := pathID(r, "assetId")
	if err != nil {
		http.Error(w, "Invalid asset ID", http.StatusBadRequest)
		return
	}

	sched, err := s.fleet.DepreciationSchedule(userID, assetID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sched)
}

func (s *Server) businessDebtHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	companyID, err := pathID(r, "companyId")
	if err != nil {
		http.Error(w, "Invalid company ID", http.StatusBadRequest)
		return
	}

	// Optional evaluation date override, default now.
	asOf := time.Now().UTC()
	if v := r.URL.Query().Get("as_of"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			http.Error(w, "Invalid as_of date, expected RFC 3339", http.StatusBadRequest)
			return
		}
		asOf = parsed
	}

	sched, err := s.fleet.BusinessDebtSchedule(userID, companyID, asOf)
	if errors.Is(err, schedule.ErrNoFinancedAssets) {
		// A fleet with no financed assets is a valid zero-debt result.
		writeJSON(w, http.StatusOK, &models.BusinessDebtSchedule{
			Summary: models.BusinessDebtSummary{
				CompanyID:       companyID,
				TotalLoanAmount: decimal.Zero,
				TotalBalance:    decimal.Zero,
				MonthlyPayment:  decimal.Zero,
			},
			Details: []models.BusinessDebtDetail{},
		})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sched)
}
