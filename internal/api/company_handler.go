package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/uranai-api/internal/api/shared"
	"github.com/phrazzld/uranai-api/internal/domain"
	"github.com/phrazzld/uranai-api/internal/platform/logger"
	"github.com/phrazzld/uranai-api/internal/service"
)

var (
	companySaveMessages = errorMessages{
		internal: "会社情報の保存中にエラーが発生しました",
	}
	companyGetMessages = errorMessages{
		internal: "会社情報の取得中にエラーが発生しました",
	}
	employeeSaveMessages = errorMessages{
		internal: "従業員情報の保存中にエラーが発生しました",
	}
	teamCompareMessages = errorMessages{
		internal: "チームの比較中にエラーが発生しました",
	}
)

// CompanyHandler serves company rosters and team comparisons.
type CompanyHandler struct {
	companies service.CompanyService
	logger    *slog.Logger
}

// NewCompanyHandler creates a new CompanyHandler.
func NewCompanyHandler(companies service.CompanyService, logger *slog.Logger) *CompanyHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CompanyHandler")
	}
	return &CompanyHandler{
		companies: companies,
		logger:    logger.With(slog.String("component", "company_handler")),
	}
}

// Create handles POST /api/companies.
func (h *CompanyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCompanyRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		handleError(w, r, err, companySaveMessages)
		return
	}

	owner, err := resolveOwner(r.Context(), req.OwnerID)
	if err != nil {
		handleError(w, r, err, companySaveMessages)
		return
	}

	company, err := h.companies.CreateCompany(r.Context(), service.CreateCompanyInput{
		Name:    req.Name,
		OwnerID: owner,
	})
	if err != nil {
		handleError(w, r, err, companySaveMessages)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("company created",
		slog.String("company_id", company.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, CompanyResponse{
		Success: true,
		Message: "会社情報が正常に保存されました",
		Company: company,
	})
}

// List handles GET /api/companies?ownerId=. Without an owner every company
// is listed.
func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, err := resolveOwner(r.Context(), r.URL.Query().Get("ownerId"))
	if err != nil {
		handleError(w, r, err, companyGetMessages)
		return
	}

	companies, err := h.companies.ListCompanies(r.Context(), owner)
	if err != nil {
		handleError(w, r, err, companyGetMessages)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CompanyListResponse{Companies: companies})
}

// Get handles GET /api/companies/{id}.
func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	company, err := h.company(r)
	if err != nil {
		handleError(w, r, err, companyGetMessages)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CompanyResponse{Success: true, Company: company})
}

// AddEmployee handles POST /api/companies/{id}/employees.
func (h *CompanyHandler) AddEmployee(w http.ResponseWriter, r *http.Request) {
	company, err := h.company(r)
	if err != nil {
		handleError(w, r, err, employeeSaveMessages)
		return
	}

	var req AddEmployeeRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		handleError(w, r, err, employeeSaveMessages)
		return
	}

	employee, err := h.companies.AddEmployee(r.Context(), service.AddEmployeeInput{
		CompanyID:  company.ID,
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
		Position:   req.Position,
		ResultIDs:  req.ResultIDs,
	})
	if err != nil {
		handleError(w, r, err, employeeSaveMessages)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("employee added",
		slog.String("company_id", company.ID.String()),
		slog.String("employee_id", employee.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, EmployeeResponse{
		Success:  true,
		Message:  "従業員が正常に追加されました",
		Employee: employee,
	})
}

// ListEmployees handles GET /api/companies/{id}/employees?department=.
func (h *CompanyHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	company, err := h.company(r)
	if err != nil {
		handleError(w, r, err, companyGetMessages)
		return
	}

	employees, err := h.companies.ListEmployees(r.Context(), company.ID, r.URL.Query().Get("department"))
	if err != nil {
		handleError(w, r, err, companyGetMessages)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, EmployeeListResponse{Employees: employees})
}

// LinkResult handles POST /api/companies/{id}/employees/{employeeId}/results.
func (h *CompanyHandler) LinkResult(w http.ResponseWriter, r *http.Request) {
	company, err := h.company(r)
	if err != nil {
		handleError(w, r, err, employeeSaveMessages)
		return
	}

	employeeID, err := getPathUUID(r, "employeeId")
	if err != nil {
		handleError(w, r, err, employeeSaveMessages)
		return
	}

	var req LinkResultRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		handleError(w, r, err, employeeSaveMessages)
		return
	}

	employee, err := h.companies.LinkResult(r.Context(), company.ID, employeeID, req.ResultID)
	if err != nil {
		handleError(w, r, err, employeeSaveMessages)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, EmployeeResponse{Success: true, Employee: employee})
}

// Compare handles POST /api/companies/{id}/compare.
func (h *CompanyHandler) Compare(w http.ResponseWriter, r *http.Request) {
	company, err := h.company(r)
	if err != nil {
		handleError(w, r, err, teamCompareMessages)
		return
	}

	var req TeamCompareRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		handleError(w, r, err, teamCompareMessages)
		return
	}

	result, err := h.companies.CompareTeam(r.Context(), service.TeamCompareInput{
		CompanyID:  company.ID,
		Type:       req.Type,
		Department: req.Department,
	})
	if err != nil {
		handleError(w, r, err, teamCompareMessages)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("team compared",
		slog.String("company_id", company.ID.String()),
		slog.String("type", result.Type.String()),
		slog.Int("members", len(result.Users)))
	shared.RespondWithJSON(w, r, http.StatusOK, CompareResponse{Success: true, Comparison: result})
}

// company loads the {id} company and checks the caller may use it.
func (h *CompanyHandler) company(r *http.Request) (*domain.Company, error) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		return nil, err
	}

	company, err := h.companies.GetCompany(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if err := authorizeCompany(r.Context(), company); err != nil {
		return nil, err
	}
	return company, nil
}

// authorizeCompany mirrors authorizeResult for companies.
func authorizeCompany(ctx context.Context, c *domain.Company) error {
	authenticated, ok := shared.OwnerIDFromContext(ctx)
	if !ok || c.OwnerID == "" || c.OwnerID == authenticated {
		return nil
	}
	return errCompanyForbidden
}
