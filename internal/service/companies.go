package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/phrazzld/uranai-api/internal/domain"
	"github.com/phrazzld/uranai-api/internal/domain/compare"
	"github.com/phrazzld/uranai-api/internal/platform/logger"
	"github.com/phrazzld/uranai-api/internal/store"
)

// CreateCompanyInput is a request to register a company.
type CreateCompanyInput struct {
	Name    string
	OwnerID string
}

// AddEmployeeInput is a request to add an employee to a company roster.
// ResultIDs are linked to the new employee in order.
type AddEmployeeInput struct {
	CompanyID  uuid.UUID
	Name       string
	Email      string
	Department string
	Position   string
	ResultIDs  []uuid.UUID
}

// TeamCompareInput selects the employees of a company whose results of
// one system are compared. An empty Department selects everyone.
type TeamCompareInput struct {
	CompanyID  uuid.UUID
	Type       string
	Department string
}

// CompanyService manages company rosters and compares their members.
type CompanyService interface {
	CreateCompany(ctx context.Context, in CreateCompanyInput) (*domain.Company, error)
	GetCompany(ctx context.Context, id uuid.UUID) (*domain.Company, error)
	ListCompanies(ctx context.Context, ownerID string) ([]*domain.Company, error)

	// AddEmployee creates an employee and links the given results.
	AddEmployee(ctx context.Context, in AddEmployeeInput) (*domain.Employee, error)
	ListEmployees(ctx context.Context, companyID uuid.UUID, department string) ([]*domain.Employee, error)

	// LinkResult links a stored result to an employee and returns the
	// updated employee.
	LinkResult(ctx context.Context, companyID, employeeID, resultID uuid.UUID) (*domain.Employee, error)

	// CompareTeam compares the newest linked result of the given system of
	// each selected employee. Employees without one are left out.
	CompareTeam(ctx context.Context, in TeamCompareInput) (compare.Result, error)
}

type companyServiceImpl struct {
	companies  store.CompanyStore
	results    store.ResultStore
	comparison ComparisonService
	logger     *slog.Logger
}

var _ CompanyService = (*companyServiceImpl)(nil)

// NewCompanyService creates a CompanyService.
// It returns an error if any of the required dependencies are nil.
func NewCompanyService(
	companyStore store.CompanyStore,
	resultStore store.ResultStore,
	comparison ComparisonService,
	logger *slog.Logger,
) (CompanyService, error) {
	if companyStore == nil {
		return nil, dependencyError("companies", "companyStore")
	}
	if resultStore == nil {
		return nil, dependencyError("companies", "resultStore")
	}
	if comparison == nil {
		return nil, dependencyError("companies", "comparison")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &companyServiceImpl{
		companies:  companyStore,
		results:    resultStore,
		comparison: comparison,
		logger:     logger.With(slog.String("component", "company_service")),
	}, nil
}

// CreateCompany implements CompanyService.
func (s *companyServiceImpl) CreateCompany(ctx context.Context, in CreateCompanyInput) (*domain.Company, error) {
	company, err := domain.NewCompany(in.Name, in.OwnerID)
	if err != nil {
		return nil, err
	}

	if err := s.companies.CreateCompany(ctx, company); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create company",
			slog.Any("error", err),
			slog.String("company_id", company.ID.String()))
		return nil, NewServiceError("companies", "create_company", "failed to create company", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("company created",
		slog.String("company_id", company.ID.String()))
	return company, nil
}

// GetCompany implements CompanyService.
func (s *companyServiceImpl) GetCompany(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	company, err := s.companies.GetCompany(ctx, id)
	if err != nil {
		s.logFailure(ctx, "failed to get company", err)
		return nil, NewServiceError("companies", "get_company", "failed to get company", err)
	}
	return company, nil
}

// ListCompanies implements CompanyService.
func (s *companyServiceImpl) ListCompanies(ctx context.Context, ownerID string) ([]*domain.Company, error) {
	companies, err := s.companies.ListCompanies(ctx, strings.TrimSpace(ownerID))
	if err != nil {
		s.logFailure(ctx, "failed to list companies", err)
		return nil, NewServiceError("companies", "list_companies", "failed to list companies", err)
	}
	return companies, nil
}

// AddEmployee implements CompanyService. Every result is checked before
// the employee is stored so a bad ID leaves the roster unchanged.
func (s *companyServiceImpl) AddEmployee(ctx context.Context, in AddEmployeeInput) (*domain.Employee, error) {
	employee, err := domain.NewEmployee(in.CompanyID, in.Name, domain.EmployeeDetails{
		Email:      in.Email,
		Department: in.Department,
		Position:   in.Position,
	})
	if err != nil {
		return nil, err
	}

	company, err := s.GetCompany(ctx, in.CompanyID)
	if err != nil {
		return nil, err
	}
	for _, id := range in.ResultIDs {
		if err := s.checkLinkable(ctx, company, id); err != nil {
			return nil, err
		}
	}

	if err := s.companies.AddEmployee(ctx, employee); err != nil {
		s.logFailure(ctx, "failed to add employee", err)
		return nil, NewServiceError("companies", "add_employee", "failed to add employee", err)
	}

	for _, id := range in.ResultIDs {
		if err := s.companies.LinkResult(ctx, company.ID, employee.ID, id); err != nil {
			s.logFailure(ctx, "failed to link result", err)
			return nil, NewServiceError("companies", "link_result", "failed to link result", err)
		}
		if !employee.HasResult(id) {
			employee.ResultIDs = append(employee.ResultIDs, id)
		}
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("employee added",
		slog.String("company_id", company.ID.String()),
		slog.String("employee_id", employee.ID.String()),
		slog.Int("results", len(employee.ResultIDs)))
	return employee, nil
}

// ListEmployees implements CompanyService.
func (s *companyServiceImpl) ListEmployees(ctx context.Context, companyID uuid.UUID, department string) ([]*domain.Employee, error) {
	if _, err := s.GetCompany(ctx, companyID); err != nil {
		return nil, err
	}

	employees, err := s.companies.ListEmployees(ctx, companyID, strings.TrimSpace(department))
	if err != nil {
		s.logFailure(ctx, "failed to list employees", err)
		return nil, NewServiceError("companies", "list_employees", "failed to list employees", err)
	}
	return employees, nil
}

// LinkResult implements CompanyService.
func (s *companyServiceImpl) LinkResult(ctx context.Context, companyID, employeeID, resultID uuid.UUID) (*domain.Employee, error) {
	company, err := s.GetCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if err := s.checkLinkable(ctx, company, resultID); err != nil {
		return nil, err
	}

	if err := s.companies.LinkResult(ctx, companyID, employeeID, resultID); err != nil {
		s.logFailure(ctx, "failed to link result", err)
		return nil, NewServiceError("companies", "link_result", "failed to link result", err)
	}

	employee, err := s.companies.GetEmployee(ctx, companyID, employeeID)
	if err != nil {
		s.logFailure(ctx, "failed to reload employee", err)
		return nil, NewServiceError("companies", "get_employee", "failed to reload employee", err)
	}
	return employee, nil
}

// CompareTeam implements CompanyService.
func (s *companyServiceImpl) CompareTeam(ctx context.Context, in TeamCompareInput) (compare.Result, error) {
	if strings.TrimSpace(in.Type) == "" {
		return compare.Result{}, domain.NewValidationError("type", "is required", domain.ErrValidation)
	}
	system, err := domain.ParseSystemType(in.Type)
	if err != nil {
		return compare.Result{}, domain.NewValidationError("type", "is not a supported system", domain.ErrUnsupportedSystem)
	}

	employees, err := s.ListEmployees(ctx, in.CompanyID, in.Department)
	if err != nil {
		return compare.Result{}, err
	}

	members, err := s.teamResults(ctx, employees, system)
	if err != nil {
		return compare.Result{}, err
	}
	if len(members) < compare.MinResults {
		return compare.Result{}, domain.NewValidationError("type",
			fmt.Sprintf("at least %d employees need a linked %s result", compare.MinResults, system),
			domain.ErrInsufficientResults)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("comparing team",
		slog.String("company_id", in.CompanyID.String()),
		slog.String("type", system.String()),
		slog.Int("employees", len(employees)),
		slog.Int("members", len(members)))
	return s.comparison.CompareResults(ctx, members)
}

// teamResults picks, per employee and in roster order, the newest linked
// result of system with the profile name set to the employee's name.
// Linked results that have since been deleted are skipped.
func (s *companyServiceImpl) teamResults(
	ctx context.Context,
	employees []*domain.Employee,
	system domain.SystemType,
) ([]domain.StoredResult, error) {
	picks := make([]*domain.StoredResult, len(employees))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for i, employee := range employees {
		g.Go(func() error {
			for _, id := range employee.ResultIDs {
				r, err := s.results.GetByID(gctx, id)
				if err != nil {
					if store.IsNotFoundError(err) {
						continue
					}
					return NewServiceError("companies", "load_result", "failed to load result "+id.String(), err)
				}
				if r.Type != system {
					continue
				}
				if picks[i] == nil || r.CreatedAt.After(picks[i].CreatedAt) {
					picks[i] = r
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logFailure(ctx, "failed to load team results", err)
		return nil, err
	}

	members := []domain.StoredResult{}
	for i, pick := range picks {
		if pick == nil {
			continue
		}
		named, err := withProfileName(*pick, employees[i].Name)
		if err != nil {
			return nil, NewServiceError("companies", "compare_team", "stored profile is malformed", err)
		}
		members = append(members, named)
	}
	return members, nil
}

// checkLinkable requires the result to exist and, when both carry an
// owner, to belong to the company's owner.
func (s *companyServiceImpl) checkLinkable(ctx context.Context, company *domain.Company, resultID uuid.UUID) error {
	result, err := s.results.GetByID(ctx, resultID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return &ResultNotFoundError{ID: resultID.String()}
		}
		s.logFailure(ctx, "failed to load result for linking", err)
		return NewServiceError("companies", "load_result", "failed to load result "+resultID.String(), err)
	}
	if company.OwnerID != "" && result.OwnerID != "" && company.OwnerID != result.OwnerID {
		return fmt.Errorf("%w: result %s belongs to another owner", domain.ErrUnauthorized, resultID)
	}
	return nil
}

func (s *companyServiceImpl) logFailure(ctx context.Context, msg string, err error) {
	if store.IsNotFoundError(err) || errors.Is(err, ErrCompanyNotFound) {
		return
	}
	logger.FromContextOrDefault(ctx, s.logger).Error(msg, slog.Any("error", err))
}

// withProfileName returns a copy of r whose profile "name" is name.
func withProfileName(r domain.StoredResult, name string) (domain.StoredResult, error) {
	var profile map[string]json.RawMessage
	if err := json.Unmarshal(r.Profile, &profile); err != nil {
		return domain.StoredResult{}, err
	}
	encoded, err := json.Marshal(name)
	if err != nil {
		return domain.StoredResult{}, err
	}
	profile["name"] = encoded

	raw, err := json.Marshal(profile)
	if err != nil {
		return domain.StoredResult{}, err
	}
	r.Profile = raw
	return r, nil
}
