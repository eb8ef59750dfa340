package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/uranai-api/internal/domain"
	"github.com/phrazzld/uranai-api/internal/platform/logger"
	"github.com/phrazzld/uranai-api/internal/store"
)

// CompanyStore keeps rosters in maps guarded by one RWMutex.
// Stored values are copied on the way in and out.
type CompanyStore struct {
	mu        sync.RWMutex
	companies map[uuid.UUID]domain.Company
	employees map[uuid.UUID]domain.Employee
	logger    *slog.Logger
}

// NewCompanyStore creates an empty store. If logger is nil, a default logger will be used.
func NewCompanyStore(logger *slog.Logger) *CompanyStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &CompanyStore{
		companies: make(map[uuid.UUID]domain.Company),
		employees: make(map[uuid.UUID]domain.Employee),
		logger:    logger.With(slog.String("component", "memory_company_store")),
	}
}

var _ store.CompanyStore = (*CompanyStore)(nil)

// CreateCompany implements store.CompanyStore.CreateCompany.
func (s *CompanyStore) CreateCompany(ctx context.Context, company *domain.Company) error {
	if err := company.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.companies[company.ID]; exists {
		return store.ErrCompanyExists
	}
	s.companies[company.ID] = *company

	logger.FromContextOrDefault(ctx, s.logger).Debug("company stored",
		slog.String("company_id", company.ID.String()))
	return nil
}

// GetCompany implements store.CompanyStore.GetCompany.
func (s *CompanyStore) GetCompany(_ context.Context, id uuid.UUID) (*domain.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	company, ok := s.companies[id]
	if !ok {
		return nil, store.ErrCompanyNotFound
	}
	return &company, nil
}

// ListCompanies implements store.CompanyStore.ListCompanies.
func (s *CompanyStore) ListCompanies(_ context.Context, ownerID string) ([]*domain.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*domain.Company{}
	for _, company := range s.companies {
		if ownerID != "" && company.OwnerID != ownerID {
			continue
		}
		c := company
		out = append(out, &c)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// AddEmployee implements store.CompanyStore.AddEmployee.
func (s *CompanyStore) AddEmployee(ctx context.Context, employee *domain.Employee) error {
	if err := employee.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	company, ok := s.companies[employee.CompanyID]
	if !ok {
		return store.ErrCompanyNotFound
	}
	if _, exists := s.employees[employee.ID]; exists {
		return fmt.Errorf("%w: employee", store.ErrDuplicate)
	}

	s.employees[employee.ID] = cloneEmployee(employee)
	company.UpdatedAt = latest(company.UpdatedAt, employee.CreatedAt)
	s.companies[company.ID] = company

	logger.FromContextOrDefault(ctx, s.logger).Debug("employee stored",
		slog.String("company_id", company.ID.String()),
		slog.String("employee_id", employee.ID.String()))
	return nil
}

// GetEmployee implements store.CompanyStore.GetEmployee.
func (s *CompanyStore) GetEmployee(_ context.Context, companyID, employeeID uuid.UUID) (*domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	employee, ok := s.employees[employeeID]
	if !ok || employee.CompanyID != companyID {
		return nil, store.ErrEmployeeNotFound
	}
	out := cloneEmployee(&employee)
	return &out, nil
}

// ListEmployees implements store.CompanyStore.ListEmployees.
func (s *CompanyStore) ListEmployees(_ context.Context, companyID uuid.UUID, department string) ([]*domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*domain.Employee{}
	for _, employee := range s.employees {
		if employee.CompanyID != companyID {
			continue
		}
		if department != "" && employee.Department != department {
			continue
		}
		e := cloneEmployee(&employee)
		out = append(out, &e)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// LinkResult implements store.CompanyStore.LinkResult. The memory store
// does not know about results; callers check that the result exists.
func (s *CompanyStore) LinkResult(ctx context.Context, companyID, employeeID, resultID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	employee, ok := s.employees[employeeID]
	if !ok || employee.CompanyID != companyID {
		return store.ErrEmployeeNotFound
	}
	if employee.HasResult(resultID) {
		return nil
	}

	employee.ResultIDs = append(append([]uuid.UUID(nil), employee.ResultIDs...), resultID)
	s.employees[employeeID] = employee

	logger.FromContextOrDefault(ctx, s.logger).Debug("result linked",
		slog.String("employee_id", employeeID.String()),
		slog.String("result_id", resultID.String()))
	return nil
}

func cloneEmployee(e *domain.Employee) domain.Employee {
	c := *e
	c.ResultIDs = append([]uuid.UUID{}, e.ResultIDs...)
	return c
}

func latest(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
