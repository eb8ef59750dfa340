package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/phrazzld/uranai-api/internal/domain"
)

// CompanyStore persists company rosters and the links between employees
// and stored results.
type CompanyStore interface {
	// CreateCompany saves a new company. It returns ErrInvalidEntity
	// wrapping the validation error when the company is malformed.
	CreateCompany(ctx context.Context, company *domain.Company) error

	// GetCompany retrieves a company by ID.
	// Returns ErrCompanyNotFound if the company does not exist.
	GetCompany(ctx context.Context, id uuid.UUID) (*domain.Company, error)

	// ListCompanies returns companies ordered by name. An empty ownerID
	// lists every company.
	ListCompanies(ctx context.Context, ownerID string) ([]*domain.Company, error)

	// AddEmployee saves a new employee and touches the company's update
	// time. Returns ErrCompanyNotFound if the company does not exist.
	AddEmployee(ctx context.Context, employee *domain.Employee) error

	// GetEmployee retrieves an employee of a company, with linked results.
	// Returns ErrEmployeeNotFound if the employee is not in the company.
	GetEmployee(ctx context.Context, companyID, employeeID uuid.UUID) (*domain.Employee, error)

	// ListEmployees returns a company's employees ordered by name. An empty
	// department lists everyone.
	ListEmployees(ctx context.Context, companyID uuid.UUID, department string) ([]*domain.Employee, error)

	// LinkResult links a stored result to an employee. Linking twice is a
	// no-op. Returns ErrEmployeeNotFound if the employee is not in the company.
	LinkResult(ctx context.Context, companyID, employeeID, resultID uuid.UUID) error
}
