package domain

import (
	"errors"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Roster validation errors
var (
	// ErrCompanyIDEmpty is returned when a company has a nil ID.
	ErrCompanyIDEmpty = errors.New("company ID cannot be empty")

	// ErrEmployeeIDEmpty is returned when an employee has a nil ID.
	ErrEmployeeIDEmpty = errors.New("employee ID cannot be empty")
)

// MaxRosterNameLength bounds company and employee names, in characters.
const MaxRosterNameLength = 200

// Company groups employees so that their stored results can be compared
// as one team.
type Company struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"ownerId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewCompany creates a Company with a fresh ID.
// Returns an error if validation fails.
func NewCompany(name, ownerID string) (*Company, error) {
	now := time.Now().UTC()
	company := &Company{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		OwnerID:   strings.TrimSpace(ownerID),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := company.Validate(); err != nil {
		return nil, err
	}

	return company, nil
}

// Validate checks the invariants of a company.
func (c *Company) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCompanyIDEmpty
	}
	return validateRosterName(c.Name)
}

// EmployeeDetails are the optional descriptive fields of an employee.
type EmployeeDetails struct {
	Email      string
	Department string
	Position   string
}

// Employee is one member of a company roster. ResultIDs link the employee
// to stored results in the order they were linked.
type Employee struct {
	ID         uuid.UUID   `json:"id"`
	CompanyID  uuid.UUID   `json:"companyId"`
	Name       string      `json:"name"`
	Email      string      `json:"email,omitempty"`
	Department string      `json:"department,omitempty"`
	Position   string      `json:"position,omitempty"`
	ResultIDs  []uuid.UUID `json:"resultIds"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// NewEmployee creates an Employee of companyID with a fresh ID and no
// linked results.
func NewEmployee(companyID uuid.UUID, name string, details EmployeeDetails) (*Employee, error) {
	employee := &Employee{
		ID:         uuid.New(),
		CompanyID:  companyID,
		Name:       strings.TrimSpace(name),
		Email:      strings.TrimSpace(details.Email),
		Department: strings.TrimSpace(details.Department),
		Position:   strings.TrimSpace(details.Position),
		ResultIDs:  []uuid.UUID{},
		CreatedAt:  time.Now().UTC(),
	}

	if err := employee.Validate(); err != nil {
		return nil, err
	}

	return employee, nil
}

// Validate checks the invariants of an employee.
func (e *Employee) Validate() error {
	if e.ID == uuid.Nil {
		return ErrEmployeeIDEmpty
	}
	if e.CompanyID == uuid.Nil {
		return ErrCompanyIDEmpty
	}
	return validateRosterName(e.Name)
}

// HasResult reports whether id is linked to the employee.
func (e *Employee) HasResult(id uuid.UUID) bool {
	return slices.Contains(e.ResultIDs, id)
}

func validateRosterName(name string) error {
	if strings.TrimSpace(name) == "" {
		return NewValidationError("name", "is required", ErrValidation)
	}
	if utf8.RuneCountInString(name) > MaxRosterNameLength {
		return NewValidationError("name", "is too long", ErrValidation)
	}
	return nil
}
