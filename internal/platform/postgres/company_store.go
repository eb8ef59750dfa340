package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/phrazzld/uranai-api/internal/domain"
	"github.com/phrazzld/uranai-api/internal/platform/logger"
	"github.com/phrazzld/uranai-api/internal/store"
)

const companyColumns = `id, name, COALESCE(owner_id, ''), created_at, updated_at`

// employeeSelect aggregates linked result IDs into one comma separated
// column, oldest link first.
const employeeSelect = `
	SELECT e.id, e.company_id, e.name,
		COALESCE(e.email, ''), COALESCE(e.department, ''), COALESCE(e.position_title, ''),
		e.created_at,
		COALESCE(string_agg(l.result_id::text, ',' ORDER BY l.linked_at, l.result_id), '')
	FROM employees e
	LEFT JOIN employee_results l ON l.employee_id = e.id
`

// PostgresCompanyStore implements store.CompanyStore over the companies,
// employees and employee_results tables.
type PostgresCompanyStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCompanyStore creates a company store on db.
// If logger is nil, a default logger will be used.
func NewPostgresCompanyStore(db store.DBTX, logger *slog.Logger) *PostgresCompanyStore {
	if db == nil {
		// ALLOW-PANIC: constructor misuse
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCompanyStore{
		db:     db,
		logger: logger.With(slog.String("component", "company_store")),
	}
}

var _ store.CompanyStore = (*PostgresCompanyStore)(nil)

// CreateCompany implements store.CompanyStore.CreateCompany.
func (s *PostgresCompanyStore) CreateCompany(ctx context.Context, company *domain.Company) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := company.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO companies (id, name, owner_id, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		company.ID, company.Name, company.OwnerID, company.CreatedAt, company.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrCompanyExists, err)
		}
		log.Error("failed to create company",
			slog.String("error", err.Error()),
			slog.String("company_id", company.ID.String()))
		return store.NewStoreError("company", "create", "failed to insert company", MapError(err))
	}

	log.Info("company created", slog.String("company_id", company.ID.String()))
	return nil
}

// GetCompany implements store.CompanyStore.GetCompany.
func (s *PostgresCompanyStore) GetCompany(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`

	company, err := scanCompany(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCompanyNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get company",
			slog.String("error", err.Error()),
			slog.String("company_id", id.String()))
		return nil, store.NewStoreError("company", "get", "failed to query company", MapError(err))
	}
	return company, nil
}

// ListCompanies implements store.CompanyStore.ListCompanies.
func (s *PostgresCompanyStore) ListCompanies(ctx context.Context, ownerID string) ([]*domain.Company, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + companyColumns + ` FROM companies
		WHERE ($1::text = '' OR owner_id = $1::text)
		ORDER BY name, id`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.Error("failed to list companies", slog.String("error", err.Error()))
		return nil, store.NewStoreError("company", "list", "failed to query companies", MapError(err))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	companies := []*domain.Company{}
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, store.NewStoreError("company", "list", "failed to scan company", err)
		}
		companies = append(companies, company)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("company", "list", "failed to iterate companies", err)
	}
	return companies, nil
}

// AddEmployee implements store.CompanyStore.AddEmployee. The company row
// is touched in the same statement so a missing company inserts nothing.
func (s *PostgresCompanyStore) AddEmployee(ctx context.Context, employee *domain.Employee) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := employee.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		WITH touched AS (
			UPDATE companies SET updated_at = GREATEST(updated_at, $7::timestamptz)
			WHERE id = $2
			RETURNING id
		)
		INSERT INTO employees (id, company_id, name, email, department, position_title, created_at)
		SELECT $1::uuid, touched.id, $3::text, NULLIF($4::text, ''), NULLIF($5::text, ''),
			NULLIF($6::text, ''), $7::timestamptz
		FROM touched
	`
	res, err := s.db.ExecContext(ctx, query,
		employee.ID, employee.CompanyID, employee.Name,
		employee.Email, employee.Department, employee.Position, employee.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: employee: %v", store.ErrDuplicate, err)
		}
		log.Error("failed to add employee",
			slog.String("error", err.Error()),
			slog.String("company_id", employee.CompanyID.String()))
		return store.NewStoreError("employee", "create", "failed to insert employee", MapError(err))
	}

	if err := CheckRowsAffected(res, store.ErrCompanyNotFound); err != nil {
		if errors.Is(err, store.ErrCompanyNotFound) {
			return err
		}
		return store.NewStoreError("employee", "create", "failed to confirm insert", err)
	}

	log.Info("employee added",
		slog.String("company_id", employee.CompanyID.String()),
		slog.String("employee_id", employee.ID.String()))
	return nil
}

// GetEmployee implements store.CompanyStore.GetEmployee.
func (s *PostgresCompanyStore) GetEmployee(ctx context.Context, companyID, employeeID uuid.UUID) (*domain.Employee, error) {
	query := employeeSelect + ` WHERE e.company_id = $1 AND e.id = $2 GROUP BY e.id`

	employee, err := scanEmployee(s.db.QueryRowContext(ctx, query, companyID, employeeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrEmployeeNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get employee",
			slog.String("error", err.Error()),
			slog.String("employee_id", employeeID.String()))
		return nil, store.NewStoreError("employee", "get", "failed to query employee", MapError(err))
	}
	return employee, nil
}

// ListEmployees implements store.CompanyStore.ListEmployees.
func (s *PostgresCompanyStore) ListEmployees(ctx context.Context, companyID uuid.UUID, department string) ([]*domain.Employee, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := employeeSelect + `
		WHERE e.company_id = $1 AND ($2::text = '' OR e.department = $2::text)
		GROUP BY e.id
		ORDER BY e.name, e.id`

	rows, err := s.db.QueryContext(ctx, query, companyID, department)
	if err != nil {
		log.Error("failed to list employees",
			slog.String("error", err.Error()),
			slog.String("company_id", companyID.String()))
		return nil, store.NewStoreError("employee", "list", "failed to query employees", MapError(err))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	employees := []*domain.Employee{}
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, store.NewStoreError("employee", "list", "failed to scan employee", err)
		}
		employees = append(employees, employee)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("employee", "list", "failed to iterate employees", err)
	}
	return employees, nil
}

// LinkResult implements store.CompanyStore.LinkResult. A result ID that
// does not exist yields store.ErrResultNotFound.
func (s *PostgresCompanyStore) LinkResult(ctx context.Context, companyID, employeeID, resultID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		WITH target AS (
			SELECT id FROM employees WHERE id = $1 AND company_id = $2
		), linked AS (
			INSERT INTO employee_results (employee_id, result_id, linked_at)
			SELECT id, $3::uuid, NOW() FROM target
			ON CONFLICT (employee_id, result_id) DO NOTHING
		)
		SELECT EXISTS (SELECT 1 FROM target)
	`
	var found bool
	if err := s.db.QueryRowContext(ctx, query, employeeID, companyID, resultID).Scan(&found); err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrResultNotFound, err)
		}
		log.Error("failed to link result",
			slog.String("error", err.Error()),
			slog.String("employee_id", employeeID.String()))
		return store.NewStoreError("employee", "link_result", "failed to link result", MapError(err))
	}
	if !found {
		return store.ErrEmployeeNotFound
	}

	log.Debug("result linked",
		slog.String("employee_id", employeeID.String()),
		slog.String("result_id", resultID.String()))
	return nil
}

func scanCompany(row rowScanner) (*domain.Company, error) {
	var c domain.Company
	if err := row.Scan(&c.ID, &c.Name, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return &c, nil
}

func scanEmployee(row rowScanner) (*domain.Employee, error) {
	var (
		e      domain.Employee
		linked string
	)
	if err := row.Scan(&e.ID, &e.CompanyID, &e.Name, &e.Email, &e.Department, &e.Position,
		&e.CreatedAt, &linked); err != nil {
		return nil, err
	}
	e.CreatedAt = e.CreatedAt.UTC()

	ids, err := splitResultIDs(linked)
	if err != nil {
		return nil, err
	}
	e.ResultIDs = ids
	return &e, nil
}

func splitResultIDs(joined string) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	if joined == "" {
		return ids, nil
	}
	for _, part := range strings.Split(joined, ",") {
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, fmt.Errorf("malformed linked result id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
