package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/uranai-api/internal/domain"
	"github.com/phrazzld/uranai-api/internal/domain/compare"
	"github.com/phrazzld/uranai-api/internal/domain/feedback"
	"github.com/phrazzld/uranai-api/internal/service"
)

// Request DTOs. Tags check presence and bounds; parsing of dates, times and
// codes happens in the divination service.

// NumerologyRequest is the body of POST /api/divination/numerology.
type NumerologyRequest struct {
	Name      string `json:"name"      validate:"required,max=100"`
	Birthdate string `json:"birthdate" validate:"required,max=32"`
}

func (r *NumerologyRequest) input() service.DivinationInput {
	return service.DivinationInput{Name: r.Name, Birthdate: r.Birthdate}
}

// FourPillarsRequest is the body of POST /api/divination/fourPillars.
type FourPillarsRequest struct {
	Name      string `json:"name"      validate:"max=100"`
	Birthdate string `json:"birthdate" validate:"required,max=32"`
	Birthtime string `json:"birthtime" validate:"required,max=8"`
	Gender    string `json:"gender"    validate:"required,max=16"`
}

func (r *FourPillarsRequest) input() service.DivinationInput {
	return service.DivinationInput{Name: r.Name, Birthdate: r.Birthdate, Birthtime: r.Birthtime, Gender: r.Gender}
}

// SanmeiRequest is the body of POST /api/divination/sanmei.
type SanmeiRequest struct {
	Name      string `json:"name"      validate:"max=100"`
	Birthdate string `json:"birthdate" validate:"required,max=32"`
	Birthtime string `json:"birthtime" validate:"max=8"`
	Gender    string `json:"gender"    validate:"required,max=16"`
}

func (r *SanmeiRequest) input() service.DivinationInput {
	return service.DivinationInput{
		Name:      r.Name,
		Birthdate: r.Birthdate,
		Birthtime: r.Birthtime,
		Gender:    r.Gender,
	}
}

// MBTIRequest is the body of POST /api/divination/mbti.
type MBTIRequest struct {
	PersonalityType string `json:"personalityType" validate:"required,max=8"`
	Name            string `json:"name"            validate:"max=100"`
}

func (r *MBTIRequest) input() service.DivinationInput {
	return service.DivinationInput{PersonalityType: r.PersonalityType, Name: r.Name}
}

// AnimalFortuneRequest is the body of POST /api/divination/animalFortune.
type AnimalFortuneRequest struct {
	Name      string `json:"name"      validate:"max=100"`
	Birthdate string `json:"birthdate" validate:"required,max=32"`
	Gender    string `json:"gender"    validate:"max=16"`
}

func (r *AnimalFortuneRequest) input() service.DivinationInput {
	return service.DivinationInput{Name: r.Name, Birthdate: r.Birthdate, Gender: r.Gender}
}

// SaveResultRequest is the body of POST /api/results.
type SaveResultRequest struct {
	Type    string          `json:"type"    validate:"required,max=32"`
	Result  json.RawMessage `json:"result"  validate:"required"`
	OwnerID string          `json:"ownerId" validate:"max=128"`
}

// CompareRequest is the body of POST /api/compare.
type CompareRequest struct {
	ResultIDs []string `json:"resultIds" validate:"max=50"`
}

// CreateCompanyRequest is the body of POST /api/companies.
type CreateCompanyRequest struct {
	Name    string `json:"name"    validate:"required,max=200"`
	OwnerID string `json:"ownerId" validate:"max=128"`
}

// AddEmployeeRequest is the body of POST /api/companies/{id}/employees.
type AddEmployeeRequest struct {
	Name       string      `json:"name"       validate:"required,max=200"`
	Email      string      `json:"email"      validate:"omitempty,email,max=254"`
	Department string      `json:"department" validate:"max=100"`
	Position   string      `json:"position"   validate:"max=100"`
	ResultIDs  []uuid.UUID `json:"resultIds"  validate:"max=50"`
}

// LinkResultRequest is the body of
// POST /api/companies/{id}/employees/{employeeId}/results.
type LinkResultRequest struct {
	ResultID uuid.UUID `json:"resultId" validate:"required"`
}

// TeamCompareRequest is the body of POST /api/companies/{id}/compare.
type TeamCompareRequest struct {
	Type       string `json:"type"       validate:"required,max=32"`
	Department string `json:"department" validate:"max=100"`
}

// Response DTOs.

// DivinationResponse wraps a calculator profile.
type DivinationResponse struct {
	Success bool `json:"success"`
	Result  any  `json:"result"`
}

// SaveResultResponse acknowledges a stored result.
type SaveResultResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	ID      uuid.UUID `json:"id"`
}

// ResultResponse carries one stored result.
type ResultResponse struct {
	Success bool                 `json:"success"`
	Result  *domain.StoredResult `json:"result"`
}

// ResultSummary is the listing view of a stored result.
type ResultSummary struct {
	ID        uuid.UUID         `json:"id"`
	Type      domain.SystemType `json:"type"`
	CreatedAt time.Time         `json:"createdAt"`
}

// ResultListResponse is the body of GET /api/results.
type ResultListResponse struct {
	Results []ResultSummary `json:"results"`
}

// CompareResponse wraps a comparison.
type CompareResponse struct {
	Success    bool           `json:"success"`
	Comparison compare.Result `json:"comparison"`
}

// CompanyResponse carries one company.
type CompanyResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Company *domain.Company `json:"company"`
}

// CompanyListResponse is the body of GET /api/companies.
type CompanyListResponse struct {
	Companies []*domain.Company `json:"companies"`
}

// EmployeeResponse carries one employee with linked result IDs.
type EmployeeResponse struct {
	Success  bool             `json:"success"`
	Message  string           `json:"message,omitempty"`
	Employee *domain.Employee `json:"employee"`
}

// EmployeeListResponse is the body of GET /api/companies/{id}/employees.
type EmployeeListResponse struct {
	Employees []*domain.Employee `json:"employees"`
}

// FeedbackResponse wraps generated feedback.
type FeedbackResponse struct {
	Success  bool              `json:"success"`
	Feedback feedback.Feedback `json:"feedback"`
}

func summarize(results []*domain.StoredResult) []ResultSummary {
	out := make([]ResultSummary, 0, len(results))
	for _, r := range results {
		out = append(out, ResultSummary{ID: r.ID, Type: r.Type, CreatedAt: r.CreatedAt})
	}
	return out
}
