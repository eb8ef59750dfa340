package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/uranai-api/internal/api/shared"
	"github.com/phrazzld/uranai-api/internal/domain"
	"github.com/phrazzld/uranai-api/internal/service"
	"github.com/phrazzld/uranai-api/internal/service/auth"
	"github.com/phrazzld/uranai-api/internal/store"
)

// Messages shared by several endpoints.
const (
	msgUnexpected     = "予期しないエラーが発生しました"
	msgInvalidRequest = "リクエストの形式が正しくありません"
	msgResultNotFound = "指定された結果が見つかりません"
	msgForbidden      = "この結果にアクセスする権限がありません"
	msgInvalidToken   = "認証トークンが無効です"
)

// errCompanyForbidden marks an access to another owner's company.
var errCompanyForbidden = fmt.Errorf("%w: company", domain.ErrUnauthorized)

// errorMessages are the client-facing messages of one operation. Empty
// fields fall back to GetSafeErrorMessage.
type errorMessages struct {
	invalid  string // 400
	notFound string // 404
	internal string // 5xx
}

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingOwner):
		return http.StatusUnauthorized

	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden

	case errors.Is(err, service.ErrResultNotFound),
		errors.Is(err, service.ErrCompanyNotFound),
		errors.Is(err, service.ErrEmployeeNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	case domain.IsValidationError(err),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrUnsupportedSystem),
		errors.Is(err, domain.ErrTypeMismatch),
		errors.Is(err, domain.ErrInsufficientResults),
		errors.Is(err, service.ErrOwnerRequired),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return msgUnexpected
	}

	var notFound *service.ResultNotFoundError
	switch {
	case errors.As(err, &notFound):
		return fmt.Sprintf("結果ID %s が見つかりません", notFound.ID)

	case errors.Is(err, service.ErrCompanyNotFound),
		errors.Is(err, store.ErrCompanyNotFound):
		return "指定された会社が見つかりません"

	case errors.Is(err, service.ErrEmployeeNotFound),
		errors.Is(err, store.ErrEmployeeNotFound):
		return "指定された従業員が見つかりません"

	case errors.Is(err, service.ErrResultNotFound),
		errors.Is(err, store.ErrNotFound):
		return msgResultNotFound

	case errors.Is(err, auth.ErrExpiredToken):
		return "認証トークンの有効期限が切れています"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingOwner):
		return msgInvalidToken

	case errors.Is(err, errCompanyForbidden):
		return "この会社にアクセスする権限がありません"

	case errors.Is(err, domain.ErrUnauthorized):
		return msgForbidden

	case errors.Is(err, service.ErrOwnerRequired):
		return "ユーザーIDが指定されていません"

	case errors.Is(err, domain.ErrInsufficientResults):
		return "比較するには2つ以上の結果IDが必要です"

	case errors.Is(err, domain.ErrTypeMismatch):
		return "異なる種類の結果は比較できません"

	case errors.Is(err, domain.ErrUnsupportedSystem):
		return "サポートされていない診断タイプです"

	case errors.Is(err, domain.ErrInvalidID):
		return "結果IDの形式が正しくありません"

	case domain.IsValidationError(err),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, store.ErrInvalidEntity):
		return msgInvalidRequest

	default:
		return msgUnexpected
	}
}

// handleError writes the response for a failed operation. Specific errors
// with their own message (a missing comparison ID, an ownerless listing)
// keep it; otherwise the operation's message for the status class is used.
func handleError(w http.ResponseWriter, r *http.Request, err error, msgs errorMessages) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)

	var notFound *service.ResultNotFoundError
	switch {
	case status >= http.StatusInternalServerError:
		if msgs.internal != "" {
			message = msgs.internal
		}
	case status == http.StatusNotFound:
		if msgs.notFound != "" && !errors.As(err, &notFound) {
			message = msgs.notFound
		}
	case status == http.StatusBadRequest:
		if msgs.invalid != "" && !hasOwnMessage(err) {
			message = msgs.invalid
		}
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

func hasOwnMessage(err error) bool {
	return errors.Is(err, domain.ErrInsufficientResults) ||
		errors.Is(err, domain.ErrTypeMismatch) ||
		errors.Is(err, domain.ErrInvalidID) ||
		errors.Is(err, service.ErrOwnerRequired)
}

// SanitizeValidationError converts validator output into a domain
// ValidationError naming the first failing field. Other errors pass through.
func SanitizeValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	first := fieldErrs[0]
	return domain.NewValidationError(first.Field(), getValidationTagMessage(first.Tag()), domain.ErrValidation)
}

// getValidationTagMessage maps validation tags to short messages.
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "min":
		return "is too short"
	case "max":
		return "is too long"
	case "oneof":
		return "has an invalid value"
	case "len":
		return "has the wrong length"
	case "email":
		return "is not a valid email address"
	default:
		return "failed validation"
	}
}
