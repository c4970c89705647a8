// Package businessflow contains the business logic for the quoting platform.
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Catalog errors
	ErrProductNotFound  = errors.New("product not found")
	ErrProductInactive  = errors.New("product is inactive")
	ErrCategoryNotFound = errors.New("category not found")
	ErrMaterialNotFound = errors.New("material not found")
	ErrVariantNotFound  = errors.New("material variant not found")
	ErrPrintingNotFound = errors.New("printing not found")
	ErrFinishNotFound   = errors.New("finish not found")

	// Customer errors
	ErrCustomerNotFound = errors.New("customer not found")
	ErrCustomerInactive = errors.New("customer is inactive")

	// Quote errors
	ErrQuoteNotFound = errors.New("quote not found")

	// Rule and config errors
	ErrMarginRuleNotFound    = errors.New("margin rule not found")
	ErrConfigNotFound        = errors.New("global configuration not found")
	ErrScopeTargetRequired   = errors.New("scoped rules require a category or product target")
	ErrValidityWindowInvalid = errors.New("valid_from must not be after valid_to")

	// Override errors
	ErrOverrideNotFound    = errors.New("price override not found")
	ErrUnknownOverrideKind = errors.New("unknown price override kind")

	// Filter errors
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsProductNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound)
}

func IsProductInactive(err error) bool {
	return errors.Is(err, ErrProductInactive)
}

func IsCategoryNotFound(err error) bool {
	return errors.Is(err, ErrCategoryNotFound)
}

func IsMaterialNotFound(err error) bool {
	return errors.Is(err, ErrMaterialNotFound)
}

func IsVariantNotFound(err error) bool {
	return errors.Is(err, ErrVariantNotFound)
}

func IsPrintingNotFound(err error) bool {
	return errors.Is(err, ErrPrintingNotFound)
}

func IsFinishNotFound(err error) bool {
	return errors.Is(err, ErrFinishNotFound)
}

func IsCustomerNotFound(err error) bool {
	return errors.Is(err, ErrCustomerNotFound)
}

func IsCustomerInactive(err error) bool {
	return errors.Is(err, ErrCustomerInactive)
}

func IsQuoteNotFound(err error) bool {
	return errors.Is(err, ErrQuoteNotFound)
}

func IsMarginRuleNotFound(err error) bool {
	return errors.Is(err, ErrMarginRuleNotFound)
}

func IsConfigNotFound(err error) bool {
	return errors.Is(err, ErrConfigNotFound)
}

func IsScopeTargetRequired(err error) bool {
	return errors.Is(err, ErrScopeTargetRequired)
}

func IsValidityWindowInvalid(err error) bool {
	return errors.Is(err, ErrValidityWindowInvalid)
}

func IsOverrideNotFound(err error) bool {
	return errors.Is(err, ErrOverrideNotFound)
}

func IsUnknownOverrideKind(err error) bool {
	return errors.Is(err, ErrUnknownOverrideKind)
}

func IsInvalidPage(err error) bool {
	return errors.Is(err, ErrInvalidPage)
}

func IsInvalidPageSize(err error) bool {
	return errors.Is(err, ErrInvalidPageSize)
}
