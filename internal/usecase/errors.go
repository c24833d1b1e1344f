package usecase

import "fmt"

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}

// Códigos de erro do motor. NOT_FOUND e INVALID_OPERATION sobem para o
// chamador sem retry; nunca são corrigidos silenciosamente.
const (
	CodeNotFound         = "NOT_FOUND"
	CodeInvalidOperation = "INVALID_OPERATION"
)

func NewNotFoundError(what, id string) *DomainError {
	return &DomainError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %s not found", what, id),
	}
}

func NewInvalidOperationError(msg string) *DomainError {
	return &DomainError{
		Code:    CodeInvalidOperation,
		Message: msg,
	}
}

func IsNotFound(err error) bool {
	de, ok := err.(*DomainError)
	return ok && de.Code == CodeNotFound
}

func IsInvalidOperation(err error) bool {
	de, ok := err.(*DomainError)
	return ok && de.Code == CodeInvalidOperation
}
