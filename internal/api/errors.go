package api

import "errors"

const genericMessage = "Something went wrong. Please try again."

var ErrProductNotFound = errors.New("product not found")

// AuthError covers missing or rejected credentials, both the client-side
// short-circuit and a backend 401/403.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// ValidationError is a backend rejection of the payload (400/422).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NetworkError covers transport failures and unexpected statuses. Message is
// what gets surfaced to the operator.
type NetworkError struct {
	Status  int
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	return e.Message
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
