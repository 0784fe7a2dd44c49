package generator

import "errors"

var (
	// ErrMissingAPIKey is a configuration error: no credential for the completion endpoint.
	ErrMissingAPIKey = errors.New("missing OPENROUTER_API_KEY; set llm.api_key or the environment variable")

	ErrSourceRequired  = errors.New("paste SOURCE first")
	ErrNoDraft         = errors.New("no draft yet; generate first")
	ErrNothingToCheck  = errors.New("title and description are empty")
	ErrNoImages        = errors.New("no images uploaded")
	ErrBusy            = errors.New("another action is still running")
	ErrEmptyCompletion = errors.New("completion returned no choices")
)

// IsValidation reports whether err was raised before any remote call because of missing input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrSourceRequired) ||
		errors.Is(err, ErrNoDraft) ||
		errors.Is(err, ErrNothingToCheck) ||
		errors.Is(err, ErrNoImages)
}
