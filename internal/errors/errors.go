package errors

import "fmt"

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeValidation    ErrorType = "VALIDATION"
	TypeConfiguration ErrorType = "CONFIGURATION"
	TypeVCS           ErrorType = "VCS"
	TypeAI            ErrorType = "AI"
	TypeSession       ErrorType = "SESSION"
	TypeInternal      ErrorType = "INTERNAL"
)

// AppError represents a domain-level error with a type and an underlying error
type AppError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{})
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

// WithMessage creates a new AppError replacing the human-readable message
func (e *AppError) WithMessage(msg string) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    msg,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
	}
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

// Validation errors
var (
	ErrNoRepositories = NewAppError(TypeValidation, "at least one repository URL is required", nil).
				WithSuggestion("Send repo_urls: [\"https://github.com/owner/repo\"] in the request body")

	ErrTooManyRepositories = NewAppError(TypeValidation, "a maximum of 5 repositories per analysis is allowed", nil).
				WithSuggestion("Split the analysis into multiple requests")

	ErrInvalidHourlyRate = NewAppError(TypeValidation, "hourly rate must be positive", nil)
)

// VCS errors
var (
	ErrInvalidRepoReference = NewAppError(TypeVCS, "invalid repository reference", nil).
				WithSuggestion("Use https://github.com/owner/repo or the owner/repo shorthand")

	ErrRepositoryNotFound = NewAppError(TypeVCS, "repository not found or private", nil).
				WithSuggestion("Check the repository URL and access permissions")

	ErrRateLimited = NewAppError(TypeVCS, "GitHub API rate limit exceeded", nil).
			WithSuggestion("Provide a GitHub token with a higher quota via GITHUB_TOKEN")
)

// AI errors
var (
	ErrQuotaExceeded = NewAppError(TypeAI, "AI quota exceeded or rate limited", nil).
				WithSuggestion("Wait a few minutes and try again, or check your API quota")

	ErrAIGeneration = NewAppError(TypeAI, "AI generation failed", nil).
			WithSuggestion("Try again or check your API key configuration")

	ErrInvalidAIOutput = NewAppError(TypeAI, "invalid AI output format", nil).
				WithSuggestion("This is likely a temporary issue, please try again")

	ErrAPIKeyInvalid = NewAppError(TypeAI, "AI provider API key is invalid", nil).
				WithSuggestion("Check the configured API key for the active provider")
)

// Configuration errors
var (
	ErrAPIKeyMissing = NewAppError(TypeConfiguration, "AI API key is missing", nil).
				WithSuggestion("Set the API key for the configured provider in the environment or config file")

	ErrUnknownProvider = NewAppError(TypeConfiguration, "LLM provider not supported", nil).
				WithSuggestion("Supported providers: gemini, openai, anthropic")
)

// Session errors
var (
	ErrSessionNotFound = NewAppError(TypeSession, "session not found", nil).
				WithSuggestion("The session may have expired; submit the analysis again")
)

// TypeOf returns the ErrorType of err when it is an AppError, TypeInternal otherwise.
func TypeOf(err error) ErrorType {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type
	}
	return TypeInternal
}
