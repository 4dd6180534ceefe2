package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthRequired  = fmt.Errorf("authentication required")
	ErrAuthFailed    = fmt.Errorf("authorization exchange failed")
	ErrRefreshFailed = fmt.Errorf("token refresh failed")
	ErrTimeout       = fmt.Errorf("operation timed out")

	// Upstream errors
	ErrRateLimited         = fmt.Errorf("rate limit exceeded")
	ErrPlanRestricted      = fmt.Errorf("operation restricted by account plan")
	ErrPermissionDenied    = fmt.Errorf("permission denied")
	ErrNotFound            = fmt.Errorf("resource not found")
	ErrUpstreamUnavailable = fmt.Errorf("upstream service unavailable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")

	// Two-phase mutation errors
	ErrPreviewNotFound = fmt.Errorf("preview not found or expired")
)
