package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Configuration errors
	ErrMsgConfigNotFound    = "configuration not found"
	ErrMsgCredentialMissing = "owner has no remote API credential"

	// Provisioning errors
	ErrMsgProvisioningFailed = "viewer provisioning failed"

	// Row-level sync errors
	ErrMsgRowOperationFailed = "row operation failed"

	// Sharing errors
	ErrMsgSharingFailed = "sharing failed"

	// Validation errors
	ErrMsgInvalidAccessLevel = "invalid access level"
	ErrMsgInvalidInput       = "invalid input"

	// Run scheduling errors
	ErrMsgRunInProgress = "a sync run is already in progress for this config"
	ErrMsgQueueFull     = "sync queue is full"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Fatal for the run: checked before any remote call
	ErrConfigNotFound    = errors.New(ErrMsgConfigNotFound)
	ErrCredentialMissing = errors.New(ErrMsgCredentialMissing)

	// Fatal for the affected viewer's remaining steps this run, non-fatal
	// for other viewers
	ErrProvisioningFailed = errors.New(ErrMsgProvisioningFailed)

	// Non-fatal: logged, skipped, retried implicitly next run
	ErrRowOperationFailed = errors.New(ErrMsgRowOperationFailed)
	ErrSharingFailed      = errors.New(ErrMsgSharingFailed)

	// Validation errors
	ErrInvalidAccessLevel = errors.New(ErrMsgInvalidAccessLevel)
	ErrInvalidInput       = errors.New(ErrMsgInvalidInput)

	// Run scheduling errors: a config runs at most once at a time
	ErrRunInProgress = errors.New(ErrMsgRunInProgress)
	ErrQueueFull     = errors.New(ErrMsgQueueFull)
)
