package core

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/DecoyJoe/whitesource-plugin/internal/types"
)

// CLIResponse is the structured JSON output for machine-readable CLI runs.
//
// Schema:
//
//	{
//	  "success": true|false,
//	  "data": { ... },          // Command-specific payload (omitted on error)
//	  "error": {                 // Present only on failure
//	    "code": "POLICY_REJECTED",
//	    "message": "Human-readable description"
//	  }
//	}
type CLIResponse struct {
	Success bool            `json:"success"`
	Data    interface{}     `json:"data,omitempty"`
	Error   *CLIErrorDetail `json:"error,omitempty"`
}

// CLIErrorDetail contains machine-readable error code and human-readable message.
type CLIErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CLI exit codes.
const (
	ExitSuccess          = 0
	ExitGeneralError     = 1
	ExitPolicyRejected   = 2
	ExitInvalidArguments = 3
	ExitValidationFailed = 4
	ExitServiceError     = 5
)

// CLI error codes for structured JSON error responses.
const (
	ErrCodePolicyRejected   = "POLICY_REJECTED"
	ErrCodeUnsupportedBuild = "UNSUPPORTED_BUILD_KIND"
	ErrCodeInvalidArguments = "INVALID_ARGUMENTS"
	ErrCodeConfigError      = "CONFIG_ERROR"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeServiceError     = "SERVICE_ERROR"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// EmitCLISuccess writes a successful CLIResponse as JSON to stdout.
func EmitCLISuccess(data interface{}) {
	resp := CLIResponse{Success: true, Data: data}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(resp) //nolint:errcheck
}

// EmitCLIError writes an error CLIResponse as JSON to stdout.
// Returns the exit code for the caller to use with os.Exit.
func EmitCLIError(code string, message string, exitCode int) int {
	resp := CLIResponse{
		Success: false,
		Error:   &CLIErrorDetail{Code: code, Message: message},
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(resp) //nolint:errcheck
	return exitCode
}

// ExitCodeForOutcome maps a pipeline BuildOutcome to a CLI exit code. The
// exit code is the only channel through which the host build system learns
// the outcome.
func ExitCodeForOutcome(outcome types.BuildOutcome) int {
	switch outcome {
	case types.OutcomeFailed:
		return ExitPolicyRejected
	case types.OutcomeConditionalFailure:
		return ExitServiceError
	default:
		return ExitSuccess
	}
}

// CLIErrorCodeForError maps structured error types to CLI error code strings.
func CLIErrorCodeForError(err error) string {
	switch {
	case errors.Is(err, ErrPolicyRejection):
		return ErrCodePolicyRejected
	case errors.Is(err, ErrNoInventory):
		return ErrCodeConfigError
	case IsUnsupportedBuildKind(err):
		return ErrCodeUnsupportedBuild
	case IsServiceError(err):
		return ErrCodeServiceError
	default:
		return ErrCodeInternalError
	}
}
