package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies every failure the gateway can surface. The set is
// closed: handlers map kinds to HTTP statuses and callers branch on the
// status field of the response envelope, never on free-form text.
type ErrorKind int

const (
	// KindSandboxViolation covers paths and commands that fall outside the
	// data root, including the authorizer's out-of-scope rejection.
	KindSandboxViolation ErrorKind = iota
	// KindDestructiveOperation is a denylisted verb or a forbidden SQL verb.
	KindDestructiveOperation
	// KindOracleError is an upstream text-to-command call that failed,
	// timed out, or returned an unusable body.
	KindOracleError
	// KindExecutionFailure is a subprocess that exited non-zero or could
	// not be spawned.
	KindExecutionFailure
	// KindNotFound is a missing file.
	KindNotFound
	// KindAdapterFailure is a third-party operation error: malformed image,
	// failed fetch, git failure, transcription failure.
	KindAdapterFailure
)

func (k ErrorKind) String() string {
	switch k {
	case KindSandboxViolation:
		return "sandbox_violation"
	case KindDestructiveOperation:
		return "destructive_operation"
	case KindOracleError:
		return "oracle_error"
	case KindExecutionFailure:
		return "execution_failure"
	case KindNotFound:
		return "not_found"
	case KindAdapterFailure:
		return "adapter_failure"
	default:
		return "unknown"
	}
}

// HTTPStatus maps a kind to the status code used when an endpoint reports
// the error at the HTTP layer rather than inside a 200 envelope.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindSandboxViolation, KindDestructiveOperation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindOracleError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// GatewayError is the one error type that crosses component boundaries.
type GatewayError struct {
	Kind    ErrorKind
	Message string
}

func (e *GatewayError) Error() string {
	return e.Message
}

// Errf builds a GatewayError with a formatted message.
func Errf(kind ErrorKind, format string, args ...interface{}) *GatewayError {
	return &GatewayError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from err. Errors that did not originate in the
// gateway are reported as adapter failures.
func KindOf(err error) ErrorKind {
	var ge *GatewayError
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return KindAdapterFailure
}
