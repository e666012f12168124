package subagent

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a subagent operation failure.
type ErrorCode string

// Error codes carried by [Error].
const (
	CodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	CodeFileError     ErrorCode = "FILE_ERROR"
)

// Sentinel errors for the subagent package.
var (
	// ErrNoFrontmatter is returned by ParseDocument when the content has no
	// frontmatter delimiter pair.
	ErrNoFrontmatter = errors.New("subagent: missing frontmatter block")

	// ErrNoScopeFactory is returned by Manager.CreateScope when no execution
	// engine was configured.
	ErrNoScopeFactory = errors.New("subagent: no scope factory configured")
)

// Error is the typed failure returned by Manager operations. It carries a
// machine-readable code and, when known, the subject agent name.
type Error struct {
	Code    ErrorCode
	Agent   string // subject agent name, may be empty
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Agent != "" {
		return fmt.Sprintf("subagent %q: %s", e.Agent, e.Message)
	}
	return "subagent: " + e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// IsCode reports whether err is a subagent [Error] with the given code.
func IsCode(err error, code ErrorCode) bool {
	var se *Error
	return errors.As(err, &se) && se.Code == code
}

// errf builds an Error with a formatted message.
func errf(code ErrorCode, agent, format string, args ...any) *Error {
	return &Error{Code: code, Agent: agent, Message: fmt.Sprintf(format, args...)}
}

// wrapErr builds an Error that preserves the underlying cause for errors.Is
// and appends its message for diagnosis.
func wrapErr(code ErrorCode, agent, msg string, cause error) *Error {
	return &Error{
		Code:    code,
		Agent:   agent,
		Message: fmt.Sprintf("%s: %s", msg, cause.Error()),
		cause:   cause,
	}
}
