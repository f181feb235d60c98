package goaml

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/goaml/i18n"
)

// Code classifies a conversion failure.
type Code string

// Error codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidParam        Code = "invalid_param"
	CodeInvalidFilePath     Code = "invalid_file_path"
	CodeInvalidSchema       Code = "invalid_schema"
	CodeInvalidMarkup       Code = "invalid_markup"
	CodeInvalidBinary       Code = "invalid_binary"
	CodeSchemaMismatch      Code = "schema_mismatch"
	CodeSerializationFailed Code = "serialization_failed"
	CodeKeyNotFound         Code = "key_not_found"
	CodeDuplicateKey        Code = "duplicate_key"
	CodeWrongValueKind      Code = "wrong_value_kind"
	CodeCapabilityDisabled  Code = "capability_disabled"
)

// Sentinels for errors.Is. Any *Error with the same Code matches.
var (
	ErrInvalidParam        = &Error{Code: CodeInvalidParam}
	ErrInvalidFilePath     = &Error{Code: CodeInvalidFilePath}
	ErrInvalidSchema       = &Error{Code: CodeInvalidSchema}
	ErrInvalidMarkup       = &Error{Code: CodeInvalidMarkup}
	ErrInvalidBinary       = &Error{Code: CodeInvalidBinary}
	ErrSchemaMismatch      = &Error{Code: CodeSchemaMismatch}
	ErrSerializationFailed = &Error{Code: CodeSerializationFailed}
	ErrKeyNotFound         = &Error{Code: CodeKeyNotFound}
	ErrDuplicateKey        = &Error{Code: CodeDuplicateKey}
	ErrWrongValueKind      = &Error{Code: CodeWrongValueKind}
	ErrCapabilityDisabled  = &Error{Code: CodeCapabilityDisabled}
)

// Error is the single error type returned by this package.
type Error struct {
	Code    Code
	Message string // Optional detail; the localized code text is used when empty.
	Path    string // Slash separated element/attribute path, when known.
	Cause   error  // Optional: underlying error.
}

// Error renders "<reason>: <message> at <path>: <cause>", omitting empty parts.
func (e *Error) Error() string {
	if e == nil {
		return "goaml: <nil>"
	}
	b := &strings.Builder{}
	b.WriteString(i18n.T(string(e.Code), nil))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Path != "" {
		fmt.Fprintf(b, " at %s", e.Path)
	}
	if e.Cause != nil {
		fmt.Fprintf(b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error carrying the same code, so the package sentinels work
// with errors.Is regardless of message or path.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || t == nil {
		return false
	}
	return e.Code == t.Code
}

// CodeOf extracts the Code of the first *Error in err's chain. It returns ""
// when err is nil or carries no *Error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// withPath returns err with p prepended to its path when err is an *Error.
func withPath(err error, p string) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	out := *e
	if out.Path == "" {
		out.Path = p
	} else {
		out.Path = p + "/" + out.Path
	}
	return &out
}

// mismatch wraps an accessor failure so the caller sees SchemaMismatch while the
// underlying KeyNotFound/WrongValueKind stays reachable through errors.Is.
func mismatch(cause error, slot string) *Error {
	return &Error{Code: CodeSchemaMismatch, Message: fmt.Sprintf("attribute %q", slot), Cause: cause}
}
