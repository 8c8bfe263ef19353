// Package errs holds the error taxonomy shared by the engine, the config
// layer and the download sinks. Errors carry a machine-readable Code and
// structured fields through samber/oops.
package errs

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/samber/oops"
)

// Code is the machine-readable identifier for an error.
type Code string

const (
	CodeFetchFailure    Code = "engine.fetch.failure"
	CodeActionInvalid   Code = "engine.action.invalid_input"
	CodeActionBusy      Code = "engine.action.busy"
	CodeFilterInvalid   Code = "engine.filter.invalid_input"
	CodeMutationFailure Code = "engine.mutation.failure"
	CodeExportFailure   Code = "engine.export.failure"
	CodeNotifyFailure   Code = "engine.notify.failure"
	CodeDetailFailure   Code = "engine.detail.failure"

	CodeConfigLoadFailure  Code = "config.load.failure"
	CodeConfigInvalidValue Code = "config.validate.invalid_value"

	CodeSinkSaveFailure Code = "sink.save.failure"
	CodeSinkInvalid     Code = "sink.config.invalid_value"

	CodeCLIInputInvalid Code = "cli.input.invalid"
)

// Attr is a structured key/value context attached to an error.
type Attr struct {
	Key   string
	Value any
}

func Field(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

func FieldDomain(value string) Attr {
	return Field("domain", value)
}

func FieldAction(value string) Attr {
	return Field("action", value)
}

func New(code Code, msg string, fields ...Attr) error {
	return oops.Code(code).With(flatten(fields)...).New(msg)
}

func Errorf(code Code, format string, args ...any) error {
	return oops.Code(code).Errorf(format, args...)
}

func Wrap(err error, code Code, msg string, fields ...Attr) error {
	if err == nil {
		return nil
	}
	return oops.Code(code).With(flatten(fields)...).Wrapf(err, "%s", msg)
}

func Wrapf(err error, code Code, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return oops.Code(code).Wrapf(err, format, args...)
}

func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	if code, ok := oopsErr.Code().(Code); ok {
		return code
	}
	if code, ok := oopsErr.Code().(string); ok {
		return Code(code)
	}
	return Code(fmt.Sprintf("%v", oopsErr.Code()))
}

func FieldsOf(err error) map[string]any {
	if err == nil {
		return nil
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return nil
	}
	return oopsErr.Context()
}

func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

// IsValidation reports whether err was raised by a local precondition check
// and never reached the network.
func IsValidation(err error) bool {
	r := reason(CodeOf(err))
	return r == "invalid" || r == "invalid_input" || r == "invalid_value"
}

// IsBusy reports whether err refused an operation because the same one is
// still in flight.
func IsBusy(err error) bool {
	return reason(CodeOf(err)) == "busy"
}

// RemoteError is a non-2xx answer from the backend. Message is kept
// verbatim so it can be shown to the administrator as-is.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("backend responded %d: %s", e.Status, e.Message)
}

// NewRemote builds a RemoteError, falling back to the status text when the
// backend sent no message.
func NewRemote(status int, message string) *RemoteError {
	message = strings.TrimSpace(message)
	if message == "" {
		message = http.StatusText(status)
	}
	return &RemoteError{Status: status, Message: message}
}

// AsRemote extracts the backend error from a chain, if any.
func AsRemote(err error) (*RemoteError, bool) {
	var remote *RemoteError
	if stderrors.As(err, &remote) {
		return remote, true
	}
	return nil, false
}

// Message renders err for display. Backend messages are surfaced verbatim.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if remote, ok := AsRemote(err); ok {
		return remote.Message
	}
	return err.Error()
}

func flatten(fields []Attr) []any {
	pairs := make([]any, 0, len(fields)*2)
	for _, field := range fields {
		if field.Key == "" {
			continue
		}
		pairs = append(pairs, field.Key, field.Value)
	}
	return pairs
}

func reason(code Code) string {
	if code == "" {
		return ""
	}
	raw := string(code)
	idx := strings.LastIndex(raw, ".")
	if idx == -1 || idx == len(raw)-1 {
		return raw
	}
	return raw[idx+1:]
}
