package domain

import (
	"errors"
	"strings"
)

var (
	ErrSendingReplyFailed = errors.New("failed to send reply")
	ErrMissingImage       = errors.New("missing image")
	ErrInvalidBudget      = errors.New("size budget must be greater than zero")
)

// ErrorKind tags a failure so callers can branch on it without matching messages.
type ErrorKind string

const (
	KindInputFormat  ErrorKind = "input_format"
	KindUnknownStyle ErrorKind = "unknown_style"
	KindModelOutput  ErrorKind = "model_output"
	KindDecode       ErrorKind = "decode"
	KindTransport    ErrorKind = "transport"
)

// Sentinels for errors.Is. Any *Error with the same kind matches.
var (
	ErrInputFormat  = &Error{Kind: KindInputFormat, Message: "invalid image format"}
	ErrUnknownStyle = &Error{Kind: KindUnknownStyle, Message: "unknown style"}
	ErrModelOutput  = &Error{Kind: KindModelOutput, Message: "model returned no image"}
	ErrDecode       = &Error{Kind: KindDecode, Message: "could not decode image"}
)

type Error struct {
	Kind    ErrorKind
	Message string
	// Valid lists the accepted style identifiers for KindUnknownStyle.
	Valid []string
	Err   error
}

func (e *Error) Error() string {
	msg := e.Message
	if len(e.Valid) > 0 {
		msg += ". Available styles: " + strings.Join(e.Valid, ", ")
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf reports the kind of err. Errors that carry no kind are treated as
// transport failures from an external call.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindTransport
}

func NewInputFormatError(message string, err error) error {
	return &Error{Kind: KindInputFormat, Message: message, Err: err}
}

func NewUnknownStyleError(style string, valid []string) error {
	return &Error{Kind: KindUnknownStyle, Message: `style "` + style + `" not found`, Valid: valid}
}

func NewModelOutputError(message string) error {
	return &Error{Kind: KindModelOutput, Message: message}
}

func NewDecodeError(err error) error {
	return &Error{Kind: KindDecode, Message: "failed to decode image", Err: err}
}
