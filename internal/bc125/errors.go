// internal/bc125/errors.go
package bc125

import "errors"

// Protocol errors cover anything wrong with a device reply.
var (
	ErrMalformedResponse = errors.New("malformed response")
	ErrCommandRejected   = errors.New("command rejected by scanner")
)

// Validation errors cover field values that fail their domain checks
// before a command string is ever produced.
var (
	ErrFieldOutOfRange   = errors.New("field value out of range")
	ErrInvalidFieldValue = errors.New("invalid field value")
	ErrMissingField      = errors.New("missing field")
	ErrUnexpectedField   = errors.New("unexpected field")
	ErrInvalidToneCode   = errors.New("invalid tone code")
	ErrUnknownToneLabel  = errors.New("unknown tone label")
)

// Addressing errors cover index misuse on fetch/write calls.
var (
	ErrIndexRequired      = errors.New("index required")
	ErrIndexNotApplicable = errors.New("index not applicable")
)
