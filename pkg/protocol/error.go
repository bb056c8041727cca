package protocol

import (
	"errors"
)

// Error exposes methods useful for categorizing radio failures.
type Error interface {
	error

	// Temporary returns true if the Error might be the result of a transient condition. For
	// example, a controller that is still finishing a previous advertising command reports itself
	// busy, and the next transition will usually succeed.
	Temporary() bool
}

var (
	// ErrRadioBusy indicates the radio controller rejected a command because it was occupied.
	ErrRadioBusy = NewError("radio busy", true)
	// ErrRadioUnavailable indicates the radio could not be opened or has been closed.
	ErrRadioUnavailable = NewError("radio unavailable", false)
	// ErrPayloadTooLong indicates a radio refused a payload larger than an advertising PDU.
	ErrPayloadTooLong = NewError("advertising payload exceeds 31 bytes", false)

	ErrInvalidServiceID   = errors.New("invalid service UUID")
	ErrMalformedPayload   = errors.New("malformed advertising payload")
	ErrMissingServiceData = errors.New("advertising payload has no 128-bit service data element")
)

type RadioError struct {
	Err               error
	PossibleTemporary bool
}

func NewError(message string, temporary bool) error {
	return &RadioError{Err: errors.New(message), PossibleTemporary: temporary}
}

func (e *RadioError) Error() string {
	return e.Err.Error()
}

func (e *RadioError) Unwrap() error {
	return e.Err
}

func (e *RadioError) Temporary() bool {
	return e.PossibleTemporary
}

// Temporary returns true if err (or an error it wraps) is an Error that indicates the radio failed
// due to possibly transient conditions.
func Temporary(err error) bool {
	var radioErr Error
	if errors.As(err, &radioErr) {
		return radioErr.Temporary()
	}
	return false
}
