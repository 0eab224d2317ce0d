package errors

import "fmt"

const (
	// SuccessABCICode declares an ABCI response use 0 to signal that the
	// processing was successful and no error is returned.
	SuccessABCICode = 0

	// internalABCILog replaces the message of every error that does not
	// wrap a registered root error.
	internalABCILog = "internal error"
)

// ABCIInfo returns the code and log of an ABCI response for given error.
// Errors that do not wrap a registered root error and panics are reported
// as internal errors, their details are visible only in debug mode.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if err == nil {
		return SuccessABCICode, ""
	}
	if debug {
		return Code(err), fmt.Sprintf("%+v", err)
	}
	code := Code(err)
	if code == internalCode {
		return code, internalABCILog
	}
	return code, Redact(err).Error()
}

// ABCIError rebuilds an error from the code and log of an ABCI response.
// The returned error is of the kind registered with the code, so that it
// can be tested with Is. Unknown codes are reported as internal errors.
func ABCIError(code uint32, log string) error {
	if code == SuccessABCICode {
		return nil
	}
	root, ok := usedCodes[code]
	if !ok || root == nil {
		return &abciError{code: internalCode, log: log}
	}
	return &abciError{code: code, log: log, root: root}
}

// abciError carries the log of a response together with the root error the
// response code was registered with.
type abciError struct {
	code uint32
	log  string
	root *Error
}

func (e *abciError) Error() string {
	return e.log
}

func (e *abciError) ABCICode() uint32 {
	return e.code
}

func (e *abciError) Cause() error {
	if e.root == nil {
		return nil
	}
	return e.root
}
