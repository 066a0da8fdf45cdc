package errors

import "fmt"

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")

	// Configuration errors, fatal at startup.
	ErrDuplicateCommand = fmt.Errorf("duplicate command key")
	ErrUnmappedCategory = fmt.Errorf("no matching category for directory")
	ErrEmptyCommandKey  = fmt.Errorf("command has an empty invocation key")
	ErrInvalidOwner     = fmt.Errorf("invalid owner phone number")

	// Session persistence.
	ErrDownloadNotCompleted = fmt.Errorf("session download did not complete in this process")
	ErrUnsafeRecordPath     = fmt.Errorf("session record path escapes the local folder")
	ErrUnknownStoreBackend  = fmt.Errorf("unknown session store backend")

	// Transport.
	ErrNotConnected     = fmt.Errorf("transport not connected")
	ErrConnectionClosed = fmt.Errorf("transport connection closed")
	ErrRequestTimeout   = fmt.Errorf("timeout waiting for gateway response")
	ErrGatewayRejected  = fmt.Errorf("gateway rejected request")
)
