package backend

import "errors"

var (
	// ErrBackendImport indicates an unknown or misconfigured backend identifier.
	ErrBackendImport = errors.New("backend.import_failed")

	// ErrCorruptSessionData indicates a persisted blob that cannot be decoded.
	ErrCorruptSessionData = errors.New("backend.corrupt_session_data")

	ErrInvalidBackendName = errors.New("backend.invalid_name")
	ErrDuplicateBackend   = errors.New("backend.duplicate")
	ErrNilFactory         = errors.New("backend.nil_factory")
	ErrInvalidConfig      = errors.New("backend.invalid_config")
)
