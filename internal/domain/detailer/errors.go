package detailer

import "errors"

var (
	// ErrDetailerNotFound indicates the detailer doesn't exist.
	ErrDetailerNotFound = errors.New("detailer not found")
	// ErrDuplicateName indicates another detailer already has the name.
	ErrDuplicateName = errors.New("detailer name already exists")
	// ErrInactive indicates the detailer has been deactivated.
	ErrInactive = errors.New("detailer is inactive")
	// ErrInvalidInput indicates invalid detailer input.
	ErrInvalidInput = errors.New("invalid detailer input")
)
