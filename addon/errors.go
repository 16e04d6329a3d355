package addon

import "emperror.dev/errors"

const (
	ErrInvalidName      = errors.Sentinel("addon has an invalid name")
	ErrMissingDeveloper = errors.Sentinel("addon is missing the developer's name, use SetDeveloper to declare it")
	ErrMissingExecute   = errors.Sentinel("addon is missing the execute function, use SetExecute to define it")
	ErrInvalidState     = errors.Sentinel("addon is not in the right state for this")
	ErrDuplicate        = errors.Sentinel("an addon with this name is already registered")
	ErrInvalidSection   = errors.Sentinel("invalid config section name")

	ErrNoManager      = errors.Sentinel("missing manager")
	ErrNoRegistry     = errors.Sentinel("missing registry")
	ErrNoConstructors = errors.Sentinel("no addons given")
)
