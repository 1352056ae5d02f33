package domain

// DefaultServiceMethod is the method invoked on a service when none is given.
const DefaultServiceMethod = "call"

// Conventional targets and partials used by the stream helpers.
const (
	FlashTarget       = "flash"
	FlashPartial      = "shared/flash"
	FormErrorsTarget  = "form_errors"
	FormErrorsPartial = "shared/form_errors"
)

// Locals keys populated by the dispatcher before rendering a view.
const (
	LocalResult = "result"
	LocalParams = "params"
	LocalAction = "action"
	LocalError  = "error"
)
