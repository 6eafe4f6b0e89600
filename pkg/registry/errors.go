package registry

import (
	"github.com/ygrebnov/errorc"
)

const errorNamespace = "viewbind"

var namespace = errorc.Namespace(errorNamespace)

// Sentinel errors returned by the registry. Use errors.Is to match; the
// returned errors carry structured fields keyed by the ErrorField* keys.
var (
	ErrNoViews          = namespace.NewError("no views supplied")
	ErrEmptyView        = namespace.NewError("empty view name")
	ErrInvalidPattern   = namespace.NewError("invalid view pattern")
	ErrTemplateNotFound = namespace.NewError("view template not found")
	ErrEmptyCallback    = namespace.NewError("callback is empty")
	ErrDuplicateID      = namespace.NewError("duplicate registration id")
)

var newKey = errorc.KeyFactory(errorNamespace)

// Structured error field keys.
var (
	ErrorFieldKind     = newKey("kind", "registration")     // viewbind.registration.kind
	ErrorFieldView     = newKey("view", "registration")     // viewbind.registration.view
	ErrorFieldCallback = newKey("callback", "registration") // viewbind.registration.callback
	ErrorFieldID       = newKey("id", "registration")       // viewbind.registration.id
	ErrorFieldTemplate = newKey("template")
	ErrorFieldCause    = newKey("cause")
)
