package manifest

// Manifest is the merged content of one or more binding files.
type Manifest struct {
	Bindings []Binding
}

// Binding is a named declaration: a sequence of steps run against a fresh
// binder with the given starting namespace and prefix.
type Binding struct {
	Name      string `json:"name" yaml:"name"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Prefix    string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Steps     []Step `json:"steps" yaml:"steps"`

	// Source records the file the binding was read from.
	Source string `json:"-" yaml:"-"`
}

// Step queues compose and create groups and binds them to With. A non-nil
// Namespace or Prefix replaces the sticky setting before the groups are
// queued.
type Step struct {
	Namespace *string    `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Prefix    *string    `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Compose   [][]string `json:"compose,omitempty" yaml:"compose,omitempty"`
	Create    [][]string `json:"create,omitempty" yaml:"create,omitempty"`
	With      []string   `json:"with,omitempty" yaml:"with,omitempty"`
}

type documentFile struct {
	Bindings []Binding `json:"bindings" yaml:"bindings"`
}
