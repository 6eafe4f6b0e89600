// Package registry provides an in-memory binder.Registry that records
// composer and creator callbacks by view name or wildcard pattern. It only
// stores and looks up callbacks; rendering and invocation belong to the host.
package registry
