// Package binder provides the fluent builder that attaches composer and
// creator callbacks to named views. Views are queued in groups through
// Compose and Create, and every queued group is bound to the callbacks
// passed to the next With call:
//
//	b := binder.New(registry)
//	err := b.SetNamespace("app.composers").SetPrefix("admin").
//		Compose("dashboard").
//		Compose("users.index", "users.show").
//		WithHandlers("StatsComposer")
//
// Namespace and prefix persist until changed. The pending groups are dropped
// after every With, whether or not the registry accepted them.
//
// A Binder is meant for a single bootstrap sequence and is not safe for
// concurrent use.
package binder
