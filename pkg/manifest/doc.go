// Package manifest loads view binding declarations from JSON, YAML or HCL
// files so hosts can keep composer and creator wiring out of Go code.
//
// A YAML manifest:
//
//	bindings:
//	  - name: admin
//	    namespace: app.composers
//	    prefix: admin
//	    steps:
//	      - compose: [[dashboard], [users.index, users.show]]
//	        create: [[profile]]
//	        with: [StatsComposer, AuditComposer]
//
// Each binding becomes a provider.Declaration. Handlers in manifests are
// always symbolic references.
package manifest
