// Package schemacatalog keeps the process-wide set of schema associations the
// text editors use for live diagnostics and completions. Each association
// binds file-name patterns to a compiled validator: the UI schema
// meta-schema for *.uischema.json, the draft-07 meta-schema for
// *.schema.json, and one data validator per example for {name}.data.json.
// Registration is keyed by association URI and last write wins.
package schemacatalog
