// Package state holds the observable form state: the documents of the one
// example currently applied, process-wide settings, and the error set
// reported by the form renderer.
package state
