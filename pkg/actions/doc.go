// Package actions resolves the declarative actions an example carries into
// state transforms and merges their results into the form state store.
//
// A transform receives a snapshot of the current state and returns a patch.
// Empty patches change nothing. Transform errors are returned to the caller
// as-is; actions are never retried or rolled back.
package actions
