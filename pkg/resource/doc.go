// Package resource maps a logical editable resource (an example name plus an
// artifact kind) to the canonical URI used to address its text buffer and its
// validation associations. The mapping is pure; callers can rely on the
// returned strings staying stable for a given example name.
package resource
