// Package textmodel keeps one editable text buffer per resource URI. Buffers
// keep their identity across lookups and are only replaced through Recreate,
// which is what the example switch uses. Every create, change and dispose is
// published to subscribers so views bound to a URI can follow along.
package textmodel
