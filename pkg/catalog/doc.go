// Package catalog holds the immutable example catalog the playground edits:
// named bundles of a JSON Schema, a UI schema, initial data, an optional i18n
// bundle and declarative actions. Catalogs load from JSON/YAML files, from
// the embedded defaults, or from OpenAPI component schemas.
package catalog
