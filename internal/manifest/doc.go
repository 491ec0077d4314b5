// Package manifest reads catalog manifest files. A manifest holds the
// entries of one category and may be written as JSON, YAML or TOML; every
// file is decoded to a common form, checked against the embedded JSON
// Schema and its format_version constraint, and only then converted to
// catalog entries.
//
// Two layouts are accepted: an object with format_version, category and
// items, or a bare array of items whose category comes from the file name
// (apps.json holds apps).
package manifest
