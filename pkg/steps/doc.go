// Package steps contains the built-in step implementers that ship with
// conveyor: semantic version metadata, git source tagging, archive
// packaging and a generic shell command runner. Each satisfies the
// implementer capability contract and is registered through
// RegisterBuiltins during process initialization.
package steps
