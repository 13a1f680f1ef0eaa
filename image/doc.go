// Package image provides read-only views of the host process's loaded
// binaries for symbol resolution.
//
// Three forms exist: FileImage parses an on-disk ELF or PE binary and
// exposes both exported symbols and raw section bytes, which is what the
// pattern-scanning resolution strategies need. SharedLibrary wraps a live
// dlopen handle and resolves exports at their final mapped addresses but
// carries no section bytes. Fixture is an in-memory image for deterministic
// tests.
//
// Images are observed, never owned: nothing in this package mutates the
// host binary or its mappings.
package image
