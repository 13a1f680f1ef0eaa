// Package resolver locates the host's interpreter runtime functions inside
// a loaded binary image and publishes them as an immutable typed table.
//
// Resolution is driven by a closed enumeration of logical identifiers (the
// interpreter C API surface the bridge needs) and a versioned signature
// configuration. For each identifier the resolver tries, in order: exact
// export lookup, ordinal lookup, byte-pattern scan over a named section,
// and offset-from-anchor arithmetic against an already-resolved identifier.
//
// Resolution is all or nothing. A single missing required identifier aborts
// with a SymbolNotFound error naming it; no partial table is ever published.
// For a given image and plan the resulting addresses are deterministic.
//
// Signature patterns and anchor offsets change with host releases, so they
// live in configuration gated by host version ranges rather than in code.
package resolver
