// Package ports defines the interfaces the bridge depends on.
// The proof engine and the artifact store are infrastructure; the validator,
// marshaller and facade only see these abstractions.
package ports
