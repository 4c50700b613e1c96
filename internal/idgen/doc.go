// Package idgen wraps the UUID generator so tests can stub it. Callers must
// treat identifiers as opaque strings.
package idgen
