// Package scanner finds hardcoded credentials in a single document. It is a
// pure function of the document text: no I/O, no shared mutable state.
package scanner
