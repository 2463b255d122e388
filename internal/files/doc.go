// Package files keeps the env file out of version control: it maintains the
// env file's line in the ignore file and reports whether the env file is
// ignored or already tracked.
package files
