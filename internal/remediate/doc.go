// Package remediate turns a finding into an edit: it infers a variable name
// from the surrounding code, plans the replacement expression for the file's
// language, merges the secret into the env file, and drives a Host to apply
// the writes in store-first order.
package remediate
