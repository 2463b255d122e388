// Package engine scans a workspace for hardcoded credentials. It enumerates
// eligible files, runs the scanner over each on a bounded worker pool, and
// returns structured findings. This package is internal; external consumers
// should use the stable facade in pkg/core.
package engine
