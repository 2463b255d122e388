// Package vibeguard provides the command-line interface for VibeGuard. It
// configures subcommands (scan, fix, status, watch, etc.), parses flags, and
// executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/vibeguard/vibeguard/cmd/vibeguard"
//	func main() { vibeguard.Execute() }
package vibeguard
