// Package detectors holds the registry of credential patterns used by
// VibeGuard: one row per provider plus the generic assignment rule. The
// registry is static data and safe for concurrent use.
package detectors
