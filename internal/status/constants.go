// internal/status/constants.go
package status

// Health codes published in the status snapshot.
// These values are part of the published status contract and MUST NOT be configurable.

// HealthUnknown represents an unknown or boot state.
const HealthUnknown uint16 = 0

// HealthOK represents a device whose last cycle completed.
const HealthOK uint16 = 1

// HealthError represents a device whose last cycle failed.
const HealthError uint16 = 2

// ---- LIMITS ----

// MaxSecondsInError is where the error clock saturates.
const MaxSecondsInError = 65535

// ErrorCodeGeneric is reported when an error carries no code of its own.
const ErrorCodeGeneric uint16 = 1

// InitialText is shown until the first cycle reports.
const InitialText = "Initializing"

// HealthName returns a stable lower-case name for a health code.
func HealthName(h uint16) string {
	switch h {
	case HealthUnknown:
		return "unknown"
	case HealthOK:
		return "ok"
	case HealthError:
		return "error"
	default:
		return "invalid"
	}
}
