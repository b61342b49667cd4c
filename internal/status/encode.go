// internal/status/encode.go
package status

import "time"

// Document is the wire form of a Snapshot.
type Document struct {
	Health         string    `json:"health" cbor:"health"`
	HealthCode     uint16    `json:"health_code" cbor:"health_code"`
	LastErrorCode  uint16    `json:"last_error_code" cbor:"last_error_code"`
	SecondsInError uint16    `json:"seconds_in_error" cbor:"seconds_in_error"`
	Text           string    `json:"text" cbor:"text"`
	UpdatedAt      time.Time `json:"updated_at" cbor:"updated_at"`
}

// Encode converts a Snapshot into its published document.
// No IO. No side effects.
func Encode(s Snapshot) Document {
	return Document{
		Health:         HealthName(s.Health),
		HealthCode:     s.Health,
		LastErrorCode:  s.LastErrorCode,
		SecondsInError: s.SecondsInError,
		Text:           s.Text,
		UpdatedAt:      s.UpdatedAt.UTC(),
	}
}
