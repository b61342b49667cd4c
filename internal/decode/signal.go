// internal/decode/signal.go
package decode

import "math"

// MaxBars is the top of the signal bar scale.
const MaxBars = 5

// Bars maps RSSI (dBm) onto a 0..5 bar scale, one bar per 8 dB above -100 dBm.
func Bars(rssi int32) int {
	b := int(math.Floor((float64(rssi) + 100) / 8))
	return min(max(b, 0), MaxBars)
}

// RadioQuality is the unrounded bar value as a ratio in [0,1].
func RadioQuality(rssi int32) float64 {
	q := (float64(rssi) + 100) / 8
	return min(max(q, 0), MaxBars) / MaxBars
}
