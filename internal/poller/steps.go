// internal/poller/steps.go
package poller

import (
	"fmt"

	"github.com/tamzrod/modem-poller/internal/decode"
	"github.com/tamzrod/modem-poller/internal/layout"
)

// Step is one register window fetch within a cycle.
// Window may read state decoded by earlier steps; Decode appends to the cycle.
type Step struct {
	Name   string
	Window func(c *Cycle) Request
	Decode func(c *Cycle, words []uint16) error

	// Status, when set, is surfaced as soon as the step has decoded.
	Status func(c *Cycle) string
}

// Cycle is the state owned by one in-flight poll cycle.
type Cycle struct {
	Map layout.Map

	RSSI      int32
	Operator  string
	SIMPrefix string

	measurements []Measurement
}

func (c *Cycle) add(path string, value any, unit string) {
	c.measurements = append(c.measurements, Measurement{Path: path, Value: value, Unit: unit})
}

// Measurements returns what has been decoded so far.
func (c *Cycle) Measurements() []Measurement { return c.measurements }

// Steps is the fixed RUT polling sequence.
func Steps() []Step {
	return []Step{
		{
			Name:   "base",
			Window: func(c *Cycle) Request { return c.Map.Base },
			Decode: decodeBase,
			Status: func(c *Cycle) string {
				return fmt.Sprintf("Connected to %s, signal strength %ddBm", c.Operator, c.RSSI)
			},
		},
		{
			Name:   "connection",
			Window: func(c *Cycle) Request { return c.Map.ConnectionType },
			Decode: decodeConnectionType,
		},
		{
			Name:   "sim",
			Window: func(c *Cycle) Request { return c.Map.ActiveSIM },
			Decode: decodeActiveSIM,
		},
		{
			Name:   "usage",
			Window: func(c *Cycle) Request { return c.Map.UsageWindow(c.SIMPrefix) },
			Decode: decodeUsage,
		},
		{
			Name:   "wan",
			Window: func(c *Cycle) Request { return c.Map.WANIP },
			Decode: decodeWANIP,
		},
		{
			Name:   "radio",
			Window: func(c *Cycle) Request { return c.Map.RadioQuality },
			Decode: decodeRadio,
		},
	}
}

// field returns n registers starting at off as bytes.
// A window shorter than off+n yields a short slice and the decoder reports it.
func field(words []uint16, off, n int) []byte {
	if off >= len(words) {
		return nil
	}
	end := min(off+n, len(words))
	return decode.Bytes(words[off:end])
}

func decodeBase(c *Cycle, w []uint16) error {
	uptime, err := decode.UInt32BE(field(w, layout.OffsetUptime, 2))
	if err != nil {
		return fmt.Errorf("uptime: %w", err)
	}
	rssi, err := decode.Int32BE(field(w, layout.OffsetRSSI, 2))
	if err != nil {
		return fmt.Errorf("rssi: %w", err)
	}
	kelvin, err := decode.TemperatureKelvin(field(w, layout.OffsetTemperature, 2))
	if err != nil {
		return fmt.Errorf("temperature: %w", err)
	}
	hostname := decode.TrimmedASCII(field(w, layout.OffsetHostname, layout.HostnameRegs))
	operator := decode.TrimmedASCII(field(w, layout.OffsetOperator, layout.OperatorRegs))

	c.RSSI = rssi
	c.Operator = operator

	c.add(PathUptime, uint64(uptime), "s")
	c.add(PathRSSI, int64(rssi), "dBm")
	c.add(PathBars, int64(decode.Bars(rssi)), "")
	c.add(PathRadioQuality, decode.RadioQuality(rssi), "ratio")
	c.add(PathTemperature, kelvin, "K")
	c.add(PathHostname, hostname, "")
	c.add(PathOperator, operator, "")
	return nil
}

func decodeConnectionType(c *Cycle, w []uint16) error {
	c.add(PathConnectionText, decode.TrimmedASCII(field(w, 0, layout.ConnectionTypeTextRegs)), "")
	return nil
}

func decodeActiveSIM(c *Cycle, w []uint16) error {
	sim := decode.TrimmedASCII(field(w, 0, layout.ActiveSIMTextRegs))

	prefix := sim
	if len(prefix) > layout.SIMPrefixLen {
		prefix = prefix[:layout.SIMPrefixLen]
	}
	c.SIMPrefix = prefix

	c.add(PathActiveSIM, sim, "")
	return nil
}

func decodeUsage(c *Cycle, w []uint16) error {
	rx, err := decode.UInt32BE(field(w, 0, 2))
	if err != nil {
		return fmt.Errorf("usage rx: %w", err)
	}
	tx, err := decode.UInt32BE(field(w, 2, 2))
	if err != nil {
		return fmt.Errorf("usage tx: %w", err)
	}

	c.add(PathUsageTx, uint64(tx), "B")
	c.add(PathUsageRx, uint64(rx), "B")
	return nil
}

func decodeWANIP(c *Cycle, w []uint16) error {
	ip, err := decode.PackedIPv4(field(w, 0, 2))
	if err != nil {
		return fmt.Errorf("wan ip: %w", err)
	}
	c.add(PathWANIP, ip, "")
	return nil
}

func decodeRadio(c *Cycle, w []uint16) error {
	rsrp, err := decode.DecimalInt(field(w, layout.OffsetRSRP, 2))
	if err != nil {
		return fmt.Errorf("rsrp: %w", err)
	}
	rsrq, err := decode.DecimalFloat(field(w, layout.OffsetRSRQ, 2))
	if err != nil {
		return fmt.Errorf("rsrq: %w", err)
	}
	sinr, err := decode.DecimalFloat(field(w, layout.OffsetSINR, 3))
	if err != nil {
		return fmt.Errorf("sinr: %w", err)
	}

	c.add(PathRSRP, rsrp, "dBm")
	c.add(PathRSRQ, rsrq, "dB")
	c.add(PathSINR, sinr, "dB")
	return nil
}
