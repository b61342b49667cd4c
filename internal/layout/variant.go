// internal/layout/variant.go
package layout

import "fmt"

// Variant selects a firmware family register map.
type Variant uint8

const (
	// VariantDefault covers RUT360, RUT950, RUT955, RUTX9, RUTX11, RUTX14.
	VariantDefault Variant = iota
	// VariantLegacy covers RUT240.
	VariantLegacy
)

func (v Variant) String() string {
	switch v {
	case VariantDefault:
		return "default"
	case VariantLegacy:
		return "legacy"
	default:
		return fmt.Sprintf("variant(%d)", uint8(v))
	}
}

// Window is one holding register range.
type Window struct {
	Address uint16
	Count   uint16
}

// Map is the complete register map of one variant.
type Map struct {
	Base           Window
	ConnectionType Window
	ActiveSIM      Window
	UsageSIM2      Window
	UsagePrimary   Window
	WANIP          Window
	RadioQuality   Window
}

var maps = map[Variant]Map{
	VariantDefault: {
		Base:           Window{BaseStatusAddress, BaseStatusCount},
		ConnectionType: Window{ConnectionTypeAddress, ConnectionTypeCount},
		ActiveSIM:      Window{ActiveSIMAddress, ActiveSIMCount},
		UsageSIM2:      Window{UsageSIM2Address, UsageCount},
		UsagePrimary:   Window{UsageDefaultAddress, UsageCount},
		WANIP:          Window{WANIPAddress, WANIPCount},
		RadioQuality:   Window{RadioQualityAddress, RadioQualityCount},
	},
	VariantLegacy: {
		Base:           Window{BaseStatusAddress, BaseStatusCount},
		ConnectionType: Window{ConnectionTypeAddress, ConnectionTypeCount},
		ActiveSIM:      Window{ActiveSIMAddress, ActiveSIMCount},
		UsageSIM2:      Window{UsageSIM2Address, UsageCount},
		UsagePrimary:   Window{UsageLegacyAddress, UsageCount},
		WANIP:          Window{WANIPAddress, WANIPCount},
		RadioQuality:   Window{RadioQualityAddress, RadioQualityCount},
	},
}

// For returns the register map of v.
func For(v Variant) (Map, error) {
	m, ok := maps[v]
	if !ok {
		return Map{}, fmt.Errorf("layout: unknown %s", v)
	}
	return m, nil
}

// FromLegacyFlag maps the configuration flag onto a variant.
func FromLegacyFlag(legacy bool) Variant {
	if legacy {
		return VariantLegacy
	}
	return VariantDefault
}

// UsageWindow picks the usage counter window for the active SIM prefix.
// SIM2 wins regardless of variant.
func (m Map) UsageWindow(simPrefix string) Window {
	if simPrefix == SIM2Prefix {
		return m.UsageSIM2
	}
	return m.UsagePrimary
}
