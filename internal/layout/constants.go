// internal/layout/constants.go
package layout

// RUT-family holding register map.
// These values define the device protocol and MUST NOT be configurable.
// Addresses are register numbers as documented by the firmware, counts are in registers.

// ---- BASE STATUS BLOCK (step 1) ----

const BaseStatusAddress uint16 = 1
const BaseStatusCount uint16 = 38

// Field offsets inside the base status block, in registers.
const (
	OffsetUptime      = 0  // 2 regs, uint32 seconds
	OffsetRSSI        = 2  // 2 regs, int32 dBm
	OffsetTemperature = 4  // 2 regs, int32 tenths of °C
	OffsetHostname    = 6  // 16 regs, ASCII
	OffsetOperator    = 22 // 16 regs, ASCII
)

const HostnameRegs = 16
const OperatorRegs = 16

// ---- CONNECTION TYPE (step 2) ----

const ConnectionTypeAddress uint16 = 119
const ConnectionTypeCount uint16 = 16

// ConnectionTypeTextRegs is the part of the window carrying text.
const ConnectionTypeTextRegs = 15

// ---- ACTIVE SIM (step 3) ----

const ActiveSIMAddress uint16 = 87
const ActiveSIMCount uint16 = 16
const ActiveSIMTextRegs = 15

// SIMPrefixLen is the number of characters compared for slot selection.
const SIMPrefixLen = 4

// SIM2Prefix selects the SIM2 usage counters.
const SIM2Prefix = "sim2"

// ---- MOBILE USAGE COUNTERS (step 4) ----

const UsageSIM2Address uint16 = 300
const UsageLegacyAddress uint16 = 135
const UsageDefaultAddress uint16 = 185

// UsageCount covers rx (2 regs) followed by tx (2 regs).
const UsageCount uint16 = 4

// ---- WAN IP (step 5) ----

const WANIPAddress uint16 = 139
const WANIPCount uint16 = 2

// ---- RADIO QUALITY (step 6) ----

const RadioQualityAddress uint16 = 1024
const RadioQualityCount uint16 = 7

// Decimal-text fields inside the radio block, in registers.
const (
	OffsetRSRP = 0 // 2 regs
	OffsetRSRQ = 2 // 2 regs
	OffsetSINR = 4 // 3 regs
)
