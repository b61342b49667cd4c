// internal/poller/paths.go
package poller

// Published paths. These names are a compatibility surface for existing
// Signal K consumers of the RUT modem plugin.
const (
	PathUptime         = "networking.modem.uptime"
	PathTemperature    = "networking.modem.temperature"
	PathHostname       = "networking.modem.hostname"
	PathRSSI           = "networking.lte.rssi"
	PathBars           = "networking.lte.bars"
	PathRadioQuality   = "networking.lte.radioQuality"
	PathOperator       = "networking.lte.registerNetworkDisplay"
	PathConnectionText = "networking.lte.connectionText"
	PathActiveSIM      = "networking.lte.activeSim"
	PathUsageTx        = "networking.lte.usage.tx"
	PathUsageRx        = "networking.lte.usage.rx"
	PathWANIP          = "networking.lte.wanip"
	PathRSRP           = "networking.lte.rsrp"
	PathRSRQ           = "networking.lte.rsrq"
	PathSINR           = "networking.lte.sinr"
)

// Units lists the metadata announced once at startup.
var Units = []Meta{
	{Path: PathUptime, Units: "s"},
	{Path: PathTemperature, Units: "K"},
	{Path: PathRadioQuality, Units: "ratio"},
	{Path: PathUsageTx, Units: "B"},
	{Path: PathUsageRx, Units: "B"},
}
