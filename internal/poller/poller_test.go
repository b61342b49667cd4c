// internal/poller/poller_test.go
package poller

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/modem-poller/internal/decode"
	"github.com/tamzrod/modem-poller/internal/layout"
)

// ---- fake device ----

type fakeClient struct {
	regs   map[uint16][]uint16
	failAt map[uint16]error
	calls  []Request
	panic  bool
}

func (f *fakeClient) ReadHoldingRegisters(_ context.Context, addr, qty uint16) ([]uint16, error) {
	f.calls = append(f.calls, Request{Address: addr, Count: qty})
	if f.panic {
		panic("boom")
	}
	if err, ok := f.failAt[addr]; ok {
		return nil, err
	}
	w, ok := f.regs[addr]
	if !ok {
		return make([]uint16, qty), nil
	}
	return w, nil
}

func (f *fakeClient) addrs() []uint16 {
	out := make([]uint16, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.Address)
	}
	return out
}

// ascii packs s into n registers, two bytes per register, NUL padded.
func ascii(s string, n int) []uint16 {
	b := make([]byte, n*2)
	copy(b, s)
	out := make([]uint16, n)
	for i := range out {
		out[i] = uint16(b[2*i])<<8 | uint16(b[2*i+1])
	}
	return out
}

func baseBlock(rssi int32, operator string) []uint16 {
	w := []uint16{
		0x0001, 0xE240, // uptime 123456 s
		uint16(uint32(rssi) >> 16), uint16(uint32(rssi)),
		0x0000, 0x01A9, // 42.5 °C
	}
	w = append(w, ascii("RUTX11", layout.HostnameRegs)...)
	w = append(w, ascii(operator, layout.OperatorRegs)...)
	return w
}

func device(sim string) *fakeClient {
	radio := append(append(ascii("-95", 2), ascii("-11", 2)...), ascii("13.5", 3)...)
	usage := []uint16{0, 1000, 0, 2000}

	return &fakeClient{
		regs: map[uint16][]uint16{
			layout.BaseStatusAddress:     baseBlock(-71, "Telia"),
			layout.ConnectionTypeAddress: ascii("LTE", int(layout.ConnectionTypeCount)),
			layout.ActiveSIMAddress:      ascii(sim, int(layout.ActiveSIMCount)),
			layout.UsageSIM2Address:      usage,
			layout.UsageLegacyAddress:    usage,
			layout.UsageDefaultAddress:   usage,
			layout.WANIPAddress:          {0x0A14, 0x1E28},
			layout.RadioQualityAddress:   radio,
		},
	}
}

func newPoller(t *testing.T, legacy bool, client Client, onStatus func(string)) *Poller {
	t.Helper()
	p, err := New(Config{Variant: layout.FromLegacyFlag(legacy), OnStatus: onStatus}, client)
	require.NoError(t, err)
	return p
}

// ---- tests ----

func TestPollOnce_Success(t *testing.T) {
	dev := device("sim1")
	var statuses []string
	p := newPoller(t, false, dev, func(s string) { statuses = append(statuses, s) })

	res := p.PollOnce(context.Background())
	require.NoError(t, res.Err)
	assert.NotEmpty(t, res.Batch.ID)
	assert.False(t, res.Batch.At.IsZero())

	want := []Measurement{
		{Path: PathUptime, Value: uint64(123456), Unit: "s"},
		{Path: PathRSSI, Value: int64(-71), Unit: "dBm"},
		{Path: PathBars, Value: int64(3)},
		{Path: PathRadioQuality, Value: decode.RadioQuality(-71), Unit: "ratio"},
		{Path: PathTemperature, Value: float64(425)/10 + 273.15, Unit: "K"},
		{Path: PathHostname, Value: "RUTX11"},
		{Path: PathOperator, Value: "Telia"},
		{Path: PathConnectionText, Value: "LTE"},
		{Path: PathActiveSIM, Value: "sim1"},
		{Path: PathUsageTx, Value: uint64(2000), Unit: "B"},
		{Path: PathUsageRx, Value: uint64(1000), Unit: "B"},
		{Path: PathWANIP, Value: "10.20.30.40"},
		{Path: PathRSRP, Value: int64(-95), Unit: "dBm"},
		{Path: PathRSRQ, Value: float64(-11), Unit: "dB"},
		{Path: PathSINR, Value: 13.5, Unit: "dB"},
	}
	if diff := cmp.Diff(want, res.Batch.Measurements); diff != "" {
		t.Fatalf("measurements mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, []string{"Connected to Telia, signal strength -71dBm"}, statuses)
	assert.Equal(t, []uint16{1, 119, 87, 185, 139, 1024}, dev.addrs())
}

func TestPollOnce_UsageBranch(t *testing.T) {
	cases := []struct {
		name   string
		sim    string
		legacy bool
		want   uint16
	}{
		{"sim2 ignores legacy flag", "sim2", true, layout.UsageSIM2Address},
		{"sim2 default", "sim2", false, layout.UsageSIM2Address},
		{"sim1 legacy", "sim1", true, layout.UsageLegacyAddress},
		{"sim1 default", "sim1", false, layout.UsageDefaultAddress},
		{"unknown slot legacy", "n/a", true, layout.UsageLegacyAddress},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dev := device(tc.sim)
			p := newPoller(t, tc.legacy, dev, nil)

			res := p.PollOnce(context.Background())
			require.NoError(t, res.Err)
			require.Len(t, dev.calls, 6)
			assert.Equal(t, Request{Address: tc.want, Count: layout.UsageCount}, dev.calls[3])
		})
	}
}

func TestPollOnce_BranchNotCachedAcrossCycles(t *testing.T) {
	dev := device("sim1")
	p := newPoller(t, false, dev, nil)

	require.NoError(t, p.PollOnce(context.Background()).Err)
	dev.regs[layout.ActiveSIMAddress] = ascii("sim2", int(layout.ActiveSIMCount))
	require.NoError(t, p.PollOnce(context.Background()).Err)

	require.Len(t, dev.calls, 12)
	assert.Equal(t, layout.UsageDefaultAddress, dev.calls[3].Address)
	assert.Equal(t, layout.UsageSIM2Address, dev.calls[9].Address)
}

func TestPollOnce_FailureAbortsCycle(t *testing.T) {
	dev := device("sim1")
	dev.failAt = map[uint16]error{layout.ActiveSIMAddress: errors.New("connection reset")}

	var statuses []string
	p := newPoller(t, false, dev, func(s string) { statuses = append(statuses, s) })

	res := p.PollOnce(context.Background())
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "step sim")
	assert.Empty(t, res.Batch.Measurements)

	// interim status from step 1 is not withdrawn
	assert.Len(t, statuses, 1)
	// nothing after the failed step is fetched
	assert.Equal(t, []uint16{1, 119, 87}, dev.addrs())
}

func TestPollOnce_ParseErrorAbortsCycle(t *testing.T) {
	dev := device("sim1")
	dev.regs[layout.RadioQualityAddress] = ascii("N/A", int(layout.RadioQualityCount))
	p := newPoller(t, false, dev, nil)

	res := p.PollOnce(context.Background())
	var pe *decode.ParseError
	require.ErrorAs(t, res.Err, &pe)
	assert.Empty(t, res.Batch.Measurements)
}

func TestPollOnce_ShortWindowDecodeError(t *testing.T) {
	dev := device("sim1")
	dev.regs[layout.BaseStatusAddress] = []uint16{0x0001}
	p := newPoller(t, false, dev, nil)

	res := p.PollOnce(context.Background())
	var de *decode.DecodeError
	require.ErrorAs(t, res.Err, &de)
	assert.Len(t, dev.calls, 1)
}

func TestPollOnce_PanicRecovered(t *testing.T) {
	p := newPoller(t, false, &fakeClient{panic: true}, nil)

	res := p.PollOnce(context.Background())
	require.Error(t, res.Err)
	assert.Nil(t, res.Batch.Measurements)
}

func TestPollOnce_Idempotent(t *testing.T) {
	p := newPoller(t, false, device("sim1"), nil)

	first := p.PollOnce(context.Background())
	second := p.PollOnce(context.Background())
	require.NoError(t, first.Err)
	require.NoError(t, second.Err)

	assert.NotEqual(t, first.Batch.ID, second.Batch.ID)
	if diff := cmp.Diff(first.Batch.Measurements, second.Batch.Measurements); diff != "" {
		t.Fatalf("decoding is not idempotent (-first +second):\n%s", diff)
	}
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{}, nil)
	require.Error(t, err)

	_, err = New(Config{Variant: layout.Variant(42)}, &fakeClient{})
	require.Error(t, err)
}
