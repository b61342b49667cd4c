// internal/publish/codec_test.go
package publish

import (
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/go-cmp/cmp"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/modem-poller/internal/poller"
)

func testBatch() poller.Batch {
	return poller.Batch{
		ID: "b-1",
		At: time.Date(2026, 3, 1, 10, 20, 30, 456_000_000, time.FixedZone("x", 7200)),
		Measurements: []poller.Measurement{
			{Path: poller.PathUptime, Value: uint64(123456), Unit: "s"},
			{Path: poller.PathRSSI, Value: int64(-71), Unit: "dBm"},
			{Path: poller.PathHostname, Value: "RUTX11"},
		},
	}
}

func TestNewCodec_Validation(t *testing.T) {
	_, err := NewCodec("xml", "vessels.self", "")
	require.Error(t, err)

	_, err = NewCodec(FormatJSON, "", "")
	require.Error(t, err)
}

func TestCodec_DeltaShape(t *testing.T) {
	c, err := NewCodec(FormatJSON, "vessels.self", "modem-poller")
	require.NoError(t, err)

	d := c.Delta(testBatch())
	require.Len(t, d.Updates, 1)

	u := d.Updates[0]
	assert.Equal(t, "vessels.self", d.Context)
	assert.Equal(t, "modem-poller", u.Source.Label)
	assert.Equal(t, "2026-03-01T08:20:30.456Z", u.Timestamp)

	want := []Value{
		{Path: poller.PathUptime, Value: uint64(123456)},
		{Path: poller.PathRSSI, Value: int64(-71)},
		{Path: poller.PathHostname, Value: "RUTX11"},
	}
	if diff := cmp.Diff(want, u.Values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestCodec_DeltaWithoutLabelOmitsSource(t *testing.T) {
	c, err := NewCodec(FormatJSON, "vessels.self", "")
	require.NoError(t, err)

	payload, err := c.Marshal(c.Delta(testBatch()))
	require.NoError(t, err)
	assert.NotContains(t, string(payload), `"source"`)
}

func TestCodec_JSON(t *testing.T) {
	c, err := NewCodec(FormatJSON, "vessels.self", "modem-poller")
	require.NoError(t, err)

	payload, err := c.Marshal(c.Delta(testBatch()))
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, jsoniter.Unmarshal(payload, &doc))

	updates := doc["updates"].([]any)
	require.Len(t, updates, 1)
	values := updates[0].(map[string]any)["values"].([]any)
	require.Len(t, values, 3)

	first := values[0].(map[string]any)
	assert.Equal(t, poller.PathUptime, first["path"])
	assert.Equal(t, float64(123456), first["value"])
}

func TestCodec_CBOR(t *testing.T) {
	c, err := NewCodec(FormatCBOR, "vessels.self", "modem-poller")
	require.NoError(t, err)

	payload, err := c.Marshal(c.Delta(testBatch()))
	require.NoError(t, err)

	var got Delta
	require.NoError(t, cbor.Unmarshal(payload, &got))
	if diff := cmp.Diff(c.Delta(testBatch()), got); diff != "" {
		t.Fatalf("cbor delta mismatch (-want +got):\n%s", diff)
	}

	again, err := c.Marshal(c.Delta(testBatch()))
	require.NoError(t, err)
	assert.Equal(t, payload, again, "encoding must be deterministic")
}

func TestCodec_MetaDelta(t *testing.T) {
	c, err := NewCodec(FormatJSON, "vessels.self", "modem-poller")
	require.NoError(t, err)

	d := c.MetaDelta(poller.Units)
	require.Len(t, d.Updates, 1)
	assert.Nil(t, d.Updates[0].Source)
	assert.Empty(t, d.Updates[0].Values)
	assert.Contains(t, d.Updates[0].Meta, MetaEntry{Path: poller.PathTemperature, Value: MetaValue{Units: "K"}})
}
