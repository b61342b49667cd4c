// internal/publish/codec.go
package publish

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	jsoniter "github.com/json-iterator/go"

	"github.com/tamzrod/modem-poller/internal/poller"
)

const (
	FormatJSON = "json"
	FormatCBOR = "cbor"
)

// timestampLayout is ISO 8601 in UTC with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// deltaEncMode gives deterministic CBOR so identical batches encode identically.
var deltaEncMode cbor.EncMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	deltaEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create delta CBOR encoder mode: %v", err))
	}
}

// ---- documents ----

// Delta is the update document consumed downstream.
type Delta struct {
	Context string   `json:"context" cbor:"context"`
	Updates []Update `json:"updates" cbor:"updates"`
}

type Update struct {
	Source    *Source     `json:"source,omitempty" cbor:"source,omitempty"`
	Timestamp string      `json:"timestamp,omitempty" cbor:"timestamp,omitempty"`
	Values    []Value     `json:"values,omitempty" cbor:"values,omitempty"`
	Meta      []MetaEntry `json:"meta,omitempty" cbor:"meta,omitempty"`
}

type Source struct {
	Label string `json:"label" cbor:"label"`
}

type Value struct {
	Path  string `json:"path" cbor:"path"`
	Value any    `json:"value" cbor:"value"`
}

type MetaEntry struct {
	Path  string    `json:"path" cbor:"path"`
	Value MetaValue `json:"value" cbor:"value"`
}

type MetaValue struct {
	Units string `json:"units" cbor:"units"`
}

// ---- codec ----

// Codec turns batches into delta documents and documents into bytes.
type Codec struct {
	format  string
	context string
	label   string
}

// NewCodec validates the format and returns a codec.
func NewCodec(format, deltaContext, label string) (*Codec, error) {
	switch format {
	case FormatJSON, FormatCBOR:
	default:
		return nil, fmt.Errorf("publish: unknown format %q", format)
	}
	if deltaContext == "" {
		return nil, fmt.Errorf("publish: context required")
	}
	return &Codec{format: format, context: deltaContext, label: label}, nil
}

// Format reports the wire format.
func (c *Codec) Format() string { return c.format }

// Delta builds the update document for one batch.
func (c *Codec) Delta(b poller.Batch) Delta {
	values := make([]Value, 0, len(b.Measurements))
	for _, m := range b.Measurements {
		values = append(values, Value{Path: m.Path, Value: m.Value})
	}

	u := Update{
		Timestamp: formatTimestamp(b.At),
		Values:    values,
	}
	if c.label != "" {
		u.Source = &Source{Label: c.label}
	}

	return Delta{Context: c.context, Updates: []Update{u}}
}

// MetaDelta builds the units document sent once at start.
func (c *Codec) MetaDelta(meta []poller.Meta) Delta {
	entries := make([]MetaEntry, 0, len(meta))
	for _, m := range meta {
		entries = append(entries, MetaEntry{Path: m.Path, Value: MetaValue{Units: m.Units}})
	}
	return Delta{Context: c.context, Updates: []Update{{Meta: entries}}}
}

// Marshal encodes v in the configured format.
func (c *Codec) Marshal(v any) ([]byte, error) {
	switch c.format {
	case FormatCBOR:
		return deltaEncMode.Marshal(v)
	default:
		return jsoniter.Marshal(v)
	}
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}
