// internal/decode/decode.go
package decode

// Pure conversions from raw holding-register windows.
// No IO. No state.

import (
	"bytes"
	"encoding/binary"
	"net/netip"
	"strconv"
	"strings"
)

// Bytes concatenates register words, most significant word first,
// each word big-endian.
func Bytes(words []uint16) []byte {
	out := make([]byte, len(words)*2)
	for i, w := range words {
		binary.BigEndian.PutUint16(out[2*i:], w)
	}
	return out
}

func need(kind string, b []byte, n int) error {
	if len(b) < n {
		return &DecodeError{Kind: kind, Need: n, Have: len(b)}
	}
	return nil
}

// UInt32BE reads an unsigned 32-bit big-endian value from b[0:4].
func UInt32BE(b []byte) (uint32, error) {
	if err := need("uint32", b, 4); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// Int32BE reads a two's complement 32-bit big-endian value from b[0:4].
func Int32BE(b []byte) (int32, error) {
	if err := need("int32", b, 4); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

// TemperatureKelvin converts a signed tenths-of-a-degree Celsius value to kelvin.
func TemperatureKelvin(b []byte) (float64, error) {
	v, err := Int32BE(b)
	if err != nil {
		return 0, err
	}
	return float64(v)/10 + 273.15, nil
}

// TrimmedASCII returns the text up to the first NUL byte.
func TrimmedASCII(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// DecimalInt parses the leading base-10 integer of a text field.
// Trailing non-numeric content is ignored.
func DecimalInt(b []byte) (int64, error) {
	text := decimalText(b)
	prefix := numericPrefix(text, false)
	if prefix == "" {
		return 0, &ParseError{Kind: "int", Text: text}
	}
	v, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil {
		return 0, &ParseError{Kind: "int", Text: text}
	}
	return v, nil
}

// DecimalFloat parses the leading base-10 number of a text field.
// Trailing non-numeric content is ignored.
func DecimalFloat(b []byte) (float64, error) {
	text := decimalText(b)
	prefix := numericPrefix(text, true)
	if prefix == "" {
		return 0, &ParseError{Kind: "float", Text: text}
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0, &ParseError{Kind: "float", Text: text}
	}
	return v, nil
}

// PackedIPv4 renders b[0:4] as a dotted quad.
//
// The device packs the address as a little-endian 32-bit value whose least
// significant byte is the first octet. Verified against RUT firmware only.
func PackedIPv4(b []byte) (string, error) {
	if err := need("ipv4", b, 4); err != nil {
		return "", err
	}
	v := binary.LittleEndian.Uint32(b)
	return netip.AddrFrom4([4]byte{
		byte(v),
		byte(v >> 8),
		byte(v >> 16),
		byte(v >> 24),
	}).String(), nil
}

func decimalText(b []byte) string {
	return strings.TrimLeft(TrimmedASCII(b), " \t\n\v\f\r")
}

// numericPrefix returns the longest leading run of s that reads as a
// base-10 number, or "" when s does not start with one.
func numericPrefix(s string, float bool) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}

	if float {
		if i < len(s) && s[i] == '.' {
			j := i + 1
			frac := 0
			for j < len(s) && isDigit(s[j]) {
				j++
				frac++
			}
			if digits+frac > 0 {
				i = j
				digits += frac
			}
		}
		if digits > 0 && i < len(s) && (s[i] == 'e' || s[i] == 'E') {
			j := i + 1
			if j < len(s) && (s[j] == '+' || s[j] == '-') {
				j++
			}
			exp := 0
			for j < len(s) && isDigit(s[j]) {
				j++
				exp++
			}
			if exp > 0 {
				i = j
			}
		}
	}

	if digits == 0 {
		return ""
	}
	return s[:i]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
