// internal/poller/modbus/errors.go
package modbus

import "fmt"

// ConnectionError means the device could not be reached or the link died mid-request.
type ConnectionError struct {
	Endpoint string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("modbus connection %s: %v", e.Endpoint, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ProtocolError means the device answered with a malformed or mismatched response.
type ProtocolError struct {
	Address uint16
	Count   uint16
	Err     error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("modbus protocol addr=%d qty=%d: %v", e.Address, e.Count, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// DeviceError is a Modbus exception reported by the device.
type DeviceError struct {
	Function  byte
	Exception byte
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("modbus exception: fc=%d code=%d", e.Function, e.Exception)
}

// Code exposes the raw exception code.
func (e *DeviceError) Code() uint16 { return uint16(e.Exception) }
