// Package scan normalizes raw payloads from the three capture transports
// into a single student credential code. The camera, NFC reader, and
// keyboard-wedge scanner all live in the client; the server sees one
// opaque payload per physical scan event and must accept both bare
// 8-character codes and structured QR payloads.
package scan

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Transport identifies which capture mechanism produced a payload.
type Transport string

const (
	TransportQR    Transport = "qr"
	TransportNFC   Transport = "nfc"
	TransportWedge Transport = "wedge"
)

// ErrEmptyPayload is returned for blank scan events.
var ErrEmptyPayload = errors.New("empty scan payload")

// ParseTransport validates a transport name from the wire.
func ParseTransport(s string) (Transport, error) {
	switch Transport(strings.ToLower(strings.TrimSpace(s))) {
	case TransportQR:
		return TransportQR, nil
	case TransportNFC:
		return TransportNFC, nil
	case TransportWedge:
		return TransportWedge, nil
	default:
		return "", fmt.Errorf("unknown transport %q", s)
	}
}

// Decode extracts the student code from a transport-specific payload.
func Decode(t Transport, payload string) (string, error) {
	switch t {
	case TransportNFC:
		return decodeText(stripNDEFHeader(payload))
	case TransportWedge:
		return decodeText(stripWedgeTerminators(payload))
	case TransportQR:
		return decodeText(payload)
	default:
		return "", fmt.Errorf("unknown transport %q", t)
	}
}

type structuredPayload struct {
	StudentCode string `json:"student_code"`
	StudentID   string `json:"student_id"`
	TeacherID   string `json:"teacher_id"`
}

// decodeText accepts either a structured JSON payload carrying at least a
// student identifier field, or a bare 8-character code.
func decodeText(payload string) (string, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return "", ErrEmptyPayload
	}
	if strings.HasPrefix(payload, "{") {
		var sp structuredPayload
		if err := json.Unmarshal([]byte(payload), &sp); err != nil {
			return "", fmt.Errorf("bad structured payload: %w", err)
		}
		code := sp.StudentCode
		if code == "" {
			code = sp.StudentID
		}
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			return "", errors.New("structured payload missing student code")
		}
		return code, nil
	}
	code := strings.ToUpper(payload)
	if !isBareCode(code) {
		return "", fmt.Errorf("malformed code %q", payload)
	}
	return code, nil
}

// stripNDEFHeader drops the status byte and language code from an NFC
// well-known text record payload. Readers that already hand us plain text
// pass through untouched.
func stripNDEFHeader(payload string) string {
	if payload == "" || payload[0] >= 0x20 {
		return payload
	}
	langLen := int(payload[0] & 0x3F)
	if 1+langLen > len(payload) {
		return payload
	}
	return payload[1+langLen:]
}

// stripWedgeTerminators removes the carriage return / line feed / tab a
// wedge-mode scanner types after the code.
func stripWedgeTerminators(payload string) string {
	return strings.TrimRight(payload, "\r\n\t ")
}

func isBareCode(code string) bool {
	if len(code) != 8 {
		return false
	}
	for _, r := range code {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
