package station

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMalformed marks a response body that could not be decoded into a Snapshot.
var ErrMalformed = errors.New("malformed response")

// Indicator is a binary process readout transported as 0/1.
//
// Decoding is tolerant: any non-zero number is true, JSON booleans are taken
// as-is, numeric strings are parsed, and null leaves the value untouched.
// Anything else is rejected.
type Indicator bool

// UnmarshalJSON implements json.Unmarshaler.
func (i *Indicator) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	switch raw[0] {
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return fmt.Errorf("indicator %s: %w", raw, ErrMalformed)
		}
		*i = Indicator(b)
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return fmt.Errorf("indicator %s: %w", raw, ErrMalformed)
		}
		return i.setNumeric(strings.TrimSpace(s))
	default:
		return i.setNumeric(string(raw))
	}
}

func (i *Indicator) setNumeric(value string) error {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("indicator %q: %w", value, ErrMalformed)
	}
	*i = f != 0
	return nil
}

// MarshalJSON encodes the indicator the way the coordinator does, as 0 or 1.
func (i Indicator) MarshalJSON() ([]byte, error) {
	if i {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

// Int returns the 0/1 wire value.
func (i Indicator) Int() int {
	if i {
		return 1
	}
	return 0
}

// String returns the wire value as text, as used in the /manual query.
func (i Indicator) String() string {
	return strconv.Itoa(i.Int())
}

// Snapshot mirrors the payload returned by /update.
//
// ManualControl is nil when the coordinator does not support manual
// override; its presence is how the client tells the two protocol variants
// apart. A key sent as null still counts as present and decodes as off.
type Snapshot struct {
	TimeOfDay      Indicator  `json:"timeOfDay"`
	WaterLevelHigh Indicator  `json:"waterLevelHigh"`
	GateOpen       Indicator  `json:"gateOpen"`
	PumpOn         Indicator  `json:"pumpOn"`
	ManualControl  *Indicator `json:"manualControl,omitempty"`
}

const manualControlKey = "manualControl"

// UnmarshalJSON implements json.Unmarshaler.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	type wire Snapshot
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.ManualControl == nil {
		var keys map[string]json.RawMessage
		if err := json.Unmarshal(data, &keys); err != nil {
			return err
		}
		// encoding/json matches field names case-insensitively.
		for k := range keys {
			if strings.EqualFold(k, manualControlKey) {
				off := Indicator(false)
				w.ManualControl = &off
				break
			}
		}
	}
	*s = Snapshot(w)
	return nil
}

// SupportsManualControl reports whether the payload carried manualControl.
func (s Snapshot) SupportsManualControl() bool {
	return s.ManualControl != nil
}

// Manual reports the control mode flag, false when absent.
func (s Snapshot) Manual() bool {
	return s.ManualControl != nil && bool(*s.ManualControl)
}

// DecodeSnapshot parses an /update body.
func DecodeSnapshot(body []byte) (Snapshot, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w: empty body", ErrMalformed)
	}
	var snap Snapshot
	if err := json.Unmarshal(trimmed, &snap); err != nil {
		if errors.Is(err, ErrMalformed) {
			return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
		}
		return Snapshot{}, fmt.Errorf("decode snapshot: %w: %v", ErrMalformed, err)
	}
	return snap, nil
}
