package model

import (
	"bytes"
	"encoding/json"
)

const currencySymbol = "₹"

// Amount keeps the caller's JSON value verbatim so it can be echoed back
// exactly as submitted, whether it arrived as a string or a number.
type Amount struct {
	raw json.RawMessage
}

func NewAmount(raw string) Amount {
	if raw == "" {
		return Amount{}
	}
	b, _ := json.Marshal(raw)
	return Amount{raw: b}
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		a.raw = nil
		return nil
	}
	a.raw = append(json.RawMessage(nil), b...)
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if len(a.raw) == 0 {
		return []byte("null"), nil
	}
	return a.raw, nil
}

// Raw returns the submitted JSON value, nil when amount was omitted.
func (a Amount) Raw() json.RawMessage {
	return a.raw
}

func (a Amount) IsZero() bool {
	return len(a.raw) == 0
}

// String returns the amount as text: JSON strings are unquoted, anything else
// is returned as written.
func (a Amount) String() string {
	if len(a.raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(a.raw, &s); err == nil {
		return s
	}
	return string(a.raw)
}

// Display prefixes the amount, as submitted, with the store currency symbol
// for operator notifications.
func (a Amount) Display() string {
	s := a.String()
	if s == "" {
		return "-"
	}
	return currencySymbol + s
}
