package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ID is a server identifier. The API sends ids either as numbers or as strings,
// both decode to the same textual form.
type ID string

func (id ID) String() string {
	return string(id)
}

func (id ID) Empty() bool {
	return len(id) == 0
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("models.ID: %w", err)
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("models.ID: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Amount is a monetary value. Decimal strings ("12.50") and plain numbers are accepted.
type Amount float64

func (a Amount) Float() float64 {
	return float64(a)
}

func NewAmount(f float64) *Amount {
	a := Amount(f)
	return &a
}

// Value reports an optional amount. A nil amount is absent, never zero.
func (a *Amount) Value() (float64, bool) {
	if a == nil {
		return 0, false
	}
	return float64(*a), true
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	str := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &str); err != nil {
			return fmt.Errorf("models.Amount: %w", err)
		}
		str = strings.TrimSpace(str)
	}

	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return fmt.Errorf("models.Amount: malformed amount %q: %w", str, err)
	}
	*a = Amount(f)
	return nil
}

// Timestamp tolerates the handful of layouts the API uses for dates.
// A null or empty value leaves the zero time.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("models.Timestamp: %w", err)
	}
	if len(s) == 0 {
		return nil
	}

	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("models.Timestamp: unsupported time format: %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}
