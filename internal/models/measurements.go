// internal/models/measurements.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type Measurement struct {
	Key   string
	Value string
}

// Measurements is an insertion ordered key/value set that marshals as a JSON object.
// Go maps would sort keys on output; the backend expects header order.
type Measurements []Measurement

// Set returns a copy with key updated in place, or appended when absent.
func (m Measurements) Set(key, value string) Measurements {
	out := make(Measurements, len(m), len(m)+1)
	copy(out, m)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, Measurement{Key: key, Value: value})
}

func (m Measurements) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(entry.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON keeps the key order of the source document. Numeric and boolean values
// are kept as their literal text; null becomes an empty string.
func (m *Measurements) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*m = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("measurements: expected object, got %v", tok)
	}

	out := Measurements{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("measurements: expected string key, got %v", keyTok)
		}
		var raw interface{}
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("measurements: value for %q: %w", key, err)
		}
		var value string
		switch v := raw.(type) {
		case nil:
		case string:
			value = v
		case json.Number:
			value = v.String()
		case bool:
			value = fmt.Sprintf("%t", v)
		default:
			return fmt.Errorf("measurements: unsupported value for %q", key)
		}
		out = out.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = out
	return nil
}
