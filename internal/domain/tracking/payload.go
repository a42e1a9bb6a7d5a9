package tracking

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Payload is the decoded form of an event's property blob: an ordered
// key/value map. JSON objects do not round-trip through Go maps without
// losing key order, and rename operations must rewrite a key in place,
// so the insertion order is tracked explicitly.
//
// Values are one of: string, bool, json.Number, []any, *Payload, nil.
type Payload struct {
	keys   []string
	values map[string]any
}

// NewPayload creates an empty payload
func NewPayload() *Payload {
	return &Payload{values: make(map[string]any)}
}

// Len returns the number of keys in the payload
func (p *Payload) Len() int {
	return len(p.keys)
}

// Keys returns the keys in their original order
func (p *Payload) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Get returns the value for a key
func (p *Payload) Get(key string) (any, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Has reports whether the payload contains the key
func (p *Payload) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

// Set sets a value, appending the key if it is new
func (p *Payload) Set(key string, value any) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Delete removes a key, reporting whether it was present
func (p *Payload) Delete(key string) bool {
	if _, ok := p.values[key]; !ok {
		return false
	}
	delete(p.values, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
	return true
}

// RenameKey renames a key in place, keeping its position among the other
// keys. Returns false if the old key is absent or the new key already exists.
func (p *Payload) RenameKey(oldKey, newKey string) bool {
	if oldKey == newKey {
		return false
	}
	v, ok := p.values[oldKey]
	if !ok {
		return false
	}
	if _, exists := p.values[newKey]; exists {
		return false
	}
	for i, k := range p.keys {
		if k == oldKey {
			p.keys[i] = newKey
			break
		}
	}
	delete(p.values, oldKey)
	p.values[newKey] = v
	return true
}

// ReplaceValue substitutes oldValue with newValue across the payload.
// A value whose string form equals oldValue exactly is replaced wholesale;
// a string value that merely contains oldValue has every literal occurrence
// replaced (covers values embedded in templated/contextual strings).
// Matching is plain string comparison, never a pattern. Returns the number
// of keys whose value changed.
func (p *Payload) ReplaceValue(oldValue, newValue string) int {
	changed := 0
	for _, key := range p.keys {
		v := p.values[key]
		if ValueString(v) == oldValue {
			p.values[key] = newValue
			changed++
			continue
		}
		if s, ok := v.(string); ok && strings.Contains(s, oldValue) {
			p.values[key] = strings.ReplaceAll(s, oldValue, newValue)
			changed++
		}
	}
	return changed
}

// StripValue removes occurrences of value from the payload: keys whose
// value matches exactly are deleted, string values containing it as a
// substring have the occurrences removed. Returns the number of keys affected.
func (p *Payload) StripValue(value string) int {
	changed := 0
	for _, key := range p.Keys() {
		v := p.values[key]
		if ValueString(v) == value {
			p.Delete(key)
			changed++
			continue
		}
		if s, ok := v.(string); ok && strings.Contains(s, value) {
			p.values[key] = strings.ReplaceAll(s, value, "")
			changed++
		}
	}
	return changed
}

// Clone returns a deep copy of the payload
func (p *Payload) Clone() *Payload {
	out := NewPayload()
	for _, key := range p.keys {
		out.Set(key, cloneValue(p.values[key]))
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case *Payload:
		return t.Clone()
	case []any:
		arr := make([]any, len(t))
		for i, e := range t {
			arr[i] = cloneValue(e)
		}
		return arr
	default:
		return v
	}
}

// DecodePayload parses the persisted textual form of a payload. It never
// fails the caller: malformed input yields an empty payload together with
// the parse error, so callers can log a warning and carry on as if the
// event had no properties. A single bad legacy row must not break listing
// or export paths.
func DecodePayload(raw string) (*Payload, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return NewPayload(), nil
	}

	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return NewPayload(), fmt.Errorf("malformed payload: %w", err)
	}
	payload, ok := v.(*Payload)
	if !ok {
		return NewPayload(), fmt.Errorf("payload is not a JSON object")
	}
	return payload, nil
}

// decodeValue reads one JSON value from the decoder, preserving object key order
func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		// string, json.Number, bool or nil
		return tok, nil
	}

	switch delim {
	case '{':
		obj := NewPayload()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key is not a string")
			}
			value, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(key, value)
		}
		if _, err := dec.Token(); err != nil { // closing '}'
			return nil, err
		}
		return obj, nil
	case '[':
		arr := make([]any, 0)
		for dec.More() {
			value, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, value)
		}
		if _, err := dec.Token(); err != nil { // closing ']'
			return nil, err
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unexpected token %v", delim)
	}
}

// Encode serializes the payload back to its persisted textual form,
// writing keys in their tracked order.
func (p *Payload) Encode() (string, error) {
	b, err := p.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// MarshalJSON implements json.Marshaler with ordered keys
func (p *Payload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		if err := encodeValue(&buf, p.values[key]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, v any) error {
	switch t := v.(type) {
	case *Payload:
		b, err := t.MarshalJSON()
		if err != nil {
			return err
		}
		buf.Write(b)
	case []any:
		buf.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeValue(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case json.Number:
		buf.WriteString(t.String())
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return err
		}
		buf.Write(b)
	}
	return nil
}

// ValueString returns the canonical string form of a payload value,
// the form under which SuggestedValues are compared and stored.
func ValueString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return "null"
	case *Payload:
		s, err := t.Encode()
		if err != nil {
			return ""
		}
		return s
	case []any:
		var buf bytes.Buffer
		if err := encodeValue(&buf, t); err != nil {
			return ""
		}
		return buf.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

// InferPropertyType derives a catalog property type from the runtime
// shape of a payload value. Anything unrecognized falls back to string.
func InferPropertyType(v any) PropertyType {
	switch v.(type) {
	case json.Number:
		return PropertyTypeNumber
	case bool:
		return PropertyTypeBoolean
	case []any:
		return PropertyTypeArray
	case *Payload:
		return PropertyTypeObject
	default:
		return PropertyTypeString
	}
}
