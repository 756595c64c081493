package bitform

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ToJSON renders f as JSON, preserving record insertion order (Go's
// encoding/json cannot do this for a plain map, which is why DictField
// keeps its own ordered entry slice instead of one).
func ToJSON(f Field) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, f Field) error {
	switch v := f.(type) {
	case *DictField:
		return writeJSONDict(buf, v)
	case *ListField:
		return writeJSONList(buf, v)
	case *ScalarField:
		return writeJSONScalar(buf, v)
	case noValueField:
		buf.WriteString("null")
		return nil
	default:
		return fmt.Errorf("bitform: cannot render %T as JSON", f)
	}
}

func writeJSONDict(buf *bytes.Buffer, d *DictField) error {
	buf.WriteByte('{')
	for i, key := range d.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		encodedKey, err := json.Marshal(key)
		if err != nil {
			return err
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')
		child, _ := d.Get(key)
		if err := writeJSON(buf, child); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeJSONList(buf *bytes.Buffer, l *ListField) error {
	buf.WriteByte('[')
	for i, item := range l.Items() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(buf, item); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

func writeJSONScalar(buf *bytes.Buffer, s *ScalarField) error {
	if ft := s.FieldType(); ft != nil {
		encoded, err := json.Marshal(ft.String(s.Value()))
		if err != nil {
			return err
		}
		buf.Write(encoded)
		return nil
	}

	encoded, err := json.Marshal(s.Value())
	if err != nil {
		return err
	}
	buf.Write(encoded)
	return nil
}
