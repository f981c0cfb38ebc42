package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Section is an insertion-ordered mapping of configuration keys to values.
// Nested JSON objects are held as nested *Section values and numbers as
// json.Number so that files round-trip without reordering or reformatting.
type Section = orderedmap.OrderedMap[string, any]

// NewSection returns an empty section.
func NewSection() *Section {
	return orderedmap.New[string, any]()
}

// Has reports whether key is present in s, whatever its value.
func Has(s *Section, key string) bool {
	if s == nil {
		return false
	}
	_, ok := s.Get(key)
	return ok
}

// HasValue reports whether key is present in s with a non-nil value.
func HasValue(s *Section, key string) bool {
	if s == nil {
		return false
	}
	v, ok := s.Get(key)
	return ok && v != nil
}

// Keys returns the keys of s in insertion order.
func Keys(s *Section) []string {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, s.Len())
	for pair := s.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// DeepMerge merges src into dst. Nested sections are merged recursively,
// every other value in src overwrites the one in dst.
func DeepMerge(dst, src *Section) {
	for pair := src.Oldest(); pair != nil; pair = pair.Next() {
		if nested, ok := pair.Value.(*Section); ok {
			if existing, ok := dst.Get(pair.Key); ok {
				if target, ok := existing.(*Section); ok {
					DeepMerge(target, nested)
					continue
				}
			}
			fresh := NewSection()
			DeepMerge(fresh, nested)
			dst.Set(pair.Key, fresh)
			continue
		}
		dst.Set(pair.Key, pair.Value)
	}
}

// decodeObject parses data as a JSON object, keeping key order at every level.
func decodeObject(data []byte) (*Section, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after top-level object")
	}

	s, ok := v.(*Section)
	if !ok {
		return nil, fmt.Errorf("expected a JSON object, got %T", v)
	}
	return s, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		s := NewSection()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key is %T, not a string", keyTok)
			}
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			s.Set(key, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return s, nil
	case '[':
		arr := []any{}
		for dec.More() {
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}

// marshalIndent renders v as two-space indented JSON with a trailing newline.
func marshalIndent(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
