package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnrecognizedEnvelope means none of the known response shapes matched.
var ErrUnrecognizedEnvelope = errors.New("unrecognized response envelope")

// Shape names the envelope a list was found in.
type Shape string

const (
	ShapeUnknown Shape = ""
	ShapeArray   Shape = "array"  // [...]
	ShapeData    Shape = "data"   // {"data": [...]}
	ShapeNamed   Shape = "named"  // {"<collection>": [...]}
	ShapeResult  Shape = "result" // {"result": [...]}
)

// DecodeResult is either a decoded list or a failure carrying the raw payload.
type DecodeResult[T any] struct {
	Items []T
	Shape Shape
	Raw   []byte
	Err   error
}

func (r DecodeResult[T]) OK() bool { return r.Err == nil }

// DecodeList tries the known list envelopes in order: a bare array, then the
// data, <name> and result keys of an object.
func DecodeList[T any](raw []byte, name string) DecodeResult[T] {
	trimmed := bytes.TrimSpace(raw)
	fail := func(err error) DecodeResult[T] {
		return DecodeResult[T]{Items: []T{}, Raw: raw, Err: err}
	}
	if len(trimmed) == 0 {
		return fail(ErrUnrecognizedEnvelope)
	}

	if trimmed[0] == '[' {
		items, err := decodeArray[T](trimmed)
		if err != nil {
			return fail(err)
		}
		return DecodeResult[T]{Items: items, Shape: ShapeArray, Raw: raw}
	}

	if trimmed[0] != '{' {
		return fail(ErrUnrecognizedEnvelope)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrUnrecognizedEnvelope, err))
	}

	candidates := []struct {
		key   string
		shape Shape
	}{
		{"data", ShapeData},
		{name, ShapeNamed},
		{"result", ShapeResult},
	}
	for _, c := range candidates {
		if c.key == "" {
			continue
		}
		value, ok := obj[c.key]
		if !ok || !isArray(value) {
			continue
		}
		items, err := decodeArray[T](value)
		if err != nil {
			return fail(err)
		}
		return DecodeResult[T]{Items: items, Shape: c.shape, Raw: raw}
	}
	return fail(ErrUnrecognizedEnvelope)
}

// DecodeOne extracts a single entity from {"data": {...}}, {"<singular>": {...}},
// {"result": {...}} or a bare object. A body with no entity decodes to the zero
// value, which callers detect by its empty identity.
func DecodeOne[T any](raw []byte, singular string) (T, error) {
	var zero T
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return zero, nil
	}
	if trimmed[0] != '{' {
		return zero, ErrUnrecognizedEnvelope
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrUnrecognizedEnvelope, err)
	}
	body := trimmed
	for _, key := range []string{"data", singular, "result"} {
		if key == "" {
			continue
		}
		if value, ok := obj[key]; ok && isObject(value) {
			body = value
			break
		}
	}

	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return zero, fmt.Errorf("decoding %s: %w", singular, err)
	}
	return out, nil
}

func decodeArray[T any](raw []byte) ([]T, error) {
	items := []T{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decoding list: %w", err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}
