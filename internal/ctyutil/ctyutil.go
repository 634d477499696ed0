// Package ctyutil adapts between native Go values, cty values, and their
// JSON wire form. All persisted argument values flow through these helpers so
// the rest of the codebase never touches the codec directly.
package ctyutil

import (
	"encoding/json"
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// ToJSON encodes a cty value into its JSON form using the value's own type.
// Values whose types have no JSON representation (capsules, unknowns) return
// an error rather than a partial document.
func ToJSON(v cty.Value) (json.RawMessage, error) {
	if v == cty.NilVal {
		return nil, fmt.Errorf("cannot encode nil value")
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("cannot encode unknown value")
	}
	raw, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

// FromJSON decodes a JSON fragment into a cty value, inferring the type from
// the document itself.
func FromJSON(raw json.RawMessage) (cty.Value, error) {
	ty, err := ctyjson.ImpliedType([]byte(raw))
	if err != nil {
		return cty.NilVal, err
	}
	return ctyjson.Unmarshal([]byte(raw), ty)
}

// Encodable reports whether a value survives a round trip through ToJSON.
func Encodable(v cty.Value) bool {
	_, err := ToJSON(v)
	return err == nil
}

// FromGo converts a native Go value into its equivalent cty value.
func FromGo(v any) (cty.Value, error) {
	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, err
	}
	return gocty.ToCtyValue(v, ty)
}

// StringMap converts a cty map or object of strings into a Go map. It returns
// an error when any element is not a string.
func StringMap(v cty.Value) (map[string]string, error) {
	if v == cty.NilVal || v.IsNull() {
		return nil, nil
	}
	if !v.Type().IsMapType() && !v.Type().IsObjectType() {
		return nil, fmt.Errorf("expected a map of strings, got %s", v.Type().FriendlyName())
	}
	out := make(map[string]string)
	for key, elem := range v.AsValueMap() {
		if elem.Type() != cty.String || elem.IsNull() {
			return nil, fmt.Errorf("expected a string for key %q, got %s", key, elem.Type().FriendlyName())
		}
		out[key] = elem.AsString()
	}
	return out, nil
}
