package domain

import "encoding/json"

// Patch is an optional JSON field that distinguishes three caller intents:
// the key was absent (leave unchanged), the key was null (clear), or the key
// carried a value (set). A plain pointer cannot express all three.
type Patch[T any] struct {
	present bool
	null    bool
	value   T
}

// SetPatch returns a Patch carrying value.
func SetPatch[T any](value T) Patch[T] {
	return Patch[T]{present: true, value: value}
}

// ClearPatch returns a Patch that explicitly clears the field.
func ClearPatch[T any]() Patch[T] {
	return Patch[T]{present: true, null: true}
}

// IsSet reports whether the field carries a value.
func (p Patch[T]) IsSet() bool { return p.present && !p.null }

// IsClear reports whether the field was explicitly set to null.
func (p Patch[T]) IsClear() bool { return p.present && p.null }

// IsUnset reports whether the field was absent from the payload.
func (p Patch[T]) IsUnset() bool { return !p.present }

// Get returns the value and whether one was set.
func (p Patch[T]) Get() (T, bool) {
	return p.value, p.IsSet()
}

// UnmarshalJSON is only invoked for keys present in the payload, so a Patch
// left at its zero value means "absent".
func (p *Patch[T]) UnmarshalJSON(data []byte) error {
	p.present = true
	if string(data) == "null" {
		p.null = true
		return nil
	}
	return json.Unmarshal(data, &p.value)
}
