package types

import "encoding/json"

// Field wraps a value that may be absent from a JSON body. Set is true
// only when the key appeared in the request, which lets update handlers
// tell "leave this field alone" apart from "clear it" and "set it".
// A JSON null counts as present with the zero value.
type Field[T any] struct {
	Set   bool
	Value T
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if string(b) == "null" {
		var zero T
		f.Value = zero
		return nil
	}
	return json.Unmarshal(b, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Value)
}
