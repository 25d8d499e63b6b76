package httpapi

import "encoding/json"

// Optional is a JSON field that knows whether it appeared in the request.
// Patch endpoints need three states: absent (leave unchanged), null (clear)
// and present (set). A plain pointer cannot tell the first two apart.
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Null = true
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
