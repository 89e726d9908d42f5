// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notebook

// Object is a JSON object that remembers the order its keys were read or
// added in. Values are *Object, []any, string, json.Number, bool, or nil.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return len(o.keys)
}

// Keys returns the keys in document order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

// Set stores v under key. A new key is appended; an existing key keeps its
// position.
func (o *Object) Set(key string, v any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// With returns a shallow copy of o with key set to v.
func (o *Object) With(key string, v any) *Object {
	c := o.clone()
	c.Set(key, v)
	return c
}

// Without returns a shallow copy of o with key removed.
func (o *Object) Without(key string) *Object {
	c := NewObject()
	for _, k := range o.keys {
		if k == key {
			continue
		}
		c.Set(k, o.values[k])
	}
	return c
}

func (o *Object) clone() *Object {
	c := &Object{
		keys:   make([]string, len(o.keys)),
		values: make(map[string]any, len(o.values)),
	}
	copy(c.keys, o.keys)
	for k, v := range o.values {
		c.values[k] = v
	}
	return c
}
