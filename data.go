package goaml

import (
	"fmt"
	"sort"
)

// Data maps attribute names to Values. The zero value is ready to use.
type Data struct {
	values map[string]Value
}

// NewData returns an empty Data.
func NewData() *Data { return &Data{} }

// SetValue stores v under key. Lists and nested maps are deep-copied.
// It fails with InvalidParameter for an empty key or nil value and with
// DuplicateKey when key is already present.
func (d *Data) SetValue(key string, v Value) error {
	if key == "" {
		return newError(CodeInvalidParam, "empty key")
	}
	if v == nil {
		return newError(CodeInvalidParam, "nil value for %q", key)
	}
	if dv, ok := v.(*Data); ok && dv == nil {
		return newError(CodeInvalidParam, "nil value for %q", key)
	}
	if _, ok := d.values[key]; ok {
		return &Error{Code: CodeDuplicateKey, Message: fmt.Sprintf("%q", key)}
	}
	if d.values == nil {
		d.values = make(map[string]Value)
	}
	d.values[key] = cloneValue(v)
	return nil
}

// SetString stores a scalar.
func (d *Data) SetString(key, value string) error { return d.SetValue(key, String(value)) }

// SetStrings stores an ordered list.
func (d *Data) SetStrings(key string, values []string) error {
	return d.SetValue(key, StringArray(values))
}

// SetData stores a nested map.
func (d *Data) SetData(key string, value *Data) error { return d.SetValue(key, value) }

// Keys returns the stored names in ascending order.
func (d *Data) Keys() []string {
	keys := make([]string, 0, len(d.values))
	for k := range d.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len reports the number of stored names.
func (d *Data) Len() int { return len(d.values) }

// Value returns the stored value for key.
func (d *Data) Value(key string) (Value, error) {
	if key == "" {
		return nil, newError(CodeInvalidParam, "empty key")
	}
	v, ok := d.values[key]
	if !ok {
		return nil, &Error{Code: CodeKeyNotFound, Message: fmt.Sprintf("%q", key)}
	}
	return v, nil
}

// ValueType reports the Kind stored under key.
func (d *Data) ValueType(key string) (Kind, error) {
	v, err := d.Value(key)
	if err != nil {
		return 0, err
	}
	return v.Kind(), nil
}

// String returns the scalar stored under key.
func (d *Data) String(key string) (string, error) {
	v, err := d.Value(key)
	if err != nil {
		return "", err
	}
	s, ok := v.(String)
	if !ok {
		return "", wrongKind(key, v.Kind())
	}
	return string(s), nil
}

// Strings returns a copy of the list stored under key.
func (d *Data) Strings(key string) ([]string, error) {
	v, err := d.Value(key)
	if err != nil {
		return nil, err
	}
	arr, ok := v.(StringArray)
	if !ok {
		return nil, wrongKind(key, v.Kind())
	}
	out := make([]string, len(arr))
	copy(out, arr)
	return out, nil
}

// Data returns the nested map stored under key. The returned Data is shared
// with d; use Clone before mutating it independently.
func (d *Data) Data(key string) (*Data, error) {
	v, err := d.Value(key)
	if err != nil {
		return nil, err
	}
	nd, ok := v.(*Data)
	if !ok {
		return nil, wrongKind(key, v.Kind())
	}
	return nd, nil
}

// Clone returns a deep copy of d.
func (d *Data) Clone() *Data {
	out := &Data{}
	if len(d.values) == 0 {
		return out
	}
	out.values = make(map[string]Value, len(d.values))
	for k, v := range d.values {
		out.values[k] = cloneValue(v)
	}
	return out
}

// Equal reports whether d and o hold the same names with recursively equal
// values. go-cmp picks this method up as well.
func (d *Data) Equal(o *Data) bool {
	if d == nil || o == nil {
		return d == o
	}
	if len(d.values) != len(o.values) {
		return false
	}
	for k, v := range d.values {
		ov, ok := o.values[k]
		if !ok || !equalValue(v, ov) {
			return false
		}
	}
	return true
}

func wrongKind(key string, has Kind) *Error {
	return &Error{Code: CodeWrongValueKind, Message: fmt.Sprintf("%q has a value of %s type", key, has)}
}
