package goaml

import (
	"fmt"
	"sort"
)

// Object is one self-identified unit of data: the source device, the time it
// was produced, an identifier and the named Data groups.
type Object struct {
	deviceID  string
	timestamp string
	id        string
	data      map[string]*Data
}

// NewObject creates an Object whose id is deviceID + "_" + timestamp.
func NewObject(deviceID, timestamp string) (*Object, error) {
	return NewObjectWithID(deviceID, timestamp, deviceID+"_"+timestamp)
}

// NewObjectWithID creates an Object with an explicit id. All three strings are
// required.
func NewObjectWithID(deviceID, timestamp, id string) (*Object, error) {
	switch {
	case deviceID == "":
		return nil, newError(CodeInvalidParam, "empty device id")
	case timestamp == "":
		return nil, newError(CodeInvalidParam, "empty timestamp")
	case id == "":
		return nil, newError(CodeInvalidParam, "empty id")
	}
	return newObject(deviceID, timestamp, id), nil
}

// newObject skips validation; decoding tolerates missing identity attributes.
func newObject(deviceID, timestamp, id string) *Object {
	return &Object{deviceID: deviceID, timestamp: timestamp, id: id, data: map[string]*Data{}}
}

func (o *Object) DeviceID() string  { return o.deviceID }
func (o *Object) Timestamp() string { return o.timestamp }
func (o *Object) ID() string        { return o.id }

// AddData stores a deep copy of d under name.
func (o *Object) AddData(name string, d *Data) error {
	if name == "" {
		return newError(CodeInvalidParam, "empty data name")
	}
	if d == nil {
		return newError(CodeInvalidParam, "nil data for %q", name)
	}
	if _, ok := o.data[name]; ok {
		return &Error{Code: CodeDuplicateKey, Message: fmt.Sprintf("%q", name)}
	}
	o.data[name] = d.Clone()
	return nil
}

// Data returns the group stored under name.
func (o *Object) Data(name string) (*Data, error) {
	if name == "" {
		return nil, newError(CodeInvalidParam, "empty data name")
	}
	d, ok := o.data[name]
	if !ok {
		return nil, &Error{Code: CodeKeyNotFound, Message: fmt.Sprintf("%q", name)}
	}
	return d, nil
}

// DataNames returns the group names in ascending order.
func (o *Object) DataNames() []string {
	names := make([]string, 0, len(o.data))
	for n := range o.data {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Equal compares identity fields and all groups recursively.
func (o *Object) Equal(other *Object) bool {
	if o == nil || other == nil {
		return o == other
	}
	if o.deviceID != other.deviceID || o.timestamp != other.timestamp || o.id != other.id {
		return false
	}
	if len(o.data) != len(other.data) {
		return false
	}
	for n, d := range o.data {
		od, ok := other.data[n]
		if !ok || !d.Equal(od) {
			return false
		}
	}
	return true
}
