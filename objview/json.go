// Package objview renders goaml Objects as JSON or YAML records and reads
// them back. A record looks like
//
//	{"device": "SAMPLE001", "timestamp": "123456789", "id": "SAMPLE001_123456789",
//	 "data": {"Model": {"a": "x", "list": ["1", "2"], "nested": {"k": "v"}}}}
//
// Strings become String values, arrays of scalars become StringArray values
// and objects become nested Data. Numbers and booleans are read as their
// literal text. The id may be omitted; it then defaults to device_timestamp.
package objview

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	j "github.com/goccy/go-json"

	goaml "github.com/reoring/goaml"
)

// Record field names.
const (
	fieldDevice    = "device"
	fieldTimestamp = "timestamp"
	fieldID        = "id"
	fieldData      = "data"
)

type record struct {
	Device    string         `json:"device"`
	Timestamp string         `json:"timestamp"`
	ID        string         `json:"id"`
	Data      map[string]any `json:"data"`
}

// MarshalJSON renders o as an indented JSON record. Keys are sorted.
func MarshalJSON(o *goaml.Object) ([]byte, error) {
	rec, err := toRecord(o)
	if err != nil {
		return nil, err
	}
	b, err := j.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, &goaml.Error{Code: goaml.CodeSerializationFailed, Cause: err}
	}
	return b, nil
}

func toRecord(o *goaml.Object) (*record, error) {
	if o == nil {
		return nil, &goaml.Error{Code: goaml.CodeInvalidParam, Message: "nil object"}
	}
	rec := &record{Device: o.DeviceID(), Timestamp: o.Timestamp(), ID: o.ID(), Data: map[string]any{}}
	for _, name := range o.DataNames() {
		d, err := o.Data(name)
		if err != nil {
			return nil, err
		}
		rec.Data[name] = plain(d)
	}
	return rec, nil
}

// plain converts d into maps, string slices and strings.
func plain(d *goaml.Data) map[string]any {
	out := make(map[string]any, d.Len())
	for _, k := range d.Keys() {
		v, _ := d.Value(k)
		switch t := v.(type) {
		case goaml.String:
			out[k] = string(t)
		case goaml.StringArray:
			out[k] = append([]string{}, t...)
		case *goaml.Data:
			out[k] = plain(t)
		}
	}
	return out
}

// UnmarshalJSON reads one JSON record. Duplicate keys at any level fail with
// CodeDuplicateKey; syntax errors with CodeInvalidMarkup; records of the
// wrong shape with CodeInvalidParam.
func UnmarshalJSON(b []byte) (*goaml.Object, error) {
	return DecodeJSON(bytes.NewReader(b))
}

// DecodeJSON reads one JSON record from r. Trailing data after the record is
// an error.
func DecodeJSON(r io.Reader) (*goaml.Object, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	rd := &jsonReader{dec: dec, maxDepth: goaml.DefaultMaxDepth}

	tok, err := rd.token()
	if err != nil {
		return nil, err
	}
	if tok != j.Delim('{') {
		return nil, shapeError("record must be an object")
	}

	var ident identity
	seen := map[string]bool{}
	groups := goaml.NewData()
	for {
		tok, err := rd.token()
		if err != nil {
			return nil, err
		}
		if tok == j.Delim('}') {
			break
		}
		key, ok := tok.(string)
		if !ok {
			return nil, syntaxError(fmt.Errorf("expected object key, got %v", tok))
		}
		if seen[key] {
			return nil, &goaml.Error{Code: goaml.CodeDuplicateKey, Message: strconv.Quote(key)}
		}
		seen[key] = true

		switch key {
		case fieldDevice, fieldTimestamp, fieldID:
			s, err := rd.scalar(key)
			if err != nil {
				return nil, err
			}
			ident.set(key, s)
		case fieldData:
			if err := rd.groups(groups); err != nil {
				return nil, err
			}
		default:
			return nil, shapeError("unknown record field %q", key)
		}
	}
	if _, err := rd.dec.Token(); !errors.Is(err, io.EOF) {
		return nil, syntaxError(errors.New("trailing data after record"))
	}
	return ident.object(groups)
}

type jsonReader struct {
	dec      *j.Decoder
	maxDepth int
}

func (r *jsonReader) token() (j.Token, error) {
	tok, err := r.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, syntaxError(err)
	}
	return tok, nil
}

// scalar reads a string, number or boolean.
func (r *jsonReader) scalar(key string) (string, error) {
	tok, err := r.token()
	if err != nil {
		return "", err
	}
	s, ok := scalarText(tok)
	if !ok {
		return "", shapeError("%q must be a scalar", key)
	}
	return s, nil
}

func scalarText(tok j.Token) (string, bool) {
	switch v := tok.(type) {
	case string:
		return v, true
	case j.Number:
		return strings.Clone(string(v)), true
	case bool:
		return strconv.FormatBool(v), true
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), true
	}
	return "", false
}

// groups reads the "data" object; every member must itself be an object.
func (r *jsonReader) groups(into *goaml.Data) error {
	tok, err := r.token()
	if err != nil {
		return err
	}
	if tok != j.Delim('{') {
		return shapeError("%q must be an object", fieldData)
	}
	for {
		tok, err := r.token()
		if err != nil {
			return err
		}
		if tok == j.Delim('}') {
			return nil
		}
		name, ok := tok.(string)
		if !ok {
			return syntaxError(fmt.Errorf("expected object key, got %v", tok))
		}
		open, err := r.token()
		if err != nil {
			return err
		}
		if open != j.Delim('{') {
			return shapeError("group %q must be an object", name)
		}
		d, err := r.object(2)
		if err != nil {
			return withPath(err, name)
		}
		if err := into.SetData(name, d); err != nil {
			return err
		}
	}
}

// object reads members up to the closing brace; the opening one is consumed.
func (r *jsonReader) object(depth int) (*goaml.Data, error) {
	if depth > r.maxDepth {
		return nil, shapeError("nesting exceeds %d levels", r.maxDepth)
	}
	d := goaml.NewData()
	for {
		tok, err := r.token()
		if err != nil {
			return nil, err
		}
		if tok == j.Delim('}') {
			return d, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, syntaxError(fmt.Errorf("expected object key, got %v", tok))
		}
		v, err := r.value(key, depth)
		if err != nil {
			return nil, withPath(err, key)
		}
		if err := d.SetValue(key, v); err != nil {
			return nil, withPath(err, key)
		}
	}
}

func (r *jsonReader) value(key string, depth int) (goaml.Value, error) {
	tok, err := r.token()
	if err != nil {
		return nil, err
	}
	switch tok {
	case j.Delim('{'):
		return r.object(depth + 1)
	case j.Delim('['):
		return r.list(key)
	case nil:
		return nil, shapeError("%q is null", key)
	}
	if s, ok := scalarText(tok); ok {
		return goaml.String(s), nil
	}
	return nil, syntaxError(fmt.Errorf("unexpected token %v", tok))
}

func (r *jsonReader) list(key string) (goaml.StringArray, error) {
	out := goaml.StringArray{}
	for {
		tok, err := r.token()
		if err != nil {
			return nil, err
		}
		if tok == j.Delim(']') {
			return out, nil
		}
		s, ok := scalarText(tok)
		if !ok {
			return nil, shapeError("list %q may only hold scalars", key)
		}
		out = append(out, s)
	}
}

// identity collects the record header fields in whatever order they appear.
type identity struct {
	device, timestamp, id string
	hasID                 bool
}

func (i *identity) set(key, v string) {
	switch key {
	case fieldDevice:
		i.device = v
	case fieldTimestamp:
		i.timestamp = v
	case fieldID:
		i.id, i.hasID = v, true
	}
}

func (i identity) object(groups *goaml.Data) (*goaml.Object, error) {
	var (
		o   *goaml.Object
		err error
	)
	if i.hasID {
		o, err = goaml.NewObjectWithID(i.device, i.timestamp, i.id)
	} else {
		o, err = goaml.NewObject(i.device, i.timestamp)
	}
	if err != nil {
		return nil, err
	}
	for _, name := range groups.Keys() {
		d, _ := groups.Data(name)
		if err := o.AddData(name, d); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func syntaxError(err error) error {
	return &goaml.Error{Code: goaml.CodeInvalidMarkup, Cause: err}
}

func shapeError(format string, args ...any) error {
	return &goaml.Error{Code: goaml.CodeInvalidParam, Message: fmt.Sprintf(format, args...)}
}

// withPath prefixes the path of a *goaml.Error with p.
func withPath(err error, p string) error {
	var e *goaml.Error
	if !errors.As(err, &e) {
		return err
	}
	out := *e
	if out.Path == "" {
		out.Path = p
	} else {
		out.Path = p + "/" + out.Path
	}
	return &out
}
