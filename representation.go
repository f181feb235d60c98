package goaml

import (
	"errors"
	"log/slog"
)

// Representation converts Objects to and from AutomationML documents and
// their binary form, governed by one data-model schema loaded at
// construction.
//
// A Representation is never modified after NewRepresentation returns, so
// concurrent conversions on one value are safe. Nothing enforces this; the
// type holds no locks.
type Representation struct {
	model *model
	opts  options
	log   *slog.Logger
}

// NewRepresentation loads the AutomationML data model at path. It fails with
// InvalidFilePath when the file cannot be read or parsed and with
// InvalidSchema when CAEXFile, SystemUnitClassLib or RoleClassLib is missing.
func NewRepresentation(path string, opts ...Option) (*Representation, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger.With("component", "representation")
	if path == "" {
		return nil, logged(log, "load", newError(CodeInvalidParam, "empty schema path"))
	}
	m, err := loadModel(path, o.maxDepth)
	if err != nil {
		return nil, logged(log, "load", err)
	}
	r := &Representation{model: m, opts: o, log: log}
	log.Debug("data model loaded", "path", path, "id", m.id(), "templates", len(m.templates))
	return r, nil
}

// ID returns "<SystemUnitClassLib name>_<version>" of the loaded model.
func (r *Representation) ID() string { return r.model.id() }

// StructureTemplate looks up a SystemUnitClass by exact name. The returned
// value is a copy.
func (r *Representation) StructureTemplate(name string) (ClassTemplate, bool) {
	return r.model.template(name)
}

// ConfigInfo returns the default configuration described by the model: one
// group per SystemUnitClass except Event, filled from the RoleClass with the
// same name.
func (r *Representation) ConfigInfo() (*Object, error) {
	obj, err := r.model.configObject()
	if err != nil {
		return nil, logged(r.log, "config", err)
	}
	return obj, nil
}

// DataToAML converts obj to an AutomationML document. Groups without a
// SystemUnitClass fail with SchemaMismatch; values without a template slot
// are dropped.
func (r *Representation) DataToAML(obj *Object) (string, error) {
	doc, err := r.buildDocument(obj)
	if err != nil {
		return "", logged(r.log, "DataToAML", err)
	}
	r.appendModel(doc)
	out, err := writeDocument(doc)
	if err != nil {
		return "", logged(r.log, "DataToAML", &Error{Code: CodeSerializationFailed, Cause: err})
	}
	r.log.Debug("converted object to AML", "id", obj.ID(), "bytes", len(out))
	return out, nil
}

// AMLToData parses an AutomationML instance document back into an Object.
func (r *Representation) AMLToData(text string) (*Object, error) {
	doc, err := parseDocument(text)
	if err != nil {
		return nil, logged(r.log, "AMLToData", err)
	}
	obj, err := r.constructObject(doc)
	if err != nil {
		return nil, logged(r.log, "AMLToData", err)
	}
	r.log.Debug("converted AML to object", "id", obj.ID())
	return obj, nil
}

// DataToByte converts obj to the binary form. It fails with
// CapabilityDisabled when built with the noprotobuf tag.
func (r *Representation) DataToByte(obj *Object) ([]byte, error) {
	b, err := r.dataToByte(obj)
	if err != nil {
		return nil, logged(r.log, "DataToByte", err)
	}
	r.log.Debug("converted object to binary", "id", obj.ID(), "bytes", len(b))
	return b, nil
}

// ByteToData converts the binary form back into an Object. It fails with
// CapabilityDisabled when built with the noprotobuf tag.
func (r *Representation) ByteToData(b []byte) (*Object, error) {
	obj, err := r.byteToData(b)
	if err != nil {
		return nil, logged(r.log, "ByteToData", err)
	}
	r.log.Debug("converted binary to object", "id", obj.ID())
	return obj, nil
}

func logged(log *slog.Logger, op string, err error) error {
	var e *Error
	if errors.As(err, &e) {
		log.Error(op+" failed", "code", string(e.Code), "path", e.Path, "err", err)
	} else {
		log.Error(op+" failed", "err", err)
	}
	return err
}
