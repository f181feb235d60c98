//go:build !noprotobuf

package goaml

import (
	"errors"
	"strings"

	"github.com/reoring/goaml/internal/caexpb"
)

// BinaryEnabled reports whether DataToByte and ByteToData are compiled in.
func BinaryEnabled() bool { return true }

func (r *Representation) dataToByte(obj *Object) ([]byte, error) {
	doc, err := r.buildDocument(obj)
	if err != nil {
		return nil, err
	}
	msg, err := caexpb.FromElement(doc.SelectElement(tagCAEXFile), r.opts.maxDepth)
	if err != nil {
		return nil, mirrorError(err)
	}
	b, err := caexpb.Marshal(msg)
	if err != nil {
		return nil, &Error{Code: CodeSerializationFailed, Cause: err}
	}
	return b, nil
}

func (r *Representation) byteToData(b []byte) (*Object, error) {
	msg, err := caexpb.Unmarshal(b)
	if err != nil {
		return nil, &Error{Code: CodeInvalidBinary, Cause: err}
	}
	doc := newEnvelope()
	if err := caexpb.ToElement(msg, doc.SelectElement(tagCAEXFile), r.opts.maxDepth); err != nil {
		return nil, mirrorError(err)
	}
	return r.constructObject(doc)
}

func mirrorError(err error) error {
	var de *caexpb.DepthError
	if errors.As(err, &de) {
		kind := "attribute"
		if de.Type == tagInternalElement {
			kind = "element"
		}
		e := newError(CodeSchemaMismatch, "%s nesting exceeds %d levels", kind, de.Limit)
		e.Path = strings.Join(de.Path, "/")
		return e
	}
	return &Error{Code: CodeSchemaMismatch, Cause: err}
}
