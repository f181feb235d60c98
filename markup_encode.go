package goaml

import (
	"github.com/beevik/etree"
)

// newEnvelope returns a document holding only the CAEXFile root with the
// fixed format attributes.
func newEnvelope() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)
	caex := doc.CreateElement(tagCAEXFile)
	caex.CreateAttr(attrFileName, "")
	caex.CreateAttr(attrSchemaVersion, defaultSchemaVersion)
	caex.CreateAttr(attrXSI, defaultSchemaLocation)
	caex.CreateAttr(attrXMLNS, defaultXSINamespace)
	return doc
}

// buildDocument converts obj into an instance document: the envelope plus an
// InstanceHierarchy holding the Event element and one element per group.
// The class libraries are not appended here.
func (r *Representation) buildDocument(obj *Object) (*etree.Document, error) {
	if obj == nil {
		return nil, newError(CodeInvalidParam, "nil object")
	}
	doc := newEnvelope()
	ih := doc.SelectElement(tagCAEXFile).CreateElement(tagInstanceHierarchy)
	ih.CreateAttr(attrName, nameOf(r.model.sucl))

	event, err := r.model.instantiate(ih, eventTemplate)
	if err != nil {
		return nil, err
	}
	for _, a := range event.SelectElements(tagAttribute) {
		switch nameOf(a) {
		case keyDevice:
			setValue(a, obj.DeviceID())
		case keyTimestamp:
			setValue(a, obj.Timestamp())
		case keyID:
			setValue(a, obj.ID())
		}
	}

	for _, name := range obj.DataNames() {
		data, _ := obj.Data(name)
		ie, err := r.model.instantiate(event, name)
		if err != nil {
			return nil, err
		}
		if err := r.assignAttributes(ie, data, 1); err != nil {
			return nil, withPath(err, name)
		}
	}
	return doc, nil
}

// assignAttributes fills every slot the template declares on el from data.
// Entries of data without a slot are dropped.
func (r *Representation) assignAttributes(el *etree.Element, data *Data, depth int) error {
	if depth > r.opts.maxDepth {
		return newError(CodeSchemaMismatch, "attribute nesting exceeds %d levels", r.opts.maxDepth)
	}
	for _, slot := range el.SelectElements(tagAttribute) {
		name := nameOf(slot)
		switch templateSlotKind(slot) {
		case SlotScalar:
			v, err := data.String(name)
			if err != nil {
				return withPath(mismatch(err, name), name)
			}
			setValue(slot, v)
		case SlotList:
			values, err := data.Strings(name)
			if err != nil {
				return withPath(mismatch(err, name), name)
			}
			expandList(slot, values)
		case SlotRecord:
			nested, err := data.Data(name)
			if err != nil {
				return withPath(mismatch(err, name), name)
			}
			if err := r.assignAttributes(slot, nested, depth+1); err != nil {
				return withPath(err, name)
			}
		default:
			return withPath(newError(CodeInvalidSchema, "attribute %q declares neither a value, a list nor nested attributes", name), name)
		}
	}
	return nil
}

// expandList appends one child per value named "1".."n". Each child copies the
// slot's XML attributes; the slot's own data type is cleared since a list has
// none (BPR MLA 1.0.0).
func expandList(slot *etree.Element, values []string) {
	for i, v := range values {
		item := slot.CreateElement(tagAttribute)
		for _, a := range slot.Attr {
			item.CreateAttr(a.FullKey(), a.Value)
		}
		item.CreateAttr(attrName, itemName(i))
		setValue(item, v)
	}
	if slot.SelectAttr(attrAttributeDataType) != nil {
		slot.CreateAttr(attrAttributeDataType, "")
	}
}

// appendModel copies both class libraries into doc so it is self-describing.
func (r *Representation) appendModel(doc *etree.Document) {
	caex := doc.SelectElement(tagCAEXFile)
	caex.AddChild(r.model.rcl.Copy())
	caex.AddChild(r.model.sucl.Copy())
}

// writeDocument serializes doc with canonical escaping so carriage returns
// in text, and tabs and newlines in attribute values, are written as
// character references and survive the parser's whitespace normalization.
func writeDocument(doc *etree.Document) (string, error) {
	doc.WriteSettings.CanonicalText = true
	doc.WriteSettings.CanonicalAttrVal = true
	doc.IndentTabs()
	return doc.WriteToString()
}
