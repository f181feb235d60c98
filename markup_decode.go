package goaml

import (
	"github.com/beevik/etree"
)

func parseDocument(text string) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(text); err != nil {
		return nil, &Error{Code: CodeInvalidMarkup, Cause: err}
	}
	if doc.Root() == nil {
		return nil, newError(CodeInvalidMarkup, "document has no root element")
	}
	return doc, nil
}

// constructObject reads the Event element of doc's InstanceHierarchy back into
// an Object.
func (r *Representation) constructObject(doc *etree.Document) (*Object, error) {
	caex := doc.SelectElement(tagCAEXFile)
	if caex == nil || caex.SelectElement(tagInstanceHierarchy) == nil {
		return nil, newError(CodeInvalidSchema, "<%s> or <%s> does not exist", tagCAEXFile, tagInstanceHierarchy)
	}
	event := childByName(caex.SelectElement(tagInstanceHierarchy), tagInternalElement, eventTemplate)
	if event == nil {
		return nil, newError(CodeInvalidSchema, "<%s> does not exist", eventTemplate)
	}

	var deviceID, timestamp, id string
	for _, a := range event.SelectElements(tagAttribute) {
		switch nameOf(a) {
		case keyDevice:
			deviceID = valueText(a)
		case keyTimestamp:
			timestamp = valueText(a)
		case keyID:
			id = valueText(a)
		}
	}
	if id == "" {
		id = deviceID + "_" + timestamp
	}
	obj := newObject(deviceID, timestamp, id)

	for _, ie := range event.SelectElements(tagInternalElement) {
		name := nameOf(ie)
		data, err := r.constructData(ie, 1)
		if err != nil {
			return nil, withPath(err, name)
		}
		if err := obj.AddData(name, data); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

// constructData decodes the Attribute children of el.
func (r *Representation) constructData(el *etree.Element, depth int) (*Data, error) {
	if depth > r.opts.maxDepth {
		return nil, newError(CodeSchemaMismatch, "attribute nesting exceeds %d levels", r.opts.maxDepth)
	}
	data := NewData()
	for _, a := range el.SelectElements(tagAttribute) {
		key := nameOf(a)
		v, err := r.decodeAttribute(a, depth)
		if err != nil {
			return nil, withPath(err, key)
		}
		if err := data.SetValue(key, v); err != nil {
			return nil, withPath(err, key)
		}
	}
	return data, nil
}

func (r *Representation) decodeAttribute(a *etree.Element, depth int) (Value, error) {
	switch instanceSlotKind(a) {
	case SlotScalar:
		return String(valueText(a)), nil
	case SlotList:
		items := a.SelectElements(tagAttribute)
		values := make(StringArray, len(items))
		for i := range items {
			item := childByName(a, tagAttribute, itemName(i))
			if item == nil {
				return nil, newError(CodeInvalidSchema, "list item %q is missing", itemName(i))
			}
			values[i] = valueText(item)
		}
		return values, nil
	case SlotRecord:
		nested, err := r.constructData(a, depth+1)
		if err != nil {
			return nil, err
		}
		return nested, nil
	default:
		return nil, newError(CodeInvalidSchema, "<%s> has value of invalid type", nameOf(a))
	}
}
