package goaml

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// CAEX element and attribute names.
const (
	tagCAEXFile              = "CAEXFile"
	tagInstanceHierarchy     = "InstanceHierarchy"
	tagRoleClassLib          = "RoleClassLib"
	tagRoleClass             = "RoleClass"
	tagSystemUnitClassLib    = "SystemUnitClassLib"
	tagSystemUnitClass       = "SystemUnitClass"
	tagInternalElement       = "InternalElement"
	tagAttribute             = "Attribute"
	tagAdditionalInformation = "AdditionalInformation"
	tagRefSemantic           = "RefSemantic"
	tagSupportedRoleClass    = "SupportedRoleClass"
	tagVersion               = "Version"
	tagValue                 = "Value"
	tagDescription           = "Description"

	attrName                       = "Name"
	attrAttributeDataType          = "AttributeDataType"
	attrRefBaseSystemUnitPath      = "RefBaseSystemUnitPath"
	attrRefRoleClassPath           = "RefRoleClassPath"
	attrCorrespondingAttributePath = "CorrespondingAttributePath"

	attrFileName      = "FileName"
	attrSchemaVersion = "SchemaVersion"
	attrXSI           = "xsi:noNamespaceSchemaLocation"
	attrXMLNS         = "xmlns:xsi"

	orderedListType = "OrderedListType"
)

// Envelope defaults written on every produced CAEXFile.
const (
	defaultSchemaVersion  = "2.15"
	defaultSchemaLocation = "CAEX_ClassModel_V2.15.xsd"
	defaultXSINamespace   = "http://www.w3.org/2001/XMLSchema-instance"
)

// Reserved template holding the Object identity, and its slot names.
const (
	eventTemplate = "Event"
	keyDevice     = "device"
	keyTimestamp  = "timestamp"
	keyID         = "id"
)

// SlotKind classifies an Attribute element of a template or instance.
type SlotKind int

const (
	SlotInvalid SlotKind = iota // Neither scalar, list nor record, or ambiguous.
	SlotScalar                  // Holds a single Value.
	SlotList                    // Ordered list expanded into "1".."n" children.
	SlotRecord                  // Nested Attribute children.
)

func (k SlotKind) String() string {
	switch k {
	case SlotScalar:
		return "scalar"
	case SlotList:
		return "list"
	case SlotRecord:
		return "record"
	default:
		return "invalid"
	}
}

// MarshalText renders the kind by name in JSON and YAML output.
func (k SlotKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func nameOf(el *etree.Element) string { return el.SelectAttrValue(attrName, "") }

// childByName returns the first child with the given tag whose Name matches.
func childByName(parent *etree.Element, tag, name string) *etree.Element {
	for _, c := range parent.SelectElements(tag) {
		if nameOf(c) == name {
			return c
		}
	}
	return nil
}

// isListSlot reports a RefSemantic child on an element that does not itself
// carry an OrderedListType path.
func isListSlot(el *etree.Element) bool {
	if el.SelectElement(tagRefSemantic) == nil {
		return false
	}
	return !strings.HasPrefix(el.SelectAttrValue(attrCorrespondingAttributePath, ""), orderedListType)
}

func isRecordSlot(el *etree.Element) bool {
	return el.SelectElement(tagRefSemantic) == nil && el.SelectElement(tagAttribute) != nil
}

// templateSlotKind classifies a template Attribute before values are written.
// Description and default Value children do not make a slot structured.
func templateSlotKind(el *etree.Element) SlotKind {
	list, record := isListSlot(el), isRecordSlot(el)
	switch {
	case list && el.SelectElement(tagAttribute) != nil:
		return SlotInvalid
	case list:
		return SlotList
	case record:
		return SlotRecord
	case el.SelectElement(tagRefSemantic) == nil:
		return SlotScalar
	default:
		return SlotInvalid
	}
}

// instanceSlotKind classifies a populated Attribute in precedence order:
// Value, list marker, nested attributes. A Value next to a list marker or
// nested attributes satisfies two branches and is rejected.
func instanceSlotKind(el *etree.Element) SlotKind {
	hasValue := el.SelectElement(tagValue) != nil
	list, record := isListSlot(el), isRecordSlot(el)
	switch {
	case hasValue && (list || record):
		return SlotInvalid
	case hasValue:
		return SlotScalar
	case list:
		return SlotList
	case record:
		return SlotRecord
	default:
		return SlotInvalid
	}
}

// setValue replaces any Value child of el with one holding text.
func setValue(el *etree.Element, text string) {
	for _, v := range el.SelectElements(tagValue) {
		el.RemoveChild(v)
	}
	el.CreateElement(tagValue).SetText(text)
}

func valueText(el *etree.Element) string {
	v := el.SelectElement(tagValue)
	if v == nil {
		return ""
	}
	return v.Text()
}

func itemName(i int) string { return strconv.Itoa(i + 1) }
