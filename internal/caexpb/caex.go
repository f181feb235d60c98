// Package caexpb carries a CAEX instance tree as a protobuf message.
//
// The message schema is caex.proto. Its descriptor is assembled at init and
// messages are built with dynamicpb, so the wire work (tags, lengths, UTF-8
// checks, recursion limits, unknown fields) is done by the protobuf runtime.
// The package only maps between etree elements and message fields:
// a string field is an XML attribute of the same name, except for the fields
// in textFields which are child element text, and a message field is a child
// element named after the field.
package caexpb

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
)

// File is the descriptor of caex.proto.
var File protoreflect.FileDescriptor

// Root is the CAEXFile message descriptor.
var Root protoreflect.MessageDescriptor

// textFields are string fields carried as child element text.
var textFields = map[protoreflect.Name]bool{"Version": true, "Value": true}

// xmlNames maps fields whose XML attribute name is not a valid field name.
var xmlNames = map[protoreflect.Name]string{
	"xsi":   "xsi:noNamespaceSchemaLocation",
	"xmlns": "xmlns:xsi",
}

func init() {
	fd, err := protodesc.NewFile(fileProto(), nil)
	if err != nil {
		panic(fmt.Sprintf("caexpb: invalid caex.proto descriptor: %v", err))
	}
	File = fd
	Root = fd.Messages().ByName("CAEXFile")
}

// ErrTooDeep is matched by a *DepthError.
var ErrTooDeep = errors.New("caexpb: nesting too deep")

// DepthError reports an element nested inside elements of its own type more
// than the caller's limit allows.
type DepthError struct {
	Type  protoreflect.Name // Attribute or InternalElement
	Limit int
	Path  []string // Name of every enclosing element, outermost first
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("%s nesting exceeds %d levels", e.Type, e.Limit)
}

func (e *DepthError) Is(target error) bool { return target == ErrTooDeep }

// New returns an empty CAEXFile message.
func New() *dynamicpb.Message { return dynamicpb.NewMessage(Root) }

// Marshal encodes m deterministically.
func Marshal(m proto.Message) ([]byte, error) {
	return proto.MarshalOptions{Deterministic: true}.Marshal(m)
}

// Unmarshal decodes a CAEXFile message. Unknown fields are kept as unknown
// and ignored by ToElement.
func Unmarshal(b []byte) (*dynamicpb.Message, error) {
	m := New()
	if err := (proto.UnmarshalOptions{}).Unmarshal(b, m); err != nil {
		return nil, err
	}
	return m, nil
}

// FromElement builds a CAEXFile message from the CAEXFile element el.
// Children whose tag is not a field of the enclosing message are ignored.
func FromElement(el *etree.Element, maxDepth int) (*dynamicpb.Message, error) {
	m := New()
	if err := fromElement(m, el, 0, maxDepth); err != nil {
		return nil, err
	}
	return m, nil
}

func fromElement(m protoreflect.Message, el *etree.Element, depth, maxDepth int) error {
	fields := m.Descriptor().Fields()
	for i := 0; i < fields.Len(); i++ {
		fd := fields.Get(i)
		name := fd.Name()
		switch {
		case fd.Kind() == protoreflect.StringKind && textFields[name]:
			if c := el.SelectElement(string(name)); c != nil {
				m.Set(fd, protoreflect.ValueOfString(c.Text()))
			}
		case fd.Kind() == protoreflect.StringKind:
			if a := el.SelectAttr(xmlName(name)); a != nil {
				m.Set(fd, protoreflect.ValueOfString(a.Value))
			}
		case fd.Kind() == protoreflect.MessageKind:
			d := childDepth(m.Descriptor(), fd, depth)
			for _, c := range el.SelectElements(string(name)) {
				if d > maxDepth {
					return &DepthError{Type: name, Limit: maxDepth, Path: []string{c.SelectAttrValue("Name", "")}}
				}
				var child protoreflect.Value
				if fd.IsList() {
					child = m.Mutable(fd).List().NewElement()
				} else {
					child = m.NewField(fd)
				}
				if err := fromElement(child.Message(), c, d, maxDepth); err != nil {
					return prependPath(err, c.SelectAttrValue("Name", ""))
				}
				if !fd.IsList() {
					m.Set(fd, child)
					break
				}
				m.Mutable(fd).List().Append(child)
			}
		}
	}
	return nil
}

// ToElement writes the fields of m into el, creating one child element per
// message value.
func ToElement(m protoreflect.Message, el *etree.Element, maxDepth int) error {
	return toElement(m, el, 0, maxDepth)
}

func toElement(m protoreflect.Message, el *etree.Element, depth, maxDepth int) error {
	fields := m.Descriptor().Fields()
	for i := 0; i < fields.Len(); i++ {
		fd := fields.Get(i)
		if !m.Has(fd) {
			continue
		}
		name := fd.Name()
		v := m.Get(fd)
		switch {
		case fd.Kind() == protoreflect.StringKind && textFields[name]:
			el.CreateElement(string(name)).SetText(v.String())
		case fd.Kind() == protoreflect.StringKind:
			el.CreateAttr(xmlName(name), v.String())
		case fd.Kind() == protoreflect.MessageKind:
			d := childDepth(m.Descriptor(), fd, depth)
			var children []protoreflect.Message
			if fd.IsList() {
				list := v.List()
				for j := 0; j < list.Len(); j++ {
					children = append(children, list.Get(j).Message())
				}
			} else {
				children = []protoreflect.Message{v.Message()}
			}
			for _, cm := range children {
				if d > maxDepth {
					return &DepthError{Type: name, Limit: maxDepth, Path: []string{nameField(cm)}}
				}
				if err := toElement(cm, el.CreateElement(string(name)), d, maxDepth); err != nil {
					return prependPath(err, nameField(cm))
				}
			}
		}
	}
	return nil
}

// childDepth counts how many elements of the same type enclose a child of
// field fd. Nesting under a different type starts again at one.
func childDepth(parent protoreflect.MessageDescriptor, fd protoreflect.FieldDescriptor, depth int) int {
	if fd.Message().FullName() == parent.FullName() {
		return depth + 1
	}
	return 1
}

func xmlName(name protoreflect.Name) string {
	if n, ok := xmlNames[name]; ok {
		return n
	}
	return string(name)
}

func nameField(m protoreflect.Message) string {
	fd := m.Descriptor().Fields().ByName("Name")
	if fd == nil {
		return ""
	}
	return m.Get(fd).String()
}

func prependPath(err error, name string) error {
	var de *DepthError
	if name != "" && errors.As(err, &de) {
		de.Path = append([]string{name}, de.Path...)
	}
	return err
}

// fileProto mirrors caex.proto. Field numbers are part of the wire format.
func fileProto() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String("caex.proto"),
		Package: proto.String("datamodel"),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("CAEXFile"),
				Field: []*descriptorpb.FieldDescriptorProto{
					scalar("FileName", 1),
					scalar("SchemaVersion", 2),
					scalar("xsi", 3),
					scalar("xmlns", 4),
					repeated("InstanceHierarchy", 5),
				},
			},
			{
				Name: proto.String("InstanceHierarchy"),
				Field: []*descriptorpb.FieldDescriptorProto{
					scalar("Name", 1),
					scalar("Version", 2),
					repeated("InternalElement", 3),
				},
			},
			{
				Name: proto.String("InternalElement"),
				Field: []*descriptorpb.FieldDescriptorProto{
					scalar("Name", 1),
					scalar("RefBaseSystemUnitPath", 2),
					repeated("Attribute", 3),
					repeated("InternalElement", 4),
					single("SupportedRoleClass", 5),
				},
			},
			{
				Name: proto.String("Attribute"),
				Field: []*descriptorpb.FieldDescriptorProto{
					scalar("Name", 1),
					scalar("AttributeDataType", 2),
					optional("Value", 3, 0),
					single("RefSemantic", 4),
					repeated("Attribute", 5),
				},
				OneofDecl: []*descriptorpb.OneofDescriptorProto{{Name: proto.String("_Value")}},
			},
			{
				Name:  proto.String("RefSemantic"),
				Field: []*descriptorpb.FieldDescriptorProto{scalar("CorrespondingAttributePath", 1)},
			},
			{
				Name:  proto.String("SupportedRoleClass"),
				Field: []*descriptorpb.FieldDescriptorProto{scalar("RefRoleClassPath", 1)},
			},
		},
	}
}

func scalar(name string, num int32) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(num),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   descriptorpb.FieldDescriptorProto_TYPE_STRING.Enum(),
	}
}

// optional is a proto3 optional string backed by a synthetic oneof.
func optional(name string, num, oneof int32) *descriptorpb.FieldDescriptorProto {
	f := scalar(name, num)
	f.OneofIndex = proto.Int32(oneof)
	f.Proto3Optional = proto.Bool(true)
	return f
}

func single(name string, num int32) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:     proto.String(name),
		Number:   proto.Int32(num),
		Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:     descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum(),
		TypeName: proto.String(".datamodel." + name),
	}
}

func repeated(name string, num int32) *descriptorpb.FieldDescriptorProto {
	f := single(name, num)
	f.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
	return f
}
