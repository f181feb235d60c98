package goaml

import (
	"github.com/beevik/etree"
)

// ClassTemplate is a read-only view of a SystemUnitClass: the shape instance
// data must conform to.
type ClassTemplate struct {
	Name       string
	Attributes []AttributeDecl
}

// AttributeDecl is one attribute slot of a ClassTemplate. Children is set for
// SlotRecord slots only.
type AttributeDecl struct {
	Name     string
	DataType string
	Kind     SlotKind
	Children []AttributeDecl
}

// model owns the loaded schema document. Nothing mutates doc after load;
// templates are copied before they are instantiated.
type model struct {
	sucl *etree.Element // SystemUnitClassLib: structure templates.
	rcl  *etree.Element // RoleClassLib: default values per template.

	templates map[string]ClassTemplate
}

func loadModel(path string, maxDepth int) (*model, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, &Error{Code: CodeInvalidFilePath, Message: path, Cause: err}
	}
	caex := doc.SelectElement(tagCAEXFile)
	if caex == nil {
		return nil, newError(CodeInvalidSchema, "<%s> does not exist", tagCAEXFile)
	}
	sucl := caex.SelectElement(tagSystemUnitClassLib)
	if sucl == nil {
		return nil, newError(CodeInvalidSchema, "<%s> does not exist", tagSystemUnitClassLib)
	}
	rcl := caex.SelectElement(tagRoleClassLib)
	if rcl == nil {
		return nil, newError(CodeInvalidSchema, "<%s> does not exist", tagRoleClassLib)
	}

	// instance data is not part of the model
	for _, tag := range []string{tagAdditionalInformation, tagInstanceHierarchy} {
		for _, el := range caex.SelectElements(tag) {
			caex.RemoveChild(el)
		}
	}

	m := &model{sucl: sucl, rcl: rcl, templates: map[string]ClassTemplate{}}
	for _, suc := range sucl.SelectElements(tagSystemUnitClass) {
		name := nameOf(suc)
		if _, dup := m.templates[name]; dup {
			continue // first declaration wins, like the element lookup
		}
		m.templates[name] = ClassTemplate{Name: name, Attributes: declsOf(suc, maxDepth)}
	}
	return m, nil
}

func declsOf(el *etree.Element, depthLeft int) []AttributeDecl {
	attrs := el.SelectElements(tagAttribute)
	if len(attrs) == 0 {
		return nil
	}
	out := make([]AttributeDecl, 0, len(attrs))
	for _, a := range attrs {
		d := AttributeDecl{
			Name:     nameOf(a),
			DataType: a.SelectAttrValue(attrAttributeDataType, ""),
			Kind:     templateSlotKind(a),
		}
		if d.Kind == SlotRecord && depthLeft > 1 {
			d.Children = declsOf(a, depthLeft-1)
		}
		out = append(out, d)
	}
	return out
}

// id is "<SystemUnitClassLib name>_<version>".
func (m *model) id() string {
	version := ""
	if v := m.sucl.SelectElement(tagVersion); v != nil {
		version = v.Text()
	}
	return nameOf(m.sucl) + "_" + version
}

func (m *model) template(name string) (ClassTemplate, bool) {
	t, ok := m.templates[name]
	if !ok {
		return ClassTemplate{}, false
	}
	return ClassTemplate{Name: t.Name, Attributes: cloneDecls(t.Attributes)}, true
}

func cloneDecls(in []AttributeDecl) []AttributeDecl {
	if in == nil {
		return nil
	}
	out := make([]AttributeDecl, len(in))
	for i, d := range in {
		d.Children = cloneDecls(d.Children)
		out[i] = d
	}
	return out
}

// structureTemplate finds a SystemUnitClass by exact name.
func (m *model) structureTemplate(name string) *etree.Element {
	return childByName(m.sucl, tagSystemUnitClass, name)
}

// instantiate copies the named template under parent as an InternalElement
// with a RefBaseSystemUnitPath back-reference.
func (m *model) instantiate(parent *etree.Element, name string) (*etree.Element, error) {
	suc := m.structureTemplate(name)
	if suc == nil {
		return nil, newError(CodeSchemaMismatch, "<%s> is not present in %s", name, tagSystemUnitClassLib)
	}
	ie := suc.Copy()
	ie.Tag = tagInternalElement
	ie.CreateAttr(attrRefBaseSystemUnitPath, nameOf(m.sucl)+"/"+name)
	parent.AddChild(ie)
	return ie, nil
}

// configObject builds the default configuration: one Data per structure
// template (except Event), filled from the same-named RoleClass.
func (m *model) configObject() (*Object, error) {
	obj := newObject(nameOf(m.rcl), "0", nameOf(m.rcl)+"_0")
	for _, suc := range m.sucl.SelectElements(tagSystemUnitClass) {
		name := nameOf(suc)
		if name == eventTemplate {
			continue
		}
		rc := childByName(m.rcl, tagRoleClass, name)
		if rc == nil {
			return nil, &Error{Code: CodeKeyNotFound, Message: "<" + tagRoleClass + " Name=\"" + name + "\"> does not exist"}
		}
		data := NewData()
		for _, a := range rc.SelectElements(tagAttribute) {
			if err := data.SetString(nameOf(a), valueText(a)); err != nil {
				return nil, withPath(err, name)
			}
		}
		if err := obj.AddData(name, data); err != nil {
			return nil, err
		}
	}
	return obj, nil
}
