package goaml

// Kind reports which alternative a Value holds.
type Kind int

const (
	KindString      Kind = iota // Scalar string.
	KindStringArray             // Ordered list of strings.
	KindData                    // Nested Data map.
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "String"
	case KindStringArray:
		return "String Array"
	case KindData:
		return "Data"
	default:
		return "Unknown"
	}
}

// Value is a single typed value of the object model. The set of
// implementations is closed: String, StringArray and *Data.
//
// Consumers switch on the concrete type:
//
//	switch v := v.(type) {
//	case goaml.String:
//	case goaml.StringArray:
//	case *goaml.Data:
//	}
type Value interface {
	Kind() Kind
	isValue()
}

// String is a scalar value.
type String string

// StringArray is an ordered list of scalars; the order is the array index.
type StringArray []string

func (String) Kind() Kind      { return KindString }
func (StringArray) Kind() Kind { return KindStringArray }
func (*Data) Kind() Kind       { return KindData }

func (String) isValue()      {}
func (StringArray) isValue() {}
func (*Data) isValue()       {}

// cloneValue deep-copies v so stored values never alias caller memory.
func cloneValue(v Value) Value {
	switch t := v.(type) {
	case StringArray:
		out := make(StringArray, len(t))
		copy(out, t)
		return out
	case *Data:
		return t.Clone()
	default:
		return v
	}
}

func equalValue(a, b Value) bool {
	switch x := a.(type) {
	case String:
		y, ok := b.(String)
		return ok && x == y
	case StringArray:
		y, ok := b.(StringArray)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if x[i] != y[i] {
				return false
			}
		}
		return true
	case *Data:
		y, ok := b.(*Data)
		return ok && x.Equal(y)
	default:
		return false
	}
}
