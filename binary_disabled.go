//go:build noprotobuf

package goaml

// BinaryEnabled reports whether DataToByte and ByteToData are compiled in.
func BinaryEnabled() bool { return false }

func (r *Representation) dataToByte(*Object) ([]byte, error) {
	return nil, newError(CodeCapabilityDisabled, "DataToByte is not supported (built with noprotobuf)")
}

func (r *Representation) byteToData([]byte) (*Object, error) {
	return nil, newError(CodeCapabilityDisabled, "ByteToData is not supported (built with noprotobuf)")
}
