//go:build noprotobuf

package goaml_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	goaml "github.com/reoring/goaml"
)

func TestRepresentation_BinaryDisabled(t *testing.T) {
	assert.False(t, goaml.BinaryEnabled())
	rep := loadRepresentation(t, "TEST_DataModel.aml")

	_, err := rep.DataToByte(sampleObject(t))
	assert.ErrorIs(t, err, goaml.ErrCapabilityDisabled)
	_, err = rep.ByteToData([]byte{0x0a, 0x00})
	assert.ErrorIs(t, err, goaml.ErrCapabilityDisabled)
}
