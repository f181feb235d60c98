//go:build !noprotobuf

package goaml_test

import (
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goaml "github.com/reoring/goaml"
	"github.com/reoring/goaml/internal/caexpb"
)

func TestRepresentation_BinaryRoundTrip(t *testing.T) {
	require.True(t, goaml.BinaryEnabled())
	rep := loadRepresentation(t, "TEST_DataModel.aml")
	obj := sampleObject(t)

	b, err := rep.DataToByte(obj)
	require.NoError(t, err)
	require.NotEmpty(t, b)

	back, err := rep.ByteToData(b)
	require.NoError(t, err)
	if diff := cmp.Diff(obj, back); diff != "" {
		t.Fatalf("binary round trip mismatch (-want +got):\n%s", diff)
	}
}

// The binary and markup forms describe the same instance tree.
func TestRepresentation_BinaryMatchesMarkup(t *testing.T) {
	rep := loadRepresentation(t, "TEST_DataModel.aml")
	obj := sampleObject(t)

	b, err := rep.DataToByte(obj)
	require.NoError(t, err)
	fromBinary, err := rep.ByteToData(b)
	require.NoError(t, err)

	text, err := rep.DataToAML(obj)
	require.NoError(t, err)
	fromMarkup, err := rep.AMLToData(text)
	require.NoError(t, err)

	assert.True(t, fromBinary.Equal(fromMarkup))
}

func TestRepresentation_ByteToData_Errors(t *testing.T) {
	rep := loadRepresentation(t, "TEST_DataModel.aml")

	_, err := rep.ByteToData([]byte("invalidBinary"))
	assert.ErrorIs(t, err, goaml.ErrInvalidBinary)

	// well-formed but empty: no instance hierarchy to read
	_, err = rep.ByteToData(nil)
	assert.ErrorIs(t, err, goaml.ErrInvalidSchema)
}

func TestRepresentation_ByteToData_NestingBeyondMaxDepth(t *testing.T) {
	rep := loadRepresentation(t, "TEST_DataModel.aml")

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(instanceDoc(`<InternalElement Name="Event">`+identity+`
		<InternalElement Name="Model">`+
		strings.Repeat(`<Attribute Name="x">`, 200)+strings.Repeat(`</Attribute>`, 200)+`
		</InternalElement>
	</InternalElement>`)))
	msg, err := caexpb.FromElement(doc.Root(), 1000)
	require.NoError(t, err)
	b, err := caexpb.Marshal(msg)
	require.NoError(t, err)

	obj, err := rep.ByteToData(b)
	require.Error(t, err)
	assert.Nil(t, obj)
	assert.ErrorIs(t, err, goaml.ErrSchemaMismatch)
	assert.Contains(t, err.Error(), "attribute nesting exceeds 64 levels at SAMPLE_Robot/Event/Model/x")
}

func TestRepresentation_DataToByte_Errors(t *testing.T) {
	rep := loadRepresentation(t, "TEST_DataModel.aml")

	_, err := rep.DataToByte(nil)
	assert.ErrorIs(t, err, goaml.ErrInvalidParam)

	obj := sampleObject(t)
	require.NoError(t, obj.AddData("Unknown", goaml.NewData()))
	_, err = rep.DataToByte(obj)
	assert.ErrorIs(t, err, goaml.ErrSchemaMismatch)

	bad, err := goaml.NewObject("dev", "1")
	require.NoError(t, err)
	model := goaml.NewData()
	require.NoError(t, model.SetString("a", "\xff\xfe"))
	require.NoError(t, model.SetString("b", "ok"))
	require.NoError(t, bad.AddData("Model", model))
	_, err = rep.DataToByte(bad)
	assert.ErrorIs(t, err, goaml.ErrSerializationFailed)
}
