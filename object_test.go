package goaml_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goaml "github.com/reoring/goaml"
)

func TestNewObject_DefaultID(t *testing.T) {
	obj, err := goaml.NewObject("SAMPLE001", "123456789")
	require.NoError(t, err)
	assert.Equal(t, "SAMPLE001", obj.DeviceID())
	assert.Equal(t, "123456789", obj.Timestamp())
	assert.Equal(t, "SAMPLE001_123456789", obj.ID())
	assert.Empty(t, obj.DataNames())
}

func TestNewObjectWithID(t *testing.T) {
	obj, err := goaml.NewObjectWithID("dev", "1", "custom")
	require.NoError(t, err)
	assert.Equal(t, "custom", obj.ID())

	for _, args := range [][3]string{{"", "1", "x"}, {"dev", "", "x"}, {"dev", "1", ""}} {
		_, err := goaml.NewObjectWithID(args[0], args[1], args[2])
		assert.ErrorIs(t, err, goaml.ErrInvalidParam, "%v", args)
	}
}

func TestObject_AddData(t *testing.T) {
	obj, err := goaml.NewObject("dev", "1")
	require.NoError(t, err)

	d := goaml.NewData()
	require.NoError(t, d.SetString("a", "1"))
	require.NoError(t, obj.AddData("Model", d))

	err = obj.AddData("Model", d)
	assert.ErrorIs(t, err, goaml.ErrDuplicateKey)
	assert.ErrorIs(t, obj.AddData("", d), goaml.ErrInvalidParam)
	assert.ErrorIs(t, obj.AddData("Other", nil), goaml.ErrInvalidParam)

	// stored as a copy
	require.NoError(t, d.SetString("b", "2"))
	got, err := obj.Data("Model")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got.Keys())

	_, err = obj.Data("Missing")
	assert.ErrorIs(t, err, goaml.ErrKeyNotFound)
	_, err = obj.Data("")
	assert.ErrorIs(t, err, goaml.ErrInvalidParam)
}

func TestObject_DataNamesSorted(t *testing.T) {
	obj, err := goaml.NewObject("dev", "1")
	require.NoError(t, err)
	for _, n := range []string{"Sample", "Model", "Axis"} {
		require.NoError(t, obj.AddData(n, goaml.NewData()))
	}
	assert.Equal(t, []string{"Axis", "Model", "Sample"}, obj.DataNames())
}

func TestObject_Equal(t *testing.T) {
	a := sampleObject(t)
	b := sampleObject(t)
	assert.True(t, a.Equal(b))

	c, err := goaml.NewObjectWithID("SAMPLE001", "123456789", "other")
	require.NoError(t, err)
	assert.False(t, a.Equal(c))

	var nilObj *goaml.Object
	assert.False(t, a.Equal(nilObj))
	assert.True(t, nilObj.Equal(nil))
}
