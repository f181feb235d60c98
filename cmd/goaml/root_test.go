package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goaml "github.com/reoring/goaml"
	"github.com/reoring/goaml/i18n"
	"github.com/reoring/goaml/objview"
)

var schemaPath = filepath.Join("..", "..", "testdata", "TEST_DataModel.aml")

const record = `{
  "device": "SAMPLE001",
  "timestamp": "123456789",
  "data": {
    "Model": {"a": "Model_107.113.97.248", "b": "SR-P7-970"},
    "Sample": {
      "info": {"id": "info-1", "axis": {"x": "1", "y": "2", "z": "3"}},
      "appendix": ["10", "20", "30"]
    }
  }
}`

// run executes the CLI with args and returns stdout and stderr.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	// --language switches the process-wide translator.
	t.Cleanup(func() { i18n.SetLanguage("en") })
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestIDCommand(t *testing.T) {
	out, _, err := run(t, "", "id", "--schema", schemaPath)
	require.NoError(t, err)
	assert.Equal(t, "SAMPLE_Robot_0.0.1\n", out)
}

func TestIDCommand_NoSchema(t *testing.T) {
	_, _, err := run(t, "", "id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--schema")
}

func TestLanguageFlag(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.aml")

	_, _, err := run(t, "", "id", "--schema", missing, "--language", "ja")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ファイルパスが不正です")

	_, _, err = run(t, "", "id", "--schema", missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid file path")
}

func TestConfigCommand(t *testing.T) {
	out, _, err := run(t, "", "config", "-s", schemaPath)
	require.NoError(t, err)

	obj, err := objview.UnmarshalJSON([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "SAMPLE_Robot", obj.DeviceID())
	assert.Equal(t, []string{"Model", "Sample"}, obj.DataNames())

	out, _, err = run(t, "", "config", "-s", schemaPath, "-o", "yaml")
	require.NoError(t, err)
	fromYAML, err := objview.UnmarshalYAML([]byte(out))
	require.NoError(t, err)
	assert.True(t, obj.Equal(fromYAML))
}

func TestTemplateCommand(t *testing.T) {
	out, _, err := run(t, "", "template", "Sample", "-s", schemaPath)
	require.NoError(t, err)
	assert.Contains(t, out, "appendix")
	assert.Contains(t, out, "kind: list")

	out, _, err = run(t, "", "template", "Sample", "-s", schemaPath, "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"Kind": "record"`)

	_, _, err = run(t, "", "template", "Nope", "-s", schemaPath)
	assert.Error(t, err)
}

func TestEncodeDecode_Markup(t *testing.T) {
	aml, _, err := run(t, record, "encode", "-s", schemaPath)
	require.NoError(t, err)
	assert.Contains(t, aml, `<InternalElement Name="Event"`)

	out, _, err := run(t, aml, "decode", "-s", schemaPath)
	require.NoError(t, err)

	want, err := objview.UnmarshalJSON([]byte(record))
	require.NoError(t, err)
	got, err := objview.UnmarshalJSON([]byte(out))
	require.NoError(t, err)
	assert.True(t, want.Equal(got), "decoded record:\n%s", out)
}

func TestEncodeDecode_BinaryFiles(t *testing.T) {
	if !goaml.BinaryEnabled() {
		t.Skip("built without binary support")
	}
	dir := t.TempDir()
	in := filepath.Join(dir, "record.yaml")
	bin := filepath.Join(dir, "record.bin")

	want, err := objview.UnmarshalJSON([]byte(record))
	require.NoError(t, err)
	y, err := objview.MarshalYAML(want)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(in, y, 0o644))

	_, _, err = run(t, "", "encode", in, "--binary", "--out", bin, "-s", schemaPath)
	require.NoError(t, err)

	out, _, err := run(t, "", "decode", bin, "--binary", "-s", schemaPath, "-o", "yaml")
	require.NoError(t, err)
	got, err := objview.UnmarshalYAML([]byte(out))
	require.NoError(t, err)
	assert.True(t, want.Equal(got), "decoded record:\n%s", out)
}

func TestEncode_SchemaMismatch(t *testing.T) {
	_, stderr, err := run(t, `{"device":"d","timestamp":"1","data":{"Unknown":{}}}`,
		"encode", "-s", schemaPath, "--log-format", "json", "--log-level", "error")
	require.Error(t, err)
	assert.ErrorIs(t, err, goaml.ErrSchemaMismatch)
	assert.Contains(t, stderr, `"code":"schema_mismatch"`)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	abs, err := filepath.Abs(schemaPath)
	require.NoError(t, err)
	cfgPath := filepath.Join(dir, "goaml.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("schema: "+abs+"\nlogLevel: debug\nlogFormat: json\nlanguage: en\nmaxDepth: 8\n"), 0o644))

	out, stderr, err := run(t, "", "id", "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "SAMPLE_Robot_0.0.1\n", out)
	assert.Contains(t, stderr, `"msg":"data model loaded"`)

	// flags win over the file
	_, stderr, err = run(t, "", "id", "--config", cfgPath, "--log-level", "error")
	require.NoError(t, err)
	assert.Empty(t, stderr)
}

func TestConfigFile_RelativeSchema(t *testing.T) {
	dir := t.TempDir()
	b, err := os.ReadFile(schemaPath)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.aml"), b, 0o644))
	cfgPath := filepath.Join(dir, "goaml.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("schema: model.aml\n"), 0o644))

	out, _, err := run(t, "", "id", "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "SAMPLE_Robot_0.0.1\n", out)
}

func TestConfigFile_UnknownKey(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "goaml.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("schemas: x\n"), 0o644))
	_, _, err := run(t, "", "id", "--config", cfgPath)
	assert.Error(t, err)
}

func TestNewLogger_Invalid(t *testing.T) {
	_, err := newLogger("loud", formatText, &bytes.Buffer{})
	assert.Error(t, err)
	_, err = newLogger("info", "xml", &bytes.Buffer{})
	assert.Error(t, err)
}
