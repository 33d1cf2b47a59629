package docschema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
  "type": "object",
  "properties": {
    "count": {"type": "integer", "minimum": 0},
    "tags": {"type": "array", "items": {"type": "string"}}
  }
}`

func TestValidate_Accepts(t *testing.T) {
	s := MustCompile("test", testSchema)
	doc, err := Decode([]byte(`{"count": 2, "tags": ["a"], "extra": true}`))
	require.NoError(t, err)

	assert.NoError(t, s.Validate(doc))
}

func TestValidate_NamesFailingField(t *testing.T) {
	s := MustCompile("test", testSchema)
	doc, err := Decode([]byte(`{"count": -1}`))
	require.NoError(t, err)

	err = s.Validate(doc)
	require.Error(t, err)
	v, ok := err.(*Violation)
	require.True(t, ok)
	assert.Equal(t, "count", v.Field)
	assert.NotEmpty(t, v.Message)
}

func TestValidate_NestedField(t *testing.T) {
	s := MustCompile("test", testSchema)
	doc, err := Decode([]byte(`{"tags": ["a", 3]}`))
	require.NoError(t, err)

	err = s.Validate(doc)
	require.Error(t, err)
	assert.Equal(t, "tags/1", err.(*Violation).Field)
}

func TestValidate_RootType(t *testing.T) {
	s := MustCompile("test", testSchema)
	doc, err := Decode([]byte(`[1, 2]`))
	require.NoError(t, err)

	err = s.Validate(doc)
	require.Error(t, err)
	assert.Equal(t, "", err.(*Violation).Field)
}

func TestDecode_KeepsNumbers(t *testing.T) {
	doc, err := Decode([]byte(`{"score": 0.95}`))
	require.NoError(t, err)

	m := doc.(map[string]interface{})
	assert.Equal(t, json.Number("0.95"), m["score"])
}

func TestMustCompile_PanicsOnBadSchema(t *testing.T) {
	assert.Panics(t, func() {
		MustCompile("broken", `{"type": 12}`)
	})
}
