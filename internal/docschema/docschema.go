// Package docschema validates decoded JSON documents against embedded JSON
// Schemas and reports the first failing field.
package docschema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Schema is a compiled document schema.
type Schema struct {
	name     string
	compiled *jsonschema.Schema
}

// Violation describes why a document failed validation.
type Violation struct {
	Field   string // JSON pointer without the leading slash, empty for the root
	Message string
}

func (v *Violation) Error() string {
	if v.Field == "" {
		return v.Message
	}
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// MustCompile compiles an embedded schema and panics on error.
func MustCompile(name, source string) *Schema {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	url := fmt.Sprintf("https://promptgate.local/schemas/%s.schema.json", name)
	if err := c.AddResource(url, strings.NewReader(source)); err != nil {
		panic(fmt.Sprintf("docschema: load %s: %v", name, err))
	}
	compiled, err := c.Compile(url)
	if err != nil {
		panic(fmt.Sprintf("docschema: compile %s: %v", name, err))
	}
	return &Schema{name: name, compiled: compiled}
}

// Decode parses JSON with UseNumber so numbers keep their source precision.
func Decode(data []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Validate checks doc against the schema. It returns a *Violation naming the
// deepest failing location.
func (s *Schema) Validate(doc interface{}) error {
	err := s.compiled.Validate(doc)
	if err == nil {
		return nil
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return &Violation{Message: err.Error()}
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return &Violation{
		Field:   strings.TrimPrefix(ve.InstanceLocation, "/"),
		Message: ve.Message,
	}
}
