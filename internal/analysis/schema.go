package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// The expected shape of every model reply is declared once, in code, and used
// three ways: to render the example JSON embedded in the prompt, to hint the
// provider's structured-output mode, and to validate the reply before it is
// deserialized. Drift between prompt and parser is therefore a test failure,
// not a silent runtime parse failure.

// Type is the JSON type of a schema field.
type Type string

const (
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

// Field describes one named member of a reply object.
type Field struct {
	Name     string
	Type     Type
	Enum     []string // allowed values rendered into the prompt; not enforced on parse
	Elem     *Field   // element shape for TypeArray (Name is ignored)
	Fields   []Field  // members for TypeObject
	Example  any      // value rendered into the prompt's example JSON
	Optional bool
}

// Schema is the full shape of one analysis kind's reply object.
type Schema struct {
	Fields []Field
}

// ExampleJSON renders the schema as the literal JSON embedded in prompts.
// Field order is declaration order so the rendered text is deterministic.
func (s *Schema) ExampleJSON() string {
	var b bytes.Buffer
	writeObject(&b, s.Fields, 0)
	return b.String()
}

func writeObject(b *bytes.Buffer, fields []Field, depth int) {
	indent := strings.Repeat("  ", depth)
	b.WriteString("{\n")
	for i, f := range fields {
		fmt.Fprintf(b, "%s  %q: ", indent, f.Name)
		writeValue(b, f, depth+1)
		if i < len(fields)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(indent + "}")
}

func writeValue(b *bytes.Buffer, f Field, depth int) {
	if f.Example != nil {
		enc, err := json.Marshal(f.Example)
		if err == nil {
			b.Write(enc)
			return
		}
	}
	switch f.Type {
	case TypeString:
		if len(f.Enum) > 0 {
			fmt.Fprintf(b, "%q", f.Enum[0])
			return
		}
		fmt.Fprintf(b, "%q", f.Name)
	case TypeInteger:
		b.WriteString("0")
	case TypeNumber:
		b.WriteString("0.0")
	case TypeArray:
		b.WriteString("[")
		if f.Elem != nil {
			writeValue(b, *f.Elem, depth)
		}
		b.WriteString("]")
	case TypeObject:
		writeObject(b, f.Fields, depth)
	}
}

// Validate checks that data is a JSON object with every required field
// present, non-null, and of the declared type. Unknown fields are tolerated;
// enum membership and numeric ranges are not enforced, so sentinel strings
// and out-of-range scores pass through to the caller unchanged.
func (s *Schema) Validate(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	return validateObject("", s.Fields, v)
}

func validateObject(path string, fields []Field, v any) error {
	obj, ok := v.(map[string]any)
	if !ok {
		return fmt.Errorf("expected object at %q", orRoot(path))
	}
	for _, f := range fields {
		fieldPath := f.Name
		if path != "" {
			fieldPath = path + "." + f.Name
		}
		val, present := obj[f.Name]
		if !present || val == nil {
			if f.Optional {
				continue
			}
			return fmt.Errorf("missing required field %q", fieldPath)
		}
		if err := validateValue(fieldPath, f, val); err != nil {
			return err
		}
	}
	return nil
}

func validateValue(path string, f Field, v any) error {
	switch f.Type {
	case TypeString:
		if _, ok := v.(string); !ok {
			return fmt.Errorf("field %q must be a string", path)
		}
	case TypeInteger:
		n, ok := v.(json.Number)
		if !ok {
			return fmt.Errorf("field %q must be an integer", path)
		}
		if _, err := n.Int64(); err != nil {
			return fmt.Errorf("field %q must be an integer", path)
		}
	case TypeNumber:
		if _, ok := v.(json.Number); !ok {
			return fmt.Errorf("field %q must be a number", path)
		}
	case TypeArray:
		arr, ok := v.([]any)
		if !ok {
			return fmt.Errorf("field %q must be an array", path)
		}
		if f.Elem != nil {
			for i, elem := range arr {
				if err := validateValue(fmt.Sprintf("%s[%d]", path, i), *f.Elem, elem); err != nil {
					return err
				}
			}
		}
	case TypeObject:
		return validateObject(path, f.Fields, v)
	default:
		return fmt.Errorf("field %q has unknown schema type %q", path, f.Type)
	}
	return nil
}

func orRoot(path string) string {
	if path == "" {
		return "<root>"
	}
	return path
}
