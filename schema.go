package assertenv

import (
	"fmt"

	"github.com/Azhovan/assertenv/internal/normalize"
)

// Schema is the ordered set of declared variables.
// Required and Optional each keep declaration order.
type Schema struct {
	Required []Declaration
	Optional []Declaration
}

// NewSchema creates an empty schema.
func NewSchema() *Schema {
	return &Schema{}
}

// Require declares a required variable.
func (s *Schema) Require(name string, tag TypeTag) *Schema {
	s.Add(Declaration{Name: name, Required: true, Type: tag})
	return s
}

// Allow declares an optional variable.
func (s *Schema) Allow(name string, tag TypeTag) *Schema {
	s.Add(Declaration{Name: name, Required: false, Type: tag})
	return s
}

// Add appends a declaration to the group selected by d.Required.
func (s *Schema) Add(d Declaration) {
	if d.Required {
		s.Required = append(s.Required, d)
	} else {
		s.Optional = append(s.Optional, d)
	}
}

// Merge appends all declarations of other, preserving order.
func (s *Schema) Merge(other *Schema) {
	if other == nil {
		return
	}
	s.Required = append(s.Required, other.Required...)
	s.Optional = append(s.Optional, other.Optional...)
}

// Declarations returns required declarations followed by optional ones.
func (s *Schema) Declarations() []Declaration {
	if s == nil {
		return nil
	}
	all := make([]Declaration, 0, len(s.Required)+len(s.Optional))
	all = append(all, s.Required...)
	all = append(all, s.Optional...)
	return all
}

// Len returns the number of declared variables.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Required) + len(s.Optional)
}

// Check rejects invalid names, unknown type tags and duplicate names.
// A name may appear only once across required and optional combined.
func (s *Schema) Check() error {
	seen := make(map[string]Declaration, s.Len())

	for _, d := range s.Declarations() {
		if !normalize.ValidName(d.Name) {
			return &SchemaError{
				Source:  d.Source,
				Line:    d.Line,
				Name:    d.Name,
				Code:    ErrCodeInvalidName,
				Message: "invalid variable name",
			}
		}

		if d.Type < TypeString || d.Type > TypeAny {
			return &SchemaError{
				Source:  d.Source,
				Line:    d.Line,
				Name:    d.Name,
				Code:    ErrCodeUnknownType,
				Message: fmt.Sprintf("unknown type tag %d", int(d.Type)),
			}
		}

		if prev, ok := seen[d.Name]; ok {
			return &SchemaError{
				Source:  d.Source,
				Line:    d.Line,
				Name:    d.Name,
				Code:    ErrCodeDuplicate,
				Message: "declared more than once (first declared " + describeLocation(prev) + ")",
			}
		}
		seen[d.Name] = d
	}

	return nil
}

func describeLocation(d Declaration) string {
	group := "optional"
	if d.Required {
		group = "required"
	}
	switch {
	case d.Source != "" && d.Line > 0:
		return fmt.Sprintf("as %s at %s:%d", group, d.Source, d.Line)
	case d.Source != "":
		return fmt.Sprintf("as %s in %s", group, d.Source)
	default:
		return "as " + group
	}
}
