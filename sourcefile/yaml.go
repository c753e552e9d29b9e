package sourcefile

import (
	"github.com/Azhovan/assertenv"
	"gopkg.in/yaml.v3"
)

// parseYAML reads
//
//	required:
//	  DB_HOST: str
//	optional:
//	  DEBUG: bool
//
// through yaml.Node so mapping order is kept.
func parseYAML(data []byte, source string) (*assertenv.Schema, error) {
	b := newBuilder(source)

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &assertenv.SchemaError{
			Source:  source,
			Code:    assertenv.ErrCodeSyntax,
			Message: "invalid YAML",
			Err:     err,
		}
	}

	// Empty document
	if len(doc.Content) == 0 {
		return b.schema, nil
	}

	root := doc.Content[0]
	if isNull(root) {
		return b.schema, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, b.errorf(root.Line, "", assertenv.ErrCodeSyntax, "top level must be a mapping with required and optional keys")
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if isNull(value) {
			continue
		}
		if value.Kind != yaml.MappingNode {
			return nil, b.errorf(value.Line, "", assertenv.ErrCodeSyntax, "section %q must be a mapping of variable names to types", key.Value)
		}

		for j := 0; j+1 < len(value.Content); j += 2 {
			name, tag := value.Content[j], value.Content[j+1]
			if tag.Kind != yaml.ScalarNode || isNull(tag) {
				return nil, b.errorf(name.Line, name.Value, assertenv.ErrCodeUnknownType, "type must be one of str, int, float, bool, any")
			}
			if err := b.add(key.Value, name.Value, tag.Value, name.Line); err != nil {
				return nil, err
			}
		}
	}

	return b.finish()
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}
