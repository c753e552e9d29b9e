package assertenv

// Provenance describes where each declared variable's value came from.
type Provenance struct {
	Variables []VariableProvenance
}

// VariableProvenance describes a single declared variable.
type VariableProvenance struct {
	Name       string
	Required   bool
	Type       TypeTag
	Set        bool   // Whether the snapshot contains the variable
	SourceName string // Source identifier (e.g., "env", "dotenv:.env"); empty when unset
}

// Origin returns the name of the source that supplied name, if any.
func (e *Environment) Origin(name string) (string, bool) {
	if e == nil {
		return "", false
	}
	if _, ok := e.values[name]; !ok {
		return "", false
	}
	return e.origins[name], true
}

// Trace reports, in declaration order, which source supplied every declared variable.
func Trace(schema *Schema, env *Environment) *Provenance {
	decls := schema.Declarations()
	prov := &Provenance{Variables: make([]VariableProvenance, 0, len(decls))}

	for _, d := range decls {
		source, set := env.Origin(d.Name)
		prov.Variables = append(prov.Variables, VariableProvenance{
			Name:       d.Name,
			Required:   d.Required,
			Type:       d.Type,
			Set:        set,
			SourceName: source,
		})
	}

	return prov
}
