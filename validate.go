package assertenv

import (
	"strconv"
	"strings"
)

// Validate checks every declared variable against env and returns all violations.
//
// Required variables must be set and non-empty before their type is checked.
// Optional variables are skipped when unset; when set, even to "", their
// value is type-checked. A failure on one variable never stops the others.
func Validate(schema *Schema, env *Environment) Report {
	var report Report

	for _, d := range schema.Declarations() {
		if v, ok := validateDeclaration(d, env); !ok {
			report = append(report, v)
		}
	}

	return report
}

// validateDeclaration checks a single declaration. ok is false when v holds a violation.
func validateDeclaration(d Declaration, env *Environment) (v Violation, ok bool) {
	value, set := env.Lookup(d.Name)
	source, _ := env.Origin(d.Name)

	if d.Required {
		if !set {
			return Violation{Name: d.Name, Code: ErrCodeMissing, Required: true}, false
		}
		// Presence is checked before type, so "" is empty even for any.
		if value == "" {
			return Violation{Name: d.Name, Code: ErrCodeEmpty, Required: true, Source: source}, false
		}
	} else if !set {
		return Violation{}, true
	}

	if !d.Type.Accepts(value) {
		return Violation{
			Name:     d.Name,
			Code:     ErrCodeTypeMismatch,
			Required: d.Required,
			Expected: d.Type,
			Actual:   value,
			Source:   source,
		}, false
	}

	return Violation{}, true
}

// Accepts reports whether value parses as the tag's type.
func (t TypeTag) Accepts(value string) bool {
	switch t {
	case TypeString, TypeAny:
		return true
	case TypeInteger:
		_, err := strconv.ParseInt(value, 10, 64)
		return err == nil
	case TypeFloat:
		return isDecimalFloat(value)
	case TypeBoolean:
		_, err := parseBool(value)
		return err == nil
	default:
		return false
	}
}

// isDecimalFloat accepts decimal and scientific literals such as "3.14",
// "-0.5" and "1e10". Hex floats, inf, nan and out-of-range values are rejected.
func isDecimalFloat(value string) bool {
	if value == "" || strings.Trim(value, "0123456789+-.eE") != "" {
		return false
	}
	_, err := strconv.ParseFloat(value, 64)
	return err == nil
}

// parseBool accepts true/false, 1/0 and yes/no, case-insensitively.
// Unlike strconv.ParseBool, surrounding whitespace is not tolerated.
func parseBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	default:
		return false, strconv.ErrSyntax
	}
}
