// Package sourcefile loads schemas from TOML, YAML, JSON, or plain files.
//
// Every format declares two groups, required and optional, mapping variable
// names to type tags (str, int, float, bool, any):
//
//	[required]
//	DB_HOST = "str"
//	DB_PORT = "int"
//
//	[optional]
//	DEBUG = "bool"
//
// The plain format is the same layout with unquoted tags (DB_PORT=int) and
// '#' comments anywhere on a line. A .toml file that is not valid TOML is
// read as plain. Format is auto-detected from extension (.toml, .yaml, .yml,
// .json); anything else is plain.
//
// Example:
//
//	source := sourcefile.New("AssertEnv.toml", sourcefile.Options{Required: true})
//	loader := assertenv.NewLoader().WithSchema(source)
package sourcefile
