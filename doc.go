// Package assertenv checks declared environment variables before handing the
// process over to another program.
//
// Quick Start:
//
//	loader := assertenv.NewLoader().
//	    WithSchema(sourcefile.New("AssertEnv.toml", sourcefile.Options{Required: true})).
//	    WithEnvironment(sourceenv.New())
//
//	result, err := loader.Check(context.Background())
//	if err != nil {
//	    log.Fatal(err) // *SchemaError or source failure
//	}
//
//	assertenv.NewLauncher().Launch(result.Report, []string{"node", "index.js"}, result.Env.Environ())
//
// Type tags: str, int, float, bool, any.
// Boolean values accepted (case-insensitive): true, false, 1, 0, yes, no.
//
// See example_test.go for detailed usage.
package assertenv
