// Package sourceenv provides environment snapshots: the process environment
// and dotenv files.
//
// Sources are layered by the loader in the order given, later sources
// overriding earlier ones. Put dotenv files first so the real environment wins:
//
//	loader := assertenv.NewLoader().
//	    WithEnvironment(sourceenv.NewDotenv(".env", sourceenv.DotenvOptions{})).
//	    WithEnvironment(sourceenv.New())
package sourceenv
