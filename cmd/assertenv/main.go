package main

import (
	"os"

	"github.com/Azhovan/assertenv/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
