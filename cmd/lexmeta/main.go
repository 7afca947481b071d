// Command-line entry point for LexMeta.
package main

import (
	"os"

	"github.com/jurimetric/lexmeta/internal/interfaces/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
